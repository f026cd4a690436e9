package version

import "github.com/fatih/color"

// Version information for the mznlint CLI.
// These variables can be overridden at build time via -ldflags.

const (
	major = "0"
	minor = "3"
	patch = "0"
	pre   = "-dev"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the colored semantic version shown by --version.
	Version = versionMajorColor.Sprint(major) + "." + versionMinorColor.Sprint(minor) + "." + versionPatchColor.Sprint(patch) + pre

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Plain returns the version without terminal colors, for machine-readable output.
func Plain() string {
	return major + "." + minor + "." + patch + pre
}
