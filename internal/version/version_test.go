package version

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
)

var semverRe = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.]+)?$`)

func TestPlain_IsSemver(t *testing.T) {
	if !semverRe.MatchString(Plain()) {
		t.Fatalf("Plain() = %q is not a semantic version", Plain())
	}
	if strings.Contains(Plain(), "\x1b") {
		t.Fatalf("Plain() must not contain color escapes")
	}
}

func TestVersion_MatchesPlainWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	v := versionMajorColor.Sprint(major) + "." + versionMinorColor.Sprint(minor) + "." + versionPatchColor.Sprint(patch) + pre
	if v != Plain() {
		t.Fatalf("uncolored version %q differs from Plain() %q", v, Plain())
	}
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123def456"
	BuildDate = "2026-01-15T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2026-01-15T10:30:00Z" {
		t.Fatalf("ldflags-style overrides did not stick")
	}
}
