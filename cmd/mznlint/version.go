package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mznlint/internal/lint"
	"mznlint/internal/modelio"
	"mznlint/internal/version"
)

// buildInfo is what `mznlint version` knows about the binary: the release,
// the snapshot schema it reads and the rules compiled in.
type buildInfo struct {
	Version string
	Schema  uint16
	Rules   []string
	Commit  string
	Message string
	Date    string
}

type versionPayload struct {
	Tool    string   `json:"tool"`
	Version string   `json:"version"`
	Schema  uint16   `json:"snapshot_schema"`
	Rules   []string `json:"rules"`
	Commit  string   `json:"git_commit,omitempty"`
	Message string   `json:"git_message,omitempty"`
	Date    string   `json:"build_date,omitempty"`
}

// versionDetail selects the optional build metadata to print.
type versionDetail struct {
	commit, message, date bool
}

func init() {
	f := versionCmd.Flags()
	f.String("format", "pretty", "output format (pretty|json)")
	f.Bool("hash", false, "include git commit hash")
	f.Bool("message", false, "include git commit message")
	f.Bool("date", false, "include build timestamp")
	f.Bool("full", false, "include all build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mznlint version, snapshot schema and rule set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		detail, err := readVersionDetail(cmd)
		if err != nil {
			return err
		}
		switch strings.ToLower(format) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), currentBuild(version.Plain()), detail)
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), currentBuild(version.Version), detail)
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func readVersionDetail(cmd *cobra.Command) (versionDetail, error) {
	var d versionDetail
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return d, err
	}
	for name, dst := range map[string]*bool{"hash": &d.commit, "message": &d.message, "date": &d.date} {
		on, err := cmd.Flags().GetBool(name)
		if err != nil {
			return d, err
		}
		*dst = on || full
	}
	return d, nil
}

func currentBuild(v string) buildInfo {
	info := buildInfo{
		Version: strings.TrimSpace(v),
		Schema:  modelio.SchemaVersion,
		Commit:  strings.TrimSpace(version.GitCommit),
		Message: strings.TrimSpace(version.GitMessage),
		Date:    strings.TrimSpace(version.BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	for _, r := range lint.All() {
		info.Rules = append(info.Rules, r.Name())
	}
	return info
}

func renderVersionPretty(out io.Writer, info buildInfo, d versionDetail) {
	fmt.Fprintf(out, "mznlint %s\n", info.Version)
	fmt.Fprintf(out, "snapshot schema: %d\n", info.Schema)
	fmt.Fprintf(out, "rules: %d (%s)\n", len(info.Rules), strings.Join(info.Rules, ", "))
	if d.commit {
		fmt.Fprintf(out, "commit: %s\n", orUnknown(info.Commit))
	}
	if d.message {
		fmt.Fprintf(out, "message: %s\n", orUnknown(info.Message))
	}
	if d.date {
		fmt.Fprintf(out, "built: %s\n", orUnknown(info.Date))
	}
}

func renderVersionJSON(out io.Writer, info buildInfo, d versionDetail) error {
	payload := versionPayload{
		Tool:    "mznlint",
		Version: info.Version,
		Schema:  info.Schema,
		Rules:   info.Rules,
	}
	if payload.Rules == nil {
		payload.Rules = []string{}
	}
	if d.commit {
		payload.Commit = orUnknown(info.Commit)
	}
	if d.message {
		payload.Message = orUnknown(info.Message)
	}
	if d.date {
		payload.Date = orUnknown(info.Date)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
