package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mznlint/internal/ast"
	"mznlint/internal/config"
	"mznlint/internal/diagfmt"
	"mznlint/internal/lint"
	"mznlint/internal/modelio"
	"mznlint/internal/testkit"
)

func writeSnapshot(t *testing.T, dir, name string, typ ast.Type) string {
	t.Helper()
	// <typ>: x = 5;
	f := testkit.NewFixture("model.mzn")
	f.GlobalValue(typ, "x", f.Int(5))
	path := filepath.Join(dir, name)
	if err := modelio.WriteFile(path, f.Build()); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestLintCommand_JSONFindings(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "model.mznast", ast.VarInt)
	manifest := "[lint]\ndisable = [\"unbounded-.*\"]\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "lint", "--ui", "off", "--color", "off", "--format", "json", path)
	var exit exitError
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	var doc diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Rule != "constant-variable" {
		t.Fatalf("unexpected diagnostics: %+v", doc.Diagnostics)
	}
	if len(doc.Diagnostics[0].Subs) != 1 {
		t.Fatalf("expected the assignment as a sub-finding: %+v", doc.Diagnostics[0])
	}
}

func TestLintCommand_TextCleanModel(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "clean.mznast", ast.ParInt)

	out, errOut, err := execute(t, "lint", "--ui", "off", "--color", "off", "--format", "text", dir)
	if err != nil {
		t.Fatalf("expected success, got %v\n%s", err, errOut)
	}
	if out != "" {
		t.Fatalf("expected no findings, got:\n%s", out)
	}
	if !strings.Contains(errOut, "1 models, 0 findings") {
		t.Fatalf("missing summary in %q (linted %s)", errOut, path)
	}
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	hidden := filepath.Join(dir, ".cache")
	for _, d := range []string{sub, hidden} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range []string{
		filepath.Join(dir, "b.mznast"),
		filepath.Join(sub, "a.mznast"),
		filepath.Join(hidden, "skip.mznast"),
		filepath.Join(dir, "notes.txt"),
	} {
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	got, err := collectInputs([]string{dir, filepath.Join(dir, "b.mznast")})
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	want := []string{filepath.Join(dir, "b.mznast"), filepath.Join(sub, "a.mznast")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := collectInputs([]string{sub + "-missing"}); err == nil {
		t.Errorf("expected error for a missing path")
	}
	if _, err := collectInputs([]string{hidden + "/.."}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRuleRows(t *testing.T) {
	filter, err := config.NewRuleFilter(nil, []string{"unbounded-variable"})
	if err != nil {
		t.Fatal(err)
	}
	rows := ruleRows(lint.All(), filter)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rows))
	}
	if rows[0].ID != 4 || !rows[0].Enabled || rows[1].ID != 13 || rows[1].Enabled {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	var buf bytes.Buffer
	renderRules(&buf, rows, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[1], "4   constant-variable") || !strings.HasSuffix(lines[2], "no") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("expected error for an unknown mode")
	}
	if on, err := useColor("on"); err != nil || !on {
		t.Errorf("useColor(on) = %v, %v", on, err)
	}
	if on, err := useColor("off"); err != nil || on {
		t.Errorf("useColor(off) = %v, %v", on, err)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := currentBuild("0.3.0-dev")
	info.Commit = "abc123"
	if err := renderVersionJSON(&buf, info, versionDetail{commit: true, date: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "mznlint" || payload.Commit != "abc123" || payload.Date != "unknown" || payload.Message != "" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Schema != modelio.SchemaVersion {
		t.Errorf("snapshot_schema = %d, want %d", payload.Schema, modelio.SchemaVersion)
	}
	if strings.Join(payload.Rules, ",") != "constant-variable,unbounded-variable" {
		t.Errorf("rules = %v", payload.Rules)
	}
}

func TestRenderVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, buildInfo{Version: "0.3.0-dev", Schema: 1, Rules: []string{"constant-variable"}}, versionDetail{})
	want := "mznlint 0.3.0-dev\nsnapshot schema: 1\nrules: 1 (constant-variable)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
