// Package config loads mznlint.toml, the per-project lint settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mznlint/internal/source"
	"mznlint/internal/trace"
)

// FileName is the manifest looked up from the model directory upwards.
const FileName = "mznlint.toml"

type Config struct {
	Path  string // manifest path, empty for defaults
	Root  string // directory relative paths are resolved against
	Lint  LintConfig
	Trace TraceConfig
}

type LintConfig struct {
	IncludePaths    []string `toml:"include_paths"`
	LibraryPatterns []string `toml:"library_patterns"`
	Enable          []string `toml:"enable"`
	Disable         []string `toml:"disable"`
	MaxDiagnostics  int      `toml:"max_diagnostics"`
	Jobs            int      `toml:"jobs"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

type fileConfig struct {
	Lint  LintConfig  `toml:"lint"`
	Trace TraceConfig `toml:"trace"`
}

// Default is the configuration used when no manifest is found.
func Default(root string) *Config {
	return &Config{
		Root:  root,
		Trace: TraceConfig{Level: "off"},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the manifest for startDir, falling back to Default.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		abs, err := filepath.Abs(startDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve start directory: %w", err)
		}
		return Default(abs), nil
	}
	return Load(path)
}

// Load parses and validates a manifest.
func Load(path string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg := &Config{
		Path:  path,
		Root:  filepath.Dir(path),
		Lint:  fc.Lint,
		Trace: fc.Trace,
	}
	if !meta.IsDefined("trace", "level") {
		cfg.Trace.Level = "off"
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Lint.MaxDiagnostics < 0 {
		return errors.New("[lint].max_diagnostics must not be negative")
	}
	if c.Lint.Jobs < 0 {
		return errors.New("[lint].jobs must not be negative")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	if _, err := NewRuleFilter(c.Lint.Enable, c.Lint.Disable); err != nil {
		return err
	}
	return nil
}

// LibraryPaths returns include paths resolved against Root.
func (c *Config) LibraryPaths() []string {
	out := make([]string, 0, len(c.Lint.IncludePaths))
	for _, p := range c.Lint.IncludePaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Root, filepath.FromSlash(p))
		}
		out = append(out, p)
	}
	return out
}

// Classifier builds the user/library classifier for this configuration.
// extra include paths (usually from the command line) are added as given.
func (c *Config) Classifier(extra ...string) *source.Classifier {
	return source.NewClassifier(append(c.LibraryPaths(), extra...), c.Lint.LibraryPatterns)
}
