package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mznlint/internal/diag"
	"mznlint/internal/diagfmt"
	"mznlint/internal/lint"
	"mznlint/internal/observ"
	"mznlint/internal/pipeline"
	"mznlint/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <model.mznast|directory>...",
	Short: "Lint resolved model snapshots",
	Long:  `Run every enabled rule over one or more model snapshots (or all *.mznast files within directories)`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().String("format", "text", "output format (text|json|sarif)")
	lintCmd.Flags().StringSlice("include-path", nil, "extra library include path (repeatable)")
	lintCmd.Flags().StringSlice("enable", nil, "only run rules matching these patterns")
	lintCmd.Flags().StringSlice("disable", nil, "skip rules matching these patterns")
	lintCmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics per model (0=config or unlimited)")
	lintCmd.Flags().Int("jobs", 0, "max models linted in parallel (0=auto)")
	lintCmd.Flags().Bool("with-notes", true, "print supporting locations")
	lintCmd.Flags().Bool("source", true, "print the offending source line when available")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lintCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type lintOptions struct {
	format    string
	color     bool
	quiet     bool
	timings   bool
	withNotes bool
	source    bool
	fullPath  bool
	ui        uiMode
}

func readLintOptions(cmd *cobra.Command) (lintOptions, error) {
	var opts lintOptions
	var err error
	root := cmd.Root().PersistentFlags()

	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "text", "json", "sarif":
	default:
		return opts, fmt.Errorf("unknown format %q (must be text, json or sarif)", opts.format)
	}

	colorStr, err := root.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.color, err = useColor(colorStr); err != nil {
		return opts, err
	}
	if opts.quiet, err = root.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = root.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.source, err = cmd.Flags().GetBool("source"); err != nil {
		return opts, fmt.Errorf("failed to get source flag: %w", err)
	}
	if opts.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiStr); err != nil {
		return opts, err
	}
	return opts, nil
}

// runLint exits with status 1 when findings were reported and 2 when a model
// could not be loaded or a rule failed.
func runLint(cmd *cobra.Command, args []string) error {
	opts, err := readLintOptions(cmd)
	if err != nil {
		return err
	}
	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	includePaths, err := cmd.Flags().GetStringSlice("include-path")
	if err != nil {
		return fmt.Errorf("failed to get include-path flag: %w", err)
	}
	enable, err := cmd.Flags().GetStringSlice("enable")
	if err != nil {
		return fmt.Errorf("failed to get enable flag: %w", err)
	}
	disable, err := cmd.Flags().GetStringSlice("disable")
	if err != nil {
		return fmt.Errorf("failed to get disable flag: %w", err)
	}
	cfg.Lint.Enable = append(cfg.Lint.Enable, enable...)
	cfg.Lint.Disable = append(cfg.Lint.Disable, disable...)
	if cmd.Flags().Changed("max-diagnostics") {
		if cfg.Lint.MaxDiagnostics, err = cmd.Flags().GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	fileJobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	filter, err := cfg.RuleFilter()
	if err != nil {
		return err
	}
	rules := filter.Select(lint.All())
	if len(rules) == 0 {
		return fmt.Errorf("no rules enabled")
	}

	tracer, cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(tracer)

	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}
	req := &pipeline.Request{
		Files:          files,
		Rules:          rules,
		Classifier:     cfg.Classifier(includePaths...),
		MaxDiagnostics: cfg.Lint.MaxDiagnostics,
		FileJobs:       fileJobs,
		RuleJobs:       cfg.Lint.Jobs,
		Timer:          timer,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var res pipeline.Result
	if opts.format == "text" && !opts.quiet && shouldUseTUI(opts.ui) {
		res, err = runLintWithUI(ctx, "mznlint", files, req)
	} else {
		res, err = pipeline.Lint(ctx, req)
	}
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if err := writeResults(out, res, rules, opts, cfg.Root); err != nil {
		return err
	}
	failed := reportFailures(errOut, res)
	if opts.timings {
		printStageTimings(errOut, res)
		fmt.Fprint(errOut, timer.Summary())
	}
	if !opts.quiet && opts.format == "text" {
		fmt.Fprintf(errOut, "%d models, %d findings\n", len(res.Files), res.Findings())
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	switch {
	case failed:
		return exitError{code: 2}
	case res.Findings() > 0:
		return exitError{code: 1}
	}
	return nil
}

func writeResults(out io.Writer, res pipeline.Result, rules []lint.Rule, opts lintOptions, baseDir string) error {
	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	units := make([]diagfmt.Unit, 0, len(res.Files))
	for _, f := range res.Files {
		if f.Lint == nil {
			continue
		}
		units = append(units, diagfmt.Unit{Bag: f.Lint.Bag, Files: f.Model.Files})
	}

	switch opts.format {
	case "json":
		return diagfmt.JSON(out, units, diagfmt.JSONOpts{
			PathMode:    pathMode,
			BaseDir:     baseDir,
			IncludeSubs: opts.withNotes,
		})
	case "sarif":
		refs := make([]diag.RuleRef, len(rules))
		for i, r := range rules {
			refs[i] = lint.RefOf(r)
		}
		return diagfmt.Sarif(out, units, diagfmt.SarifRunMeta{
			ToolName:       "mznlint",
			ToolVersion:    version.Plain(),
			InvocationArgs: os.Args[1:],
			Rules:          refs,
			PathMode:       pathMode,
			BaseDir:        baseDir,
		})
	default:
		textOpts := diagfmt.TextOpts{
			Color:      opts.color,
			PathMode:   pathMode,
			BaseDir:    baseDir,
			ShowSubs:   opts.withNotes,
			ShowSource: opts.source,
		}
		for _, u := range units {
			if err := diagfmt.Text(out, u, textOpts); err != nil {
				return err
			}
		}
		return nil
	}
}

// reportFailures prints load errors and rule panics; it reports whether there were any.
func reportFailures(w io.Writer, res pipeline.Result) bool {
	failed := false
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(w, "error: %v\n", f.Err)
			failed = true
		}
		if f.Lint == nil {
			continue
		}
		for _, rf := range f.Lint.Failed {
			fmt.Fprintf(w, "error: %s: %v\n", f.Path, rf)
			failed = true
		}
	}
	return failed
}
