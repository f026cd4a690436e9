package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"mznlint/internal/ast"
	"mznlint/internal/lint"
	"mznlint/internal/modelio"
	"mznlint/internal/trace"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <model.mznast>...",
	Short: "Print the analysis views the rules work on",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringSlice("include-path", nil, "extra library include path (repeatable)")
	inspectCmd.Flags().Bool("coverage", false, "list array coverage entries")
}

func runInspect(cmd *cobra.Command, args []string) error {
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
	showCoverage, err := cmd.Flags().GetBool("coverage")
	if err != nil {
		return fmt.Errorf("failed to get coverage flag: %w", err)
	}
	tracer, cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	cls := cfg.Classifier(includePaths...)
	out := cmd.OutOrStdout()
	for _, path := range files {
		m, err := modelio.ReadFile(path)
		if err != nil {
			return err
		}
		span := trace.Begin(tracer, trace.ScopePass, "inspect", 0)
		cache := lint.NewCache(m, cls, lint.WithTracer(tracer, span.ID()))
		writeInspection(out, path, cache, showCoverage)
		span.End(path)
	}
	return nil
}

func writeInspection(out io.Writer, path string, c *lint.Cache, showCoverage bool) {
	m := c.Model()
	user := 0
	for _, f := range m.Files.Files() {
		if c.Classifier().IsUserFile(m.Files, f.ID) {
			user++
		}
	}
	decls := c.Declarations()
	vars := 0
	for _, d := range decls {
		if m.Type(d).IsVar() {
			vars++
		}
	}

	fmt.Fprintln(out, path)
	fmt.Fprintf(out, "  files:          %d (%d user)\n", m.Files.Len(), user)
	fmt.Fprintf(out, "  nodes:          %d, items: %d\n", m.Nodes.Arena.Len(), len(m.Items()))
	fmt.Fprintf(out, "  declarations:   %d (%d var)\n", len(decls), vars)
	fmt.Fprintf(out, "  functions:      %d\n", len(c.Functions()))
	fmt.Fprintf(out, "  comprehensions: %d\n", len(c.Comprehensions()))
	fmt.Fprintf(out, "  equalities:     %d\n", len(c.EqualityMap()))
	if goal, ok := c.SolveGoal(); ok {
		si, _ := m.Nodes.SolveItem(goal)
		fmt.Fprintf(out, "  solve:          %s at %s\n", si.Kind, spanLabel(m, goal))
	} else {
		fmt.Fprintf(out, "  solve:          none\n")
	}

	coverage := c.ArrayCoverage()
	arrays := make([]ast.NodeID, 0, len(coverage))
	for decl := range coverage {
		arrays = append(arrays, decl)
	}
	sort.Slice(arrays, func(i, j int) bool { return arrays[i] < arrays[j] })
	fmt.Fprintf(out, "  covered arrays: %d\n", len(arrays))
	if !showCoverage {
		return
	}
	for _, decl := range arrays {
		state := "partial"
		if c.IsEveryIndexTouched(decl) {
			state = "every index"
		}
		fmt.Fprintf(out, "    %s (%s): %s\n", m.DeclName(decl), spanLabel(m, decl), state)
		for _, e := range c.CoverageEntries(decl) {
			kind := "element"
			if e.Comprehension.IsValid() {
				kind = "forall"
			}
			fmt.Fprintf(out, "      %-7s %s\n", kind, spanLabel(m, e.Access))
		}
	}
}

func spanLabel(m *ast.Model, id ast.NodeID) string {
	sp := m.Span(id)
	if sp.IsZero() {
		return "?"
	}
	path := "?"
	if f := m.Files.Get(sp.File); f != nil {
		path = f.Path
	}
	return fmt.Sprintf("%s:%d:%d", path, sp.StartLine, sp.StartCol)
}
