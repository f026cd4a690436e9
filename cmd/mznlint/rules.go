package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mznlint/internal/config"
	"mznlint/internal/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [dir]",
	Short: "List the available rules and whether the configuration enables them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleRow struct {
	ID       uint16 `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Enabled  bool   `json:"enabled"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}
	filter, err := cfg.RuleFilter()
	if err != nil {
		return err
	}
	rows := ruleRows(lint.All(), filter)

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
		colorStr, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		colored, err := useColor(colorStr)
		if err != nil {
			return err
		}
		renderRules(cmd.OutOrStdout(), rows, colored)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func ruleRows(rules []lint.Rule, filter *config.RuleFilter) []ruleRow {
	rows := make([]ruleRow, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, ruleRow{
			ID:       r.ID(),
			Name:     r.Name(),
			Category: r.Category().String(),
			Enabled:  filter.Enabled(r.Name()),
		})
	}
	return rows
}

func renderRules(out io.Writer, rows []ruleRow, colored bool) {
	header := []string{"ID", "RULE", "CATEGORY", "ENABLED"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		enabled := "no"
		if r.Enabled {
			enabled = "yes"
		}
		cells = append(cells, []string{strconv.Itoa(int(r.ID)), r.Name, r.Category, enabled})
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	style := func(s lipgloss.Style) lipgloss.Style {
		if !colored {
			return lipgloss.NewStyle()
		}
		return s
	}
	headStyle := style(lipgloss.NewStyle().Bold(true).Underline(true))
	onStyle := style(lipgloss.NewStyle().Foreground(lipgloss.Color("2")))
	offStyle := style(lipgloss.NewStyle().Faint(true))

	line := func(row []string, pick func(col int) lipgloss.Style) string {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = pick(i).Width(widths[i]).Render(c)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}
	fmt.Fprintln(out, line(header, func(int) lipgloss.Style { return headStyle }))
	for i, row := range cells {
		st := offStyle
		if rows[i].Enabled {
			st = onStyle
		}
		fmt.Fprintln(out, line(row, func(col int) lipgloss.Style {
			if col == len(row)-1 {
				return st
			}
			return lipgloss.NewStyle()
		}))
	}
}
