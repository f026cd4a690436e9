package diag

import (
	"fmt"
	"sort"
	"strings"

	"mznlint/internal/source"
)

type goldenLine struct {
	label   string
	rule    string
	path    string
	region  Region
	message string
}

// FormatGoldenDiagnostics renders diagnostics one line per entry in a stable
// order, suitable for golden comparisons in tests. Sub-findings follow their
// parent as "note" lines when includeSubs is set.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeSubs bool) string {
	if len(diags) == 0 {
		return ""
	}
	order := make([]int, len(diags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := &diags[order[i]], &diags[order[j]]
		pi, pj := pathOf(fs, di.File), pathOf(fs, dj.File)
		if pi != pj {
			return pi < pj
		}
		if di.Region.StartLine != dj.Region.StartLine {
			return di.Region.StartLine < dj.Region.StartLine
		}
		if di.Region.StartCol != dj.Region.StartCol {
			return di.Region.StartCol < dj.Region.StartCol
		}
		return di.Rule.ID < dj.Rule.ID
	})

	lines := make([]goldenLine, 0, len(diags))
	for _, idx := range order {
		d := &diags[idx]
		rule := fmt.Sprintf("%s(%d)", d.Rule.Name, d.Rule.ID)
		lines = append(lines, goldenLine{
			label:   d.Severity.Label(),
			rule:    rule,
			path:    pathOf(fs, d.File),
			region:  d.Region,
			message: d.Message,
		})
		if !includeSubs {
			continue
		}
		for _, s := range d.Subs {
			lines = append(lines, goldenLine{
				label:   "note",
				rule:    rule,
				path:    pathOf(fs, s.File),
				region:  s.Region,
				message: s.Message,
			})
		}
	}

	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%s %s %s:%s %s", l.label, l.rule, l.path, l.region, singleLine(l.message))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func pathOf(fs *source.FileSet, id source.FileID) string {
	if fs == nil {
		return "?"
	}
	if f := fs.Get(id); f != nil {
		return f.Path
	}
	return "?"
}

func singleLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
