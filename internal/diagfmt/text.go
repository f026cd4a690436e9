package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mznlint/internal/diag"
	"mznlint/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	path, rule      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		path:   color.New(color.Bold),
		rule:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.rule, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Text writes one block per diagnostic:
//
//	model.mzn:3:5: warning: message [rule-name]
//	  3 | var int: x = 5;
//	    |         ^
//	  note: model.mzn:3:14: assigned here
func Text(w io.Writer, u Unit, opts TextOpts) error {
	if u.Bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	var b strings.Builder
	for _, d := range u.Bag.Items() {
		loc := location(u.Files, d.File, d.Region, opts.PathMode, opts.BaseDir)
		sev := d.Severity.Label()
		fmt.Fprintf(&b, "%s: %s %s %s\n",
			p.path.Sprint(loc),
			p.severity(d.Severity).Sprint(sev+":"),
			d.Message,
			p.rule.Sprintf("[%s]", d.Rule.Name),
		)
		if opts.ShowSource {
			writeSnippet(&b, p, u.Files, d.File, d.Region)
		}
		if !opts.ShowSubs {
			continue
		}
		for _, s := range d.Subs {
			subLoc := location(u.Files, s.File, s.Region, opts.PathMode, opts.BaseDir)
			fmt.Fprintf(&b, "  %s %s: %s\n", p.note.Sprint("note:"), subLoc, s.Message)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func location(fs *source.FileSet, id source.FileID, r diag.Region, mode PathMode, base string) string {
	path := filePath(fs, id, mode, base)
	switch r.Kind {
	case diag.RegionSingleLine:
		return fmt.Sprintf("%s:%d:%d", path, r.StartLine, r.StartCol)
	case diag.RegionMultiLine:
		return fmt.Sprintf("%s:%d", path, r.StartLine)
	default:
		return path
	}
}

func writeSnippet(b *strings.Builder, p palette, fs *source.FileSet, id source.FileID, r diag.Region) {
	if fs == nil || r.Kind == diag.RegionNone {
		return
	}
	f := fs.Get(id)
	if f == nil || len(f.Content) == 0 {
		return
	}
	numWidth := len(strconv.FormatUint(uint64(r.EndLine), 10))
	gutter := func(n uint32) string {
		if n == 0 {
			return p.gutter.Sprint(strings.Repeat(" ", numWidth+3) + "|")
		}
		return p.gutter.Sprintf("  %*d |", numWidth, n)
	}

	if r.Kind == diag.RegionMultiLine {
		fmt.Fprintf(b, "%s %s\n", gutter(r.StartLine), f.GetLine(r.StartLine))
		if r.EndLine > r.StartLine+1 {
			fmt.Fprintf(b, "%s ...\n", gutter(0))
		}
		fmt.Fprintf(b, "%s %s\n", gutter(r.EndLine), f.GetLine(r.EndLine))
		return
	}

	line := f.GetLine(r.StartLine)
	fmt.Fprintf(b, "%s %s\n", gutter(r.StartLine), line)
	pad, width := caretLayout(line, r.StartCol, r.EndCol)
	fmt.Fprintf(b, "%s %s%s\n", gutter(0), pad, p.caret.Sprint(strings.Repeat("^", width)))
}

// caretLayout returns the indentation before the caret and the caret width for
// 1-based inclusive columns start..end of line. Tabs are kept so the caret
// lines up with the source in any terminal.
func caretLayout(line string, start, end uint32) (string, int) {
	runes := []rune(line)
	from := int(start) - 1
	if from < 0 {
		from = 0
	}
	if from > len(runes) {
		from = len(runes)
	}
	var pad strings.Builder
	for _, r := range runes[:from] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	to := int(end)
	if to > len(runes) {
		to = len(runes)
	}
	width := 1
	if to > from {
		width = max(1, runewidth.StringWidth(string(runes[from:to])))
	}
	return pad.String(), width
}
