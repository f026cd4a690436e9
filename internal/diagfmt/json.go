package diagfmt

import (
	"encoding/json"
	"io"

	"mznlint/internal/diag"
	"mznlint/internal/source"
)

// RegionJSON is a diag.Region; zero fields are omitted.
type RegionJSON struct {
	Kind      string `json:"kind"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File   string     `json:"file"`
	Region RegionJSON `json:"region"`
}

// SubJSON is a supporting location of a finding.
type SubJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Rule     string       `json:"rule"`
	RuleID   uint16       `json:"rule_id"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Subs     []SubJSON    `json:"subs,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func regionKind(k diag.RegionKind) string {
	switch k {
	case diag.RegionSingleLine:
		return "single_line"
	case diag.RegionMultiLine:
		return "multi_line"
	default:
		return "none"
	}
}

func makeLocation(fs *source.FileSet, id source.FileID, r diag.Region, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:   filePath(fs, id, opts.PathMode, opts.BaseDir),
		Region: RegionJSON{Kind: regionKind(r.Kind)},
	}
	switch r.Kind {
	case diag.RegionSingleLine:
		loc.Region.StartLine, loc.Region.EndLine = r.StartLine, r.EndLine
		loc.Region.StartCol, loc.Region.EndCol = r.StartCol, r.EndCol
	case diag.RegionMultiLine:
		loc.Region.StartLine, loc.Region.EndLine = r.StartLine, r.EndLine
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Units are written in order; opts.Max caps the total.
func BuildDiagnosticsOutput(units []Unit, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0)}
	for _, u := range units {
		if u.Bag == nil {
			continue
		}
		for _, d := range u.Bag.Items() {
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				out.Count = len(out.Diagnostics)
				return out
			}
			dj := DiagnosticJSON{
				Severity: d.Severity.String(),
				Rule:     d.Rule.Name,
				RuleID:   d.Rule.ID,
				Message:  d.Message,
				Location: makeLocation(u.Files, d.File, d.Region, opts),
			}
			if opts.IncludeSubs && len(d.Subs) > 0 {
				dj.Subs = make([]SubJSON, len(d.Subs))
				for i, s := range d.Subs {
					dj.Subs[i] = SubJSON{Message: s.Message, Location: makeLocation(u.Files, s.File, s.Region, opts)}
				}
			}
			out.Diagnostics = append(out.Diagnostics, dj)
		}
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, units []Unit, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(units, opts))
}
