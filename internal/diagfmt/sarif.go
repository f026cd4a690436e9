package diagfmt

import (
	"encoding/json"
	"io"

	"mznlint/internal/diag"
	"mznlint/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// SARIF end columns are exclusive, ours are inclusive.
func toSarifRegion(r diag.Region) *sarifRegion {
	switch r.Kind {
	case diag.RegionSingleLine:
		sr := &sarifRegion{StartLine: r.StartLine, StartColumn: r.StartCol, EndLine: r.EndLine}
		if r.EndCol != 0 {
			sr.EndColumn = r.EndCol + 1
		}
		return sr
	case diag.RegionMultiLine:
		return &sarifRegion{StartLine: r.StartLine, EndLine: r.EndLine}
	default:
		return nil
	}
}

func sarifLoc(fs *source.FileSet, id source.FileID, r diag.Region, meta SarifRunMeta) sarifLocation {
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifact{URI: filePath(fs, id, meta.PathMode, meta.BaseDir)},
			Region:           toSarifRegion(r),
		},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0): один run на все units.
func Sarif(w io.Writer, units []Unit, meta SarifRunMeta) error {
	ruleIndex := make(map[string]int, len(meta.Rules))
	rules := make([]sarifRule, 0, len(meta.Rules))
	for i, r := range meta.Rules {
		ruleIndex[r.Name] = i
		rules = append(rules, sarifRule{ID: r.Name, Name: r.Name})
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    meta.ToolName,
			Version: meta.ToolVersion,
			Rules:   rules,
		}},
		Results: make([]sarifResult, 0),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	for _, u := range units {
		if u.Bag == nil {
			continue
		}
		for _, d := range u.Bag.Items() {
			res := sarifResult{
				RuleID:    d.Rule.Name,
				Level:     sarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{sarifLoc(u.Files, d.File, d.Region, meta)},
			}
			if idx, ok := ruleIndex[d.Rule.Name]; ok {
				res.RuleIndex = &idx
			}
			for i, s := range d.Subs {
				loc := sarifLoc(u.Files, s.File, s.Region, meta)
				id := i + 1
				loc.ID = &id
				loc.Message = &sarifMessage{Text: s.Message}
				res.RelatedLocations = append(res.RelatedLocations, loc)
			}
			run.Results = append(run.Results, res)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
