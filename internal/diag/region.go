package diag

import (
	"fmt"

	"mznlint/internal/source"
)

// RegionKind discriminates Region variants.
type RegionKind uint8

const (
	RegionNone RegionKind = iota
	RegionSingleLine
	RegionMultiLine
)

// Region is the part of a file a finding points at.
// For SingleLine, EndCol == 0 means the end column is unknown.
// For MultiLine only StartLine/EndLine are meaningful.
type Region struct {
	Kind      RegionKind
	StartLine uint32
	EndLine   uint32
	StartCol  uint32
	EndCol    uint32
}

// NoRegion is a finding about a whole file.
func NoRegion() Region { return Region{} }

func SingleLine(line, startCol, endCol uint32) Region {
	return Region{Kind: RegionSingleLine, StartLine: line, EndLine: line, StartCol: startCol, EndCol: endCol}
}

func MultiLine(startLine, endLine uint32) Region {
	return Region{Kind: RegionMultiLine, StartLine: startLine, EndLine: endLine}
}

// RegionOf converts a node span to a Region.
func RegionOf(sp source.Span) Region {
	switch {
	case sp.IsZero():
		return NoRegion()
	case sp.MultiLine():
		return MultiLine(sp.StartLine, sp.EndLine)
	default:
		return SingleLine(sp.StartLine, sp.StartCol, sp.EndCol)
	}
}

func (r Region) String() string {
	switch r.Kind {
	case RegionSingleLine:
		if r.EndCol == 0 {
			return fmt.Sprintf("%d:%d", r.StartLine, r.StartCol)
		}
		return fmt.Sprintf("%d:%d-%d", r.StartLine, r.StartCol, r.EndCol)
	case RegionMultiLine:
		return fmt.Sprintf("%d-%d", r.StartLine, r.EndLine)
	default:
		return "-"
	}
}
