package source

import (
	"fmt"
)

// Span is a line/column location as reported by the front end.
// EndCol == 0 means the end column is unknown.
type Span struct {
	File      FileID
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// NoSpan is the zero location, used for nodes the front end could not place.
var NoSpan = Span{}

func (s Span) IsZero() bool {
	return s.StartLine == 0 && s.EndLine == 0
}

// MultiLine reports whether the span crosses a line boundary.
func (s Span) MultiLine() bool {
	return s.EndLine > s.StartLine
}

func (s Span) Start() LineCol {
	return LineCol{Line: s.StartLine, Col: s.StartCol}
}

func (s Span) End() LineCol {
	return LineCol{Line: s.EndLine, Col: s.EndCol}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d.%d-%d.%d", s.File, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	if other.StartLine < s.StartLine || (other.StartLine == s.StartLine && other.StartCol < s.StartCol) {
		s.StartLine, s.StartCol = other.StartLine, other.StartCol
	}
	if other.EndLine > s.EndLine || (other.EndLine == s.EndLine && other.EndCol > s.EndCol) {
		s.EndLine, s.EndCol = other.EndLine, other.EndCol
	}
	return s
}
