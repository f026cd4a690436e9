package source

import "testing"

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint lines",
			a:        Span{File: 1, StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 9},
			b:        Span{File: 1, StartLine: 1, StartCol: 2, EndLine: 2, EndCol: 4},
			expected: Span{File: 1, StartLine: 1, StartCol: 2, EndLine: 3, EndCol: 9},
		},
		{
			name:     "same line wider right",
			a:        Span{File: 1, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 9},
			b:        Span{File: 1, StartLine: 2, StartCol: 7, EndLine: 2, EndCol: 12},
			expected: Span{File: 1, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 12},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 9},
			b:        Span{File: 2, StartLine: 1, StartCol: 1, EndLine: 9, EndCol: 1},
			expected: Span{File: 1, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 9},
		},
		{
			name:     "zero receiver takes other",
			a:        Span{File: 1},
			b:        Span{File: 1, StartLine: 4, StartCol: 1, EndLine: 4, EndCol: 3},
			expected: Span{File: 1, StartLine: 4, StartCol: 1, EndLine: 4, EndCol: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.mzn", []byte("var int: x;\nconstraint x = 5;\nsolve satisfy;"))
	f := fs.Get(id)
	if got := f.GetLine(2); got != "constraint x = 5;" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "solve satisfy;" {
		t.Fatalf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Fatalf("GetLine(4) = %q, want empty", got)
	}
}

func TestNormalizePath(t *testing.T) {
	// NFD "e\u0301" must compare equal to NFC "\u00e9"
	if NormalizePath("lib/cafe\u0301.mzn") != NormalizePath("lib/caf\u00e9.mzn") {
		t.Fatal("normalization forms differ")
	}
	if got := NormalizePath("a/./b/../c.mzn"); got != "a/c.mzn" {
		t.Fatalf("NormalizePath = %q", got)
	}
}
