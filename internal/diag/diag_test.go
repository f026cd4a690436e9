package diag

import (
	"testing"

	"mznlint/internal/source"
)

var testRule = RuleRef{ID: 4, Name: "constant-variable"}

func TestRegionOf(t *testing.T) {
	tests := []struct {
		name string
		sp   source.Span
		want Region
	}{
		{"zero", source.NoSpan, NoRegion()},
		{"single", source.Span{File: 1, StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 9}, SingleLine(3, 5, 9)},
		{"single open end", source.Span{File: 1, StartLine: 3, StartCol: 5, EndLine: 3}, SingleLine(3, 5, 0)},
		{"multi", source.Span{File: 1, StartLine: 2, StartCol: 1, EndLine: 4, EndCol: 2}, MultiLine(2, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegionOf(tt.sp); got != tt.want {
				t.Errorf("RegionOf(%v) = %+v, want %+v", tt.sp, got, tt.want)
			}
		})
	}
}

func TestSameFinding_IgnoresMessage(t *testing.T) {
	sp := source.Span{File: 1, StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 4}
	a := New(testRule, SevWarning, sp, "first")
	b := New(testRule, SevWarning, sp, "second")
	if !SameFinding(&a, &b) {
		t.Error("same rule/file/region should be the same finding")
	}
	c := New(RuleRef{ID: 13, Name: "unbounded-variable"}, SevWarning, sp, "first")
	if SameFinding(&a, &c) {
		t.Error("different rules must not collapse")
	}
	sp.File = 2
	d := New(testRule, SevWarning, sp, "first")
	if SameFinding(&a, &d) {
		t.Error("different files must not collapse")
	}
}

func TestBag_SortAndDedup(t *testing.T) {
	bag := NewBag(0)
	at := func(line, col uint32) source.Span {
		return source.Span{File: 1, StartLine: line, StartCol: col, EndLine: line, EndCol: col + 1}
	}
	bag.Add(New(testRule, SevWarning, at(5, 1), "late"))
	bag.Add(New(testRule, SevWarning, at(2, 1), "early"))
	bag.Add(New(testRule, SevWarning, at(5, 1), "late again"))
	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Message != "early" || items[1].Message != "late" {
		t.Errorf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
}

func TestBag_Limit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(Diagnostic{Message: "a"}) {
		t.Fatal("first add should succeed")
	}
	if bag.Add(Diagnostic{Message: "b"}) {
		t.Fatal("second add should hit the limit")
	}
	other := NewBag(0)
	other.Add(Diagnostic{Message: "c"})
	bag.Merge(other)
	if bag.Len() != 1 {
		t.Errorf("merge ignored limit: len = %d", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 2}
	ReportWarning(r, testRule, sp, "x").Emit()
	ReportWarning(r, testRule, sp, "y").Emit()
	if bag.Len() != 1 {
		t.Errorf("len = %d, want 1", bag.Len())
	}
}

func TestReportBuilder_EmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportWarning(BagReporter{Bag: bag}, testRule, source.NoSpan, "x").
		WithSub(source.Span{File: 1, StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 4}, "assigned here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Region.Kind != RegionNone {
		t.Errorf("region kind = %v, want none", d.Region.Kind)
	}
	if len(d.Subs) != 1 || d.Subs[0].Region != SingleLine(2, 3, 4) {
		t.Errorf("unexpected subs %+v", d.Subs)
	}
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	model := fs.AddVirtual("model.mzn", []byte("var int: x = 5;\n"))

	diags := []Diagnostic{
		New(RuleRef{ID: 13, Name: "unbounded-variable"}, SevWarning,
			source.Span{File: model, StartLine: 3, StartCol: 1, EndLine: 3, EndCol: 10}, "no explicit domain"),
		New(testRule, SevWarning,
			source.Span{File: model, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 15}, "x is only assigned to par values,\nshouldn't be var").
			WithSub(source.Span{File: model, StartLine: 1, StartCol: 14, EndLine: 1, EndCol: 14}, "assigned here"),
	}

	want := "warning constant-variable(4) model.mzn:1:1-15 x is only assigned to par values, shouldn't be var\n" +
		"note constant-variable(4) model.mzn:1:14-14 assigned here\n" +
		"warning unbounded-variable(13) model.mzn:3:1-10 no explicit domain"
	if got := FormatGoldenDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected golden output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestSeverity_Names(t *testing.T) {
	tests := []struct {
		sev         Severity
		name, label string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(9), "UNKNOWN", "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.sev.Label(); got != tt.label {
			t.Errorf("Label() = %q, want %q", got, tt.label)
		}
	}
}
