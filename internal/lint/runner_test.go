package lint

import (
	"context"
	"testing"

	"mznlint/internal/ast"
	"mznlint/internal/diag"
	"mznlint/internal/observ"
	"mznlint/internal/testkit"
	"mznlint/internal/trace"
)

// fakeRule reports one finding per declaration, then optionally panics.
type fakeRule struct {
	id    uint16
	name  string
	panic bool
}

func (r fakeRule) ID() uint16         { return r.id }
func (r fakeRule) Name() string       { return r.name }
func (r fakeRule) Category() Category { return CategoryRedundant }

func (r fakeRule) Run(c *Cache, rep diag.Reporter) {
	for _, d := range c.Declarations() {
		diag.ReportWarning(rep, RefOf(r), c.Model().Span(d), "seen").Emit()
	}
	if r.panic {
		panic("boom")
	}
}

func twoDeclModel() *ast.Model {
	f := testkit.NewFixture("model.mzn")
	f.Global(ast.VarInt, "x", ast.NoNodeID)
	f.Line(2)
	f.Global(ast.VarInt, "y", ast.NoNodeID)
	return f.Build()
}

func TestRunner_IsolatesPanickingRule(t *testing.T) {
	rules := []Rule{
		fakeRule{id: 2, name: "broken", panic: true},
		fakeRule{id: 1, name: "fine"},
	}
	res, err := NewRunner(rules).Run(context.Background(), NewCache(twoDeclModel(), nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Failed) != 1 || res.Failed[0].Rule.Name != "broken" {
		t.Fatalf("unexpected failures %+v", res.Failed)
	}
	if res.Failed[0].Error() == "" || len(res.Failed[0].Stack) == 0 {
		t.Error("rule error lacks message or stack")
	}
	// two findings from each rule; the broken one reported before panicking
	if got := res.Bag.Len(); got != 4 {
		t.Errorf("got %d findings, want 4", got)
	}
}

func TestRunner_SortsByPosition(t *testing.T) {
	rules := []Rule{fakeRule{id: 1, name: "a"}}
	m := twoDeclModel()
	res, err := NewRunner(rules).Run(context.Background(), NewCache(m, nil))
	if err != nil {
		t.Fatal(err)
	}
	items := res.Bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d findings, want 2", len(items))
	}
	if items[0].Region.StartLine > items[1].Region.StartLine {
		t.Error("findings not sorted by position")
	}
}

func TestRunner_MaxDiagnostics(t *testing.T) {
	rules := []Rule{fakeRule{id: 1, name: "a"}, fakeRule{id: 2, name: "b"}}
	res, err := NewRunner(rules, WithMaxDiagnostics(3), WithJobs(1)).Run(context.Background(), NewCache(twoDeclModel(), nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 3 {
		t.Errorf("got %d findings, want 3", res.Bag.Len())
	}
}

func TestRunner_TracesAndTimes(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	timer := observ.NewTimer()
	rules := []Rule{fakeRule{id: 1, name: "a"}}
	if _, err := NewRunner(rules, WithTimer(timer)).Run(ctx, NewCache(twoDeclModel(), nil)); err != nil {
		t.Fatal(err)
	}
	var sawRule bool
	for _, ev := range ring.Snapshot() {
		if ev.Name == "rule:a" && ev.Kind == trace.KindSpanEnd {
			sawRule = ev.Extra["findings"] == "2"
		}
	}
	if !sawRule {
		t.Error("missing rule span with findings count")
	}
	if n := len(timer.Report().Phases); n != 2 {
		t.Errorf("timer has %d phases, want warm + 1 rule", n)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner([]Rule{fakeRule{id: 1, name: "a"}}).Run(ctx, NewCache(twoDeclModel(), nil))
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestRegister_DuplicatesPanic(t *testing.T) {
	Register(fakeRule{id: 901, name: "test-unique"})
	if r, ok := Lookup("test-unique"); !ok || r.ID() != 901 {
		t.Fatalf("Lookup failed: %v %v", r, ok)
	}
	for _, dup := range []Rule{
		fakeRule{id: 901, name: "other"},
		fakeRule{id: 902, name: "test-unique"},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("registering %d/%s should panic", dup.ID(), dup.Name())
				}
			}()
			Register(dup)
		}()
	}
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID() >= all[i].ID() {
			t.Error("All() not ordered by id")
		}
	}
}
