package query

import (
	"slices"
	"testing"

	"mznlint/internal/ast"
	"mznlint/internal/source"
	"mznlint/internal/testkit"
)

// collect drains a cursor into its matches.
func collect(t *testing.T, c *Cursor) []Match {
	t.Helper()
	var out []Match
	for c.Next() {
		out = append(out, c.Match())
		if len(out) > 10000 {
			t.Fatal("runaway cursor")
		}
	}
	return out
}

func nodesOf(ms []Match) []ast.NodeID {
	out := make([]ast.NodeID, len(ms))
	for i, m := range ms {
		out[i] = m.Node
	}
	return out
}

type conjModel struct {
	m          *ast.Model
	x, y       ast.NodeID
	eqX, eqY   ast.NodeID
	and        ast.NodeID
	constraint ast.NodeID
}

// var int: x; var int: y; constraint x = 5 /\ y = 3;
func newConjModel() conjModel {
	f := testkit.NewFixture("conj.mzn")
	x := f.Global(ast.VarInt, "x", ast.NoNodeID)
	y := f.Global(ast.VarInt, "y", ast.NoNodeID)
	f.Line(3)
	eqX := f.Eq(f.Ref(x), f.Int(5))
	eqY := f.Eq(f.Ref(y), f.Int(3))
	and := f.And(eqX, eqY)
	c := f.Constraint(and)
	return conjModel{m: f.Build(), x: x, y: y, eqX: eqX, eqY: eqY, and: and, constraint: c}
}

func TestSearch_DirectChildIsImmediate(t *testing.T) {
	cm := newConjModel()
	q := New().InConstraint().ChildOp(ast.OpEq).Build()
	if Search(q, cm.m).Next() {
		t.Fatal("non-recursive ChildOp must not see equalities below /\\")
	}

	q = New().InConstraint().ChildOp(ast.OpAnd).Capture().Build()
	ms := collect(t, Search(q, cm.m))
	if len(ms) != 1 || ms[0].Capture(0) != cm.and {
		t.Fatalf("expected the conjunction, got %v", ms)
	}
	if ms[0].Item != cm.constraint {
		t.Fatalf("match item = %d, want %d", ms[0].Item, cm.constraint)
	}
}

func TestSearch_RecursiveFindsNearestInDocumentOrder(t *testing.T) {
	cm := newConjModel()
	q := New().Recursive().InConstraint().ChildOp(ast.OpEq).Capture().Build()
	got := nodesOf(collect(t, Search(q, cm.m)))
	want := []ast.NodeID{cm.eqX, cm.eqY}
	if !slices.Equal(got, want) {
		t.Fatalf("matches = %v, want %v", got, want)
	}
}

func TestSearch_RecursiveIsOneWay(t *testing.T) {
	cm := newConjModel()
	// after Recursive the Id step is also a nearest-descendant step
	q := New().InConstraint().ChildOp(ast.OpAnd).Recursive().Child(ast.KindId).Capture().Build()
	ms := collect(t, Search(q, cm.m))
	if len(ms) != 2 {
		t.Fatalf("expected 2 identifier matches, got %d", len(ms))
	}
}

func TestSearch_NearestVersusUnder(t *testing.T) {
	// constraint (x = 1) = (y = 2);
	f := testkit.NewFixture("nested.mzn")
	x := f.Global(ast.VarInt, "x", ast.NoNodeID)
	y := f.Global(ast.VarInt, "y", ast.NoNodeID)
	inner1 := f.Eq(f.Ref(x), f.Int(1))
	inner2 := f.Eq(f.Ref(y), f.Int(2))
	outer := f.Eq(inner1, inner2)
	f.Constraint(outer)
	m := f.Build()

	nearest := New().Recursive().InConstraint().ChildOp(ast.OpEq).Build()
	if got := nodesOf(collect(t, Search(nearest, m))); !slices.Equal(got, []ast.NodeID{outer}) {
		t.Fatalf("nearest = %v, want only the outer equality", got)
	}

	isEq := func(m *ast.Model, id ast.NodeID) bool {
		d, ok := m.Nodes.BinOp(id)
		return ok && d.Op == ast.OpEq
	}
	under := New().InConstraint().Under(ast.KindBinOp).Filter(isEq).Build()
	if got := nodesOf(collect(t, Search(under, m))); !slices.Equal(got, []ast.NodeID{outer, inner1, inner2}) {
		t.Fatalf("under = %v, want all three equalities in document order", got)
	}
}

func TestSearch_EmptyChainMatchesEveryNode(t *testing.T) {
	cm := newConjModel()
	var want []ast.NodeID
	for _, item := range cm.m.Items() {
		cm.m.Walk(item, func(id ast.NodeID) bool {
			want = append(want, id)
			return true
		})
	}
	got := nodesOf(collect(t, Search(New().Build(), cm.m)))
	if !slices.Equal(got, want) {
		t.Fatalf("empty query matched %v, want %v", got, want)
	}
}

func TestSearch_EmptyChainWithScopeMatchesItems(t *testing.T) {
	f := testkit.NewFixture("solve.mzn")
	f.Global(ast.VarInt, "x", ast.NoNodeID)
	solve := f.Solve(ast.SolveSatisfy, ast.NoNodeID)
	m := f.Build()

	c := Search(New().InSolve().Build(), m)
	if !c.Next() {
		t.Fatal("expected the solve item to match")
	}
	if c.Item() != solve || c.Match().Node != solve {
		t.Fatalf("matched %d under item %d, want solve item %d", c.Match().Node, c.Item(), solve)
	}
	if c.Next() {
		t.Fatal("satisfy has no further nodes")
	}
}

func TestSearch_DeterministicAndExhaustionIsIdempotent(t *testing.T) {
	cm := newConjModel()
	q := New().Under(ast.KindInvalid).Capture().Build()
	first := collect(t, Search(q, cm.m))
	c := Search(q, cm.m)
	second := collect(t, c)
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("match counts differ: %d vs %d", len(first), len(second))
	}
	seen := make(map[[2]ast.NodeID]bool)
	for i := range first {
		if first[i].Node != second[i].Node || first[i].Item != second[i].Item {
			t.Fatalf("match %d differs between runs", i)
		}
		key := [2]ast.NodeID{first[i].Item, first[i].Node}
		if seen[key] {
			t.Fatalf("duplicate match %v", key)
		}
		seen[key] = true
	}
	for range 3 {
		if c.Next() {
			t.Fatal("Next after exhaustion must keep returning false")
		}
	}
	if !c.Done() {
		t.Fatal("cursor must report Done")
	}
}

func TestSearch_ResumesBetweenCalls(t *testing.T) {
	cm := newConjModel()
	q := New().Recursive().InConstraint().ChildOp(ast.OpEq).Capture().Child(ast.KindId).Capture().Build()
	c := Search(q, cm.m)
	if !c.Next() {
		t.Fatal("expected first match")
	}
	if c.Capture(0) != cm.eqX {
		t.Fatalf("first match captured %d, want %d", c.Capture(0), cm.eqX)
	}
	if !c.Next() {
		t.Fatal("expected second match")
	}
	if c.Capture(0) != cm.eqY {
		t.Fatalf("second match captured %d, want %d", c.Capture(0), cm.eqY)
	}
	if c.Next() {
		t.Fatal("expected exhaustion")
	}
}

func TestSearch_AbandonItem(t *testing.T) {
	f := testkit.NewFixture("abandon.mzn")
	x := f.Global(ast.VarInt, "x", ast.NoNodeID)
	y := f.Global(ast.VarInt, "y", ast.NoNodeID)
	c1 := f.Constraint(f.Eq(f.Ref(x), f.Ref(y)))
	c2 := f.Constraint(f.Eq(f.Ref(y), f.Ref(x)))
	m := f.Build()

	q := New().InConstraint().Under(ast.KindId).Build()
	all := collect(t, Search(q, m))
	if len(all) != 4 {
		t.Fatalf("expected 4 identifiers, got %d", len(all))
	}

	c := Search(q, m)
	var items []ast.NodeID
	for c.Next() {
		items = append(items, c.Item())
		c.AbandonItem()
	}
	if !slices.Equal(items, []ast.NodeID{c1, c2}) {
		t.Fatalf("abandoning should yield one match per item, got %v", items)
	}
}

func TestSearch_NeverMatchingQuery(t *testing.T) {
	cm := newConjModel()
	c := Search(New().InOutput().Build(), cm.m)
	if c.Next() {
		t.Fatal("no output items, expected immediate exhaustion")
	}
	c = Search(New().Recursive().Child(ast.KindComprehension).Build(), cm.m)
	if c.Next() {
		t.Fatal("no comprehension in model, expected immediate exhaustion")
	}
}

func TestSearch_GlobalFilterRunsOnceAndHidesSubtrees(t *testing.T) {
	f := testkit.NewFixture("ann.mzn")
	x := f.Global(ast.VarInt, "x", ast.NoNodeID)
	y := f.Global(ast.VarInt, "y", ast.NoNodeID)
	eq := f.Eq(f.Ref(x), f.Int(1))
	ann := f.Call(f.Span(), ast.AnnType, "defines_var", f.Ref(y))
	f.Annotate(eq, ann)
	f.Constraint(eq)
	m := f.Build()

	calls := 0
	counting := func(m *ast.Model, id ast.NodeID) bool {
		calls++
		return NotAnnotation(m, id)
	}
	q := New().GlobalFilter(counting).InConstraint().Under(ast.KindId).Capture().Build()
	c := Search(q, m)
	if calls != 0 {
		t.Fatal("global filter must be lazy")
	}
	ms := collect(t, c)
	if len(ms) != 1 {
		t.Fatalf("identifier inside annotation must be hidden, got %d matches", len(ms))
	}
	after := calls
	c.Next()
	c.Next()
	if calls != after {
		t.Fatal("global filter evaluated more than once")
	}
}

func TestSearch_FollowRestrictsFirstEdge(t *testing.T) {
	f := testkit.NewFixture("follow.mzn")
	i := f.Global(ast.ParInt, "i", ast.NoNodeID)
	a := f.Global(ast.ArrayOf(ast.VarInt, 1), "a", ast.NoNodeID, f.Range(1, 3))
	acc := f.Access(a, f.Ref(i))
	f.Constraint(f.Eq(acc, f.Int(0)))
	m := f.Build()

	q := New().Recursive().InConstraint().Child(ast.KindArrayAccess).Follow(ArrayName).Child(ast.KindId).Capture().Build()
	ms := collect(t, Search(q, m))
	if len(ms) != 1 {
		t.Fatalf("expected only the array name, got %d matches", len(ms))
	}
	if m.DeclOf(ms[0].Capture(0)) != a {
		t.Fatalf("captured identifier resolves to %d, want %d", m.DeclOf(ms[0].Capture(0)), a)
	}
}

func TestSearch_FunctionScopes(t *testing.T) {
	f := testkit.NewFixture("fn.mzn")
	p := f.Decl(ast.VarInt, "p", ast.NoNodeID)
	ret := f.TypeInst(f.Span(), ast.VarBool, ast.NoNodeID)
	body := f.Eq(f.Ref(p), f.Int(0))
	f.FunctionItem(f.Span(), "is_zero", ret, []ast.NodeID{p}, body)
	m := f.Build()

	body1 := collect(t, Search(New().InFunctionBody().Under(ast.KindVarDecl).Build(), m))
	if len(body1) != 0 {
		t.Fatalf("parameters are not part of the body, got %d", len(body1))
	}
	whole := collect(t, Search(New().InFunction().Under(ast.KindVarDecl).Capture().Build(), m))
	if len(whole) != 1 || whole[0].Capture(0) != p {
		t.Fatalf("expected the parameter declaration, got %v", whole)
	}
}

func TestSearch_OnlyUserDefinedSkipsLibraryItems(t *testing.T) {
	f := testkit.NewFixture("main.mzn")
	x := f.Global(ast.VarInt, "x", ast.NoNodeID)
	user := f.Constraint(f.Eq(f.Ref(x), f.Int(1)))
	f.InFile("/usr/share/minizinc/std/redefs.mzn", 0)
	f.Constraint(f.Eq(f.Ref(x), f.Int(2)))
	m := f.Build()

	cls := source.NewClassifier([]string{"/usr/share/minizinc/std"}, nil)
	q := New().OnlyUserDefined(cls).Recursive().InConstraint().ChildOp(ast.OpEq).Build()
	ms := collect(t, Search(q, m))
	if len(ms) != 1 || ms[0].Item != user {
		t.Fatalf("expected only the user constraint, got %v", ms)
	}
}

func TestMatch_CaptureOutOfRangePanics(t *testing.T) {
	cm := newConjModel()
	c := Search(New().Recursive().InConstraint().ChildOp(ast.OpEq).Capture().Build(), cm.m)
	if !c.Next() {
		t.Fatal("expected a match")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on capture 1 of a single-capture query")
		}
	}()
	c.Capture(1)
}

func TestBuilder_MisusePanics(t *testing.T) {
	tests := []struct {
		name  string
		build func()
	}{
		{name: "scope after descent", build: func() { New().Child(ast.KindId).InConstraint() }},
		{name: "dangling follow", build: func() { New().Child(ast.KindCall).Follow(ArrayName).Build() }},
		{name: "item as descent target", build: func() { New().InSolve().Child(ast.KindSolveItem) }},
		{name: "invalid operator", build: func() { New().ChildOp(ast.OpInvalid) }},
		{name: "nil filter", build: func() { New().Filter(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.build()
		})
	}
}

func TestQuery_IsReusable(t *testing.T) {
	cm := newConjModel()
	q := New().Recursive().InConstraint().ChildOp(ast.OpEq).Capture().Build()
	if q.CaptureCount() != 1 {
		t.Fatalf("CaptureCount = %d, want 1", q.CaptureCount())
	}
	a := collect(t, Search(q, cm.m))
	b := collect(t, Search(q, cm.m))
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("reused query produced %d and %d matches", len(a), len(b))
	}
}
