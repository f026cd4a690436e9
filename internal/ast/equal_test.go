package ast_test

import (
	"slices"
	"testing"

	"mznlint/internal/ast"
	"mznlint/internal/testkit"
)

func TestModel_Equal(t *testing.T) {
	f := testkit.NewFixture("model.mzn")
	x := f.Global(ast.ArrayOf(ast.VarInt, 1), "x", f.Range(0, 1), f.Range(1, 3))
	k1 := f.Global(ast.ParInt, "k", ast.NoNodeID)
	k2 := f.Global(ast.ParInt, "k", ast.NoNodeID)

	r13 := f.Range(1, 3)
	folded := f.BinOp(f.Span(), ast.ParSetOf, ast.OpDotDot, f.Int(1), f.Plus(f.Int(1), f.Int(2)))
	f.Line(7)
	r13Later := f.Range(1, 3)
	r14 := f.Range(1, 4)

	refK1a, refK1b, refK2 := f.Ref(k1), f.Ref(k1), f.Ref(k2)
	freeK, freeK2, freeJ := f.Ident(f.Span(), "k", ast.NoNodeID), f.Ident(f.Span(), "k", ast.NoNodeID), f.Ident(f.Span(), "j", ast.NoNodeID)

	gen, i := f.Gen(ast.ParInt, "i", f.Range(1, 3), ast.NoNodeID)
	body := f.Access(x, f.Ref(i))
	where := func(v int64) ast.Generator {
		g := gen
		g.In = f.Range(1, 3)
		g.Where = f.NotEq(f.Ref(i), f.Int(v))
		return g
	}
	compW2 := f.Comp(body, where(2))
	compW2Again := f.Comp(body, where(2))
	compW3 := f.Comp(body, where(3))
	compNoWhere := f.Comp(body, gen)
	m := f.Build()

	tests := []struct {
		name string
		a, b ast.NodeID
		want bool
	}{
		{"same node", r13, r13, true},
		{"range against folded bound", r13, folded, false},
		{"same range with other spans", r13, r13Later, true},
		{"different bound", r13, r14, false},
		{"identifiers of one declaration", refK1a, refK1b, true},
		{"same name, other declaration", refK1a, refK2, false},
		{"unresolved by name", freeK, freeK2, true},
		{"unresolved, other name", freeK, freeJ, false},
		{"resolved against unresolved", refK1a, freeK, false},
		{"comprehensions with equal where", compW2, compW2Again, true},
		{"comprehensions with other where", compW2, compW3, false},
		{"where against none", compW2, compNoWhere, false},
		{"distinct declarations", k1, k2, false},
		{"missing node", r13, ast.NoNodeID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := m.Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%d, %d) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestModel_Children(t *testing.T) {
	f := testkit.NewFixture("model.mzn")
	x := f.Global(ast.ArrayOf(ast.VarInt, 1), "x", f.Range(0, 1), f.Range(1, 3))
	gen, i := f.Gen(ast.ParInt, "i", f.Range(1, 3), ast.NoNodeID)
	gen.Where = f.NotEq(f.Ref(i), f.Int(2))
	body := f.Access(x, f.Ref(i))
	comp := f.Comp(body, gen)
	call := f.Forall(comp)
	ann := f.StringLit(f.Span(), "note")
	f.Annotate(call, ann)
	f.Constraint(call)

	lhs, rhs := f.Int(1), f.Int(2)
	eq := f.Eq(lhs, rhs)
	eqAnn := f.StringLit(f.Span(), "eq")
	f.Annotate(eq, eqAnn)
	m := f.Build()

	tests := []struct {
		name string
		id   ast.NodeID
		want []ast.Child
	}{
		{"comprehension", comp, []ast.Child{
			{Node: body, Role: ast.RoleCompBody},
			{Node: i, Role: ast.RoleGenDecl},
			{Node: gen.In, Role: ast.RoleGenIn},
			{Node: gen.Where, Role: ast.RoleGenWhere},
		}},
		{"annotated call", call, []ast.Child{
			{Node: comp, Role: ast.RoleArg},
			{Node: ann, Role: ast.RoleAnnotation},
		}},
		{"annotated operator", eq, []ast.Child{
			{Node: lhs, Role: ast.RoleOperand},
			{Node: rhs, Role: ast.RoleOperand},
			{Node: eqAnn, Role: ast.RoleAnnotation},
		}},
		{"leaf", lhs, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Children(tt.id, nil); !slices.Equal(got, tt.want) {
				t.Errorf("Children = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestModel_WalkPrunes(t *testing.T) {
	f := testkit.NewFixture("model.mzn")
	inner := f.Plus(f.Int(1), f.Int(2))
	outer := f.Plus(inner, f.Int(3))
	m := f.Build()

	var seen []ast.NodeID
	m.Walk(outer, func(id ast.NodeID) bool {
		seen = append(seen, id)
		return id != inner
	})
	if len(seen) != 3 || seen[0] != outer || seen[1] != inner {
		t.Errorf("walk order %v", seen)
	}
}
