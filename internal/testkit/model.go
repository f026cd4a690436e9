package testkit

import (
	"mznlint/internal/ast"
	"mznlint/internal/source"
)

// Fixture is a small DSL over ast.Builder for hand-written models in tests.
// Every node gets a distinct single-line span on the current line.
type Fixture struct {
	*ast.Builder
	File source.FileID
	line uint32
	col  uint32
}

// NewFixture starts a model whose nodes live in the user file path.
func NewFixture(path string) *Fixture {
	fs := source.NewFileSet()
	f := &Fixture{Builder: ast.NewBuilder(fs, 0), line: 1, col: 1}
	f.File = fs.AddVirtual(path, nil)
	return f
}

// Line moves subsequent nodes to line n.
func (f *Fixture) Line(n uint32) *Fixture {
	f.line, f.col = n, 1
	return f
}

// InFile moves subsequent nodes to another file, registered with flags.
func (f *Fixture) InFile(path string, flags source.FileFlags) *Fixture {
	if file, ok := f.Files.GetByPath(path); ok {
		f.File = file.ID
	} else {
		f.File = f.Files.Add(path, nil, flags)
	}
	return f
}

// Span returns a fresh span on the current line.
func (f *Fixture) Span() source.Span {
	sp := source.Span{File: f.File, StartLine: f.line, StartCol: f.col, EndLine: f.line, EndCol: f.col + 1}
	f.col += 2
	return sp
}

func (f *Fixture) Int(v int64) ast.NodeID { return f.IntLit(f.Span(), v) }

// Range builds lo..hi.
func (f *Fixture) Range(lo, hi int64) ast.NodeID {
	return f.BinOp(f.Span(), ast.ParSetOf, ast.OpDotDot, f.Int(lo), f.Int(hi))
}

// Decl declares name with type typ, an optional domain and array index ranges.
func (f *Fixture) Decl(typ ast.Type, name string, domain ast.NodeID, ranges ...ast.NodeID) ast.NodeID {
	ti := f.TypeInst(f.Span(), typ, domain, ranges...)
	return f.VarDecl(f.Span(), typ, name, ti, ast.NoNodeID)
}

// Global declares name at top level and returns the declaration.
func (f *Fixture) Global(typ ast.Type, name string, domain ast.NodeID, ranges ...ast.NodeID) ast.NodeID {
	d := f.Decl(typ, name, domain, ranges...)
	f.VarDeclItem(d)
	return d
}

// GlobalValue declares name = value at top level.
func (f *Fixture) GlobalValue(typ ast.Type, name string, value ast.NodeID) ast.NodeID {
	d := f.Decl(typ, name, ast.NoNodeID)
	f.SetValue(d, value)
	f.VarDeclItem(d)
	return d
}

func (f *Fixture) Ref(decl ast.NodeID) ast.NodeID {
	return f.Ident(f.Span(), f.DeclName(decl), decl)
}

func (f *Fixture) DeclName(decl ast.NodeID) string {
	if vd, ok := f.Nodes.VarDecl(decl); ok {
		return vd.Name
	}
	return ""
}

func (f *Fixture) boolOf(ids ...ast.NodeID) ast.Type {
	for _, id := range ids {
		if n := f.Nodes.Get(id); n != nil && n.Type.IsVar() {
			return ast.VarBool
		}
	}
	return ast.ParBool
}

func (f *Fixture) Eq(l, r ast.NodeID) ast.NodeID {
	return f.BinOp(f.Span(), f.boolOf(l, r), ast.OpEq, l, r)
}

func (f *Fixture) NotEq(l, r ast.NodeID) ast.NodeID {
	return f.BinOp(f.Span(), f.boolOf(l, r), ast.OpNotEq, l, r)
}

func (f *Fixture) And(l, r ast.NodeID) ast.NodeID {
	return f.BinOp(f.Span(), f.boolOf(l, r), ast.OpAnd, l, r)
}

func (f *Fixture) Plus(l, r ast.NodeID) ast.NodeID {
	typ := ast.ParInt
	if f.boolOf(l, r).IsVar() {
		typ = ast.VarInt
	}
	return f.BinOp(f.Span(), typ, ast.OpPlus, l, r)
}

// Access builds arr[idx...] with the element type derived from arr's declaration.
func (f *Fixture) Access(arr ast.NodeID, idx ...ast.NodeID) ast.NodeID {
	ref := f.Ref(arr)
	typ := ast.ElemOf(f.Nodes.Get(arr).Type)
	if f.boolOf(idx...).IsVar() {
		typ.Inst = ast.InstVar
	}
	return f.ArrayAccess(f.Span(), typ, ref, idx...)
}

// Gen creates a generator "name in in where where"; the generator variable
// is returned through decl.
func (f *Fixture) Gen(typ ast.Type, name string, in, where ast.NodeID) (ast.Generator, ast.NodeID) {
	d := f.Decl(typ, name, ast.NoNodeID)
	return ast.Generator{Decls: []ast.NodeID{d}, In: in, Where: where}, d
}

func (f *Fixture) Comp(body ast.NodeID, gens ...ast.Generator) ast.NodeID {
	return f.Comprehension(f.Span(), ast.ArrayOf(f.Nodes.Get(body).Type, 1), body, false, gens...)
}

func (f *Fixture) Forall(comp ast.NodeID) ast.NodeID {
	return f.Call(f.Span(), f.boolOf(comp), "forall", comp)
}

func (f *Fixture) Constraint(expr ast.NodeID) ast.NodeID {
	return f.ConstraintItem(f.Span(), expr)
}

func (f *Fixture) Solve(kind ast.SolveKind, objective ast.NodeID) ast.NodeID {
	return f.SolveItem(f.Span(), kind, objective)
}

// Build freezes the fixture into a model.
func (f *Fixture) Build() *ast.Model {
	return f.Model()
}
