package ast

import (
	"mznlint/internal/source"
)

// Builder assembles a Model. It is used by front-end adapters and tests;
// once Model is called the result must be treated as read-only.
type Builder struct {
	Files *source.FileSet
	Nodes *Nodes
	items []NodeID
}

func NewBuilder(files *source.FileSet, capHint uint) *Builder {
	if files == nil {
		files = source.NewFileSet()
	}
	return &Builder{
		Files: files,
		Nodes: NewNodes(capHint),
	}
}

// Model freezes the builder's content into a Model.
func (b *Builder) Model() *Model {
	return NewModel(b.Files, b.Nodes, append([]NodeID(nil), b.items...))
}

func (b *Builder) Ident(sp source.Span, name string, decl NodeID) NodeID {
	p := b.Nodes.Idents.Allocate(IdentData{Name: name, Decl: decl})
	return b.Nodes.new(KindId, sp, b.typeOf(decl), p)
}

// Bind resolves an identifier to decl after the fact (forward references).
func (b *Builder) Bind(ident, decl NodeID) {
	d, ok := b.Nodes.Ident(ident)
	if !ok {
		panic("ast: Bind on non-identifier")
	}
	d.Decl = decl
	b.Nodes.Get(ident).Type = b.typeOf(decl)
}

func (b *Builder) typeOf(id NodeID) Type {
	if n := b.Nodes.Get(id); n != nil {
		return n.Type
	}
	return Type{}
}

func (b *Builder) IntLit(sp source.Span, v int64) NodeID {
	return b.Nodes.new(KindIntLit, sp, ParInt, b.Nodes.Lits.Allocate(LitData{Int: v}))
}

func (b *Builder) FloatLit(sp source.Span, v float64) NodeID {
	return b.Nodes.new(KindFloatLit, sp, ParFloat, b.Nodes.Lits.Allocate(LitData{Float: v}))
}

func (b *Builder) BoolLit(sp source.Span, v bool) NodeID {
	return b.Nodes.new(KindBoolLit, sp, ParBool, b.Nodes.Lits.Allocate(LitData{Bool: v}))
}

func (b *Builder) StringLit(sp source.Span, v string) NodeID {
	return b.Nodes.new(KindStringLit, sp, ParStr, b.Nodes.Lits.Allocate(LitData{Str: v}))
}

func (b *Builder) Anon(sp source.Span, typ Type) NodeID {
	return b.Nodes.new(KindAnon, sp, typ, 0)
}

func (b *Builder) SetLit(sp source.Span, typ Type, elems ...NodeID) NodeID {
	p := b.Nodes.Lists.Allocate(ListData{Elems: append([]NodeID(nil), elems...)})
	return b.Nodes.new(KindSetLit, sp, typ, p)
}

func (b *Builder) ArrayLit(sp source.Span, typ Type, elems ...NodeID) NodeID {
	p := b.Nodes.Lists.Allocate(ListData{Elems: append([]NodeID(nil), elems...)})
	return b.Nodes.new(KindArrayLit, sp, typ, p)
}

func (b *Builder) ArrayAccess(sp source.Span, typ Type, array NodeID, indices ...NodeID) NodeID {
	p := b.Nodes.Accesses.Allocate(ArrayAccessData{Array: array, Indices: append([]NodeID(nil), indices...)})
	return b.Nodes.new(KindArrayAccess, sp, typ, p)
}

func (b *Builder) Comprehension(sp source.Span, typ Type, body NodeID, set bool, gens ...Generator) NodeID {
	cp := make([]Generator, len(gens))
	for i, g := range gens {
		cp[i] = Generator{Decls: append([]NodeID(nil), g.Decls...), In: g.In, Where: g.Where}
	}
	p := b.Nodes.Comprehensions.Allocate(ComprehensionData{Body: body, Generators: cp, Set: set})
	return b.Nodes.new(KindComprehension, sp, typ, p)
}

func (b *Builder) Call(sp source.Span, typ Type, name string, args ...NodeID) NodeID {
	p := b.Nodes.Calls.Allocate(CallData{Name: name, Args: append([]NodeID(nil), args...)})
	return b.Nodes.new(KindCall, sp, typ, p)
}

// BindCall records the function item a call resolves to.
func (b *Builder) BindCall(call, fn NodeID) {
	d, ok := b.Nodes.Call(call)
	if !ok {
		panic("ast: BindCall on non-call")
	}
	d.Decl = fn
}

func (b *Builder) BinOp(sp source.Span, typ Type, op BinOp, left, right NodeID) NodeID {
	p := b.Nodes.BinOps.Allocate(BinOpData{Op: op, Left: left, Right: right})
	return b.Nodes.new(KindBinOp, sp, typ, p)
}

func (b *Builder) UnOp(sp source.Span, typ Type, op UnOp, operand NodeID) NodeID {
	p := b.Nodes.UnOps.Allocate(UnOpData{Op: op, Operand: operand})
	return b.Nodes.new(KindUnOp, sp, typ, p)
}

func (b *Builder) IfThenElse(sp source.Span, typ Type, conds, thens []NodeID, els NodeID) NodeID {
	p := b.Nodes.Ites.Allocate(IfThenElseData{
		Conds: append([]NodeID(nil), conds...),
		Thens: append([]NodeID(nil), thens...),
		Else:  els,
	})
	return b.Nodes.new(KindIfThenElse, sp, typ, p)
}

func (b *Builder) Let(sp source.Span, typ Type, decls []NodeID, body NodeID) NodeID {
	p := b.Nodes.Lets.Allocate(LetData{Decls: append([]NodeID(nil), decls...), Body: body})
	return b.Nodes.new(KindLet, sp, typ, p)
}

// TypeInst creates a type-inst node; domain may be NoNodeID.
func (b *Builder) TypeInst(sp source.Span, typ Type, domain NodeID, ranges ...NodeID) NodeID {
	p := b.Nodes.TypeInsts.Allocate(TypeInstData{Domain: domain, Ranges: append([]NodeID(nil), ranges...)})
	return b.Nodes.new(KindTypeInst, sp, typ, p)
}

// VarDecl creates a declaration; value may be NoNodeID.
func (b *Builder) VarDecl(sp source.Span, typ Type, name string, ti, value NodeID) NodeID {
	p := b.Nodes.VarDecls.Allocate(VarDeclData{Name: name, TypeInst: ti, Value: value})
	return b.Nodes.new(KindVarDecl, sp, typ, p)
}

// SetValue attaches the right-hand side of a declaration.
func (b *Builder) SetValue(decl, value NodeID) {
	d, ok := b.Nodes.VarDecl(decl)
	if !ok {
		panic("ast: SetValue on non-declaration")
	}
	d.Value = value
}

// Annotate attaches annotation expressions to node.
func (b *Builder) Annotate(node NodeID, anns ...NodeID) {
	n := b.Nodes.Get(node)
	for _, a := range anns {
		b.Nodes.Get(a).Flags |= FlagAnnotation
		n.Anns = append(n.Anns, a)
	}
}

func (b *Builder) MarkIntroduced(node NodeID) {
	b.Nodes.Get(node).Flags |= FlagIntroduced
}

func (b *Builder) pushItem(kind Kind, sp source.Span, payload uint32) NodeID {
	id := b.Nodes.new(kind, sp, Type{}, payload)
	b.items = append(b.items, id)
	return id
}

// VarDeclItem appends a top-level declaration item.
func (b *Builder) VarDeclItem(decl NodeID) NodeID {
	d, ok := b.Nodes.VarDecl(decl)
	if !ok {
		panic("ast: VarDeclItem needs a declaration")
	}
	d.TopLevel = true
	return b.DeclItem(b.Nodes.Get(decl).Span, decl)
}

// DeclItem appends a declaration item without touching decl, which may not
// exist yet.
func (b *Builder) DeclItem(sp source.Span, decl NodeID) NodeID {
	return b.pushItem(KindVarDeclItem, sp, b.Nodes.Lists.Allocate(ListData{Elems: []NodeID{decl}}))
}

func (b *Builder) AssignItem(sp source.Span, name string, decl, value NodeID) NodeID {
	return b.pushItem(KindAssignItem, sp, b.Nodes.Assigns.Allocate(AssignItemData{Name: name, Decl: decl, Value: value}))
}

func (b *Builder) ConstraintItem(sp source.Span, expr NodeID) NodeID {
	return b.pushItem(KindConstraintItem, sp, b.Nodes.Lists.Allocate(ListData{Elems: []NodeID{expr}}))
}

func (b *Builder) SolveItem(sp source.Span, kind SolveKind, objective NodeID) NodeID {
	return b.pushItem(KindSolveItem, sp, b.Nodes.Solves.Allocate(SolveItemData{Kind: kind, Objective: objective}))
}

func (b *Builder) OutputItem(sp source.Span, expr NodeID) NodeID {
	return b.pushItem(KindOutputItem, sp, b.Nodes.Lists.Allocate(ListData{Elems: []NodeID{expr}}))
}

func (b *Builder) FunctionItem(sp source.Span, name string, ret NodeID, params []NodeID, body NodeID) NodeID {
	p := b.Nodes.Functions.Allocate(FunctionItemData{
		Name:   name,
		Params: append([]NodeID(nil), params...),
		Return: ret,
		Body:   body,
	})
	return b.pushItem(KindFunctionItem, sp, p)
}
