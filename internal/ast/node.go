package ast

import (
	"mznlint/internal/source"
)

// NodeFlags carries per-node metadata set by the front end.
type NodeFlags uint8

const (
	// FlagAnnotation marks an expression used as an annotation (:: ann).
	FlagAnnotation NodeFlags = 1 << iota
	// FlagIntroduced marks nodes synthesized by the front end.
	FlagIntroduced
)

// Node is the common header of every expression and item.
type Node struct {
	Kind    Kind
	Span    source.Span
	Type    Type
	Flags   NodeFlags
	Payload PayloadID
	Anns    []NodeID
}

func (n *Node) IsAnnotation() bool { return n.Flags&FlagAnnotation != 0 }
func (n *Node) IsIntroduced() bool { return n.Flags&FlagIntroduced != 0 }

type IdentData struct {
	Name string
	Decl NodeID // resolved declaration, NoNodeID when unresolved
}

type LitData struct {
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

type ListData struct {
	Elems []NodeID
}

type ArrayAccessData struct {
	Array   NodeID
	Indices []NodeID
}

// Generator is one "decls in In where Where" clause of a comprehension.
type Generator struct {
	Decls []NodeID
	In    NodeID
	Where NodeID
}

type ComprehensionData struct {
	Body       NodeID
	Generators []Generator
	Set        bool
}

type CallData struct {
	Name string
	Args []NodeID
	Decl NodeID // resolved function item, if any
}

type BinOpData struct {
	Op    BinOp
	Left  NodeID
	Right NodeID
}

type UnOpData struct {
	Op      UnOp
	Operand NodeID
}

type IfThenElseData struct {
	Conds []NodeID
	Thens []NodeID
	Else  NodeID
}

type LetData struct {
	Decls []NodeID // VarDecl nodes and constraint expressions, in order
	Body  NodeID
}

type VarDeclData struct {
	Name     string
	TypeInst NodeID
	Value    NodeID
	TopLevel bool
}

type TypeInstData struct {
	Ranges []NodeID // index sets, empty for scalars
	Domain NodeID   // NoNodeID when unconstrained
}

type AssignItemData struct {
	Name  string
	Decl  NodeID
	Value NodeID
}

type SolveItemData struct {
	Kind      SolveKind
	Objective NodeID
}

type FunctionItemData struct {
	Name   string
	Params []NodeID
	Return NodeID
	Body   NodeID
}

// Nodes owns every node of a model together with the per-kind payload arenas.
type Nodes struct {
	Arena          *Arena[Node]
	Idents         *Arena[IdentData]
	Lits           *Arena[LitData]
	Lists          *Arena[ListData]
	Accesses       *Arena[ArrayAccessData]
	Comprehensions *Arena[ComprehensionData]
	Calls          *Arena[CallData]
	BinOps         *Arena[BinOpData]
	UnOps          *Arena[UnOpData]
	Ites           *Arena[IfThenElseData]
	Lets           *Arena[LetData]
	VarDecls       *Arena[VarDeclData]
	TypeInsts      *Arena[TypeInstData]
	Assigns        *Arena[AssignItemData]
	Solves         *Arena[SolveItemData]
	Functions      *Arena[FunctionItemData]
	// VarDeclItem, ConstraintItem and OutputItem reuse Lists with a single element.
}

// NewNodes creates node storage; capHint 0 selects a default of 1<<8.
func NewNodes(capHint uint) *Nodes {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/4 + 1
	return &Nodes{
		Arena:          NewArena[Node](capHint),
		Idents:         NewArena[IdentData](capHint),
		Lits:           NewArena[LitData](capHint),
		Lists:          NewArena[ListData](small),
		Accesses:       NewArena[ArrayAccessData](small),
		Comprehensions: NewArena[ComprehensionData](small),
		Calls:          NewArena[CallData](small),
		BinOps:         NewArena[BinOpData](capHint),
		UnOps:          NewArena[UnOpData](small),
		Ites:           NewArena[IfThenElseData](small),
		Lets:           NewArena[LetData](small),
		VarDecls:       NewArena[VarDeclData](small),
		TypeInsts:      NewArena[TypeInstData](small),
		Assigns:        NewArena[AssignItemData](small),
		Solves:         NewArena[SolveItemData](1),
		Functions:      NewArena[FunctionItemData](small),
	}
}

func (n *Nodes) new(kind Kind, span source.Span, typ Type, payload uint32) NodeID {
	return NodeID(n.Arena.Allocate(Node{
		Kind:    kind,
		Span:    span,
		Type:    typ,
		Payload: PayloadID(payload),
	}))
}

// Get returns the node with the given ID, nil for NoNodeID.
func (n *Nodes) Get(id NodeID) *Node {
	return n.Arena.Get(uint32(id))
}

func (n *Nodes) payloadOf(id NodeID, kinds ...Kind) (uint32, bool) {
	node := n.Get(id)
	if node == nil {
		return 0, false
	}
	for _, k := range kinds {
		if node.Kind == k {
			return uint32(node.Payload), true
		}
	}
	return 0, false
}

func (n *Nodes) Ident(id NodeID) (*IdentData, bool) {
	p, ok := n.payloadOf(id, KindId)
	if !ok {
		return nil, false
	}
	return n.Idents.Get(p), true
}

func (n *Nodes) Lit(id NodeID) (*LitData, bool) {
	p, ok := n.payloadOf(id, KindIntLit, KindFloatLit, KindBoolLit, KindStringLit)
	if !ok {
		return nil, false
	}
	return n.Lits.Get(p), true
}

// List returns the elements of set/array literals.
func (n *Nodes) List(id NodeID) (*ListData, bool) {
	p, ok := n.payloadOf(id, KindSetLit, KindArrayLit)
	if !ok {
		return nil, false
	}
	return n.Lists.Get(p), true
}

func (n *Nodes) ArrayAccess(id NodeID) (*ArrayAccessData, bool) {
	p, ok := n.payloadOf(id, KindArrayAccess)
	if !ok {
		return nil, false
	}
	return n.Accesses.Get(p), true
}

func (n *Nodes) Comprehension(id NodeID) (*ComprehensionData, bool) {
	p, ok := n.payloadOf(id, KindComprehension)
	if !ok {
		return nil, false
	}
	return n.Comprehensions.Get(p), true
}

func (n *Nodes) Call(id NodeID) (*CallData, bool) {
	p, ok := n.payloadOf(id, KindCall)
	if !ok {
		return nil, false
	}
	return n.Calls.Get(p), true
}

func (n *Nodes) BinOp(id NodeID) (*BinOpData, bool) {
	p, ok := n.payloadOf(id, KindBinOp)
	if !ok {
		return nil, false
	}
	return n.BinOps.Get(p), true
}

func (n *Nodes) UnOp(id NodeID) (*UnOpData, bool) {
	p, ok := n.payloadOf(id, KindUnOp)
	if !ok {
		return nil, false
	}
	return n.UnOps.Get(p), true
}

func (n *Nodes) IfThenElse(id NodeID) (*IfThenElseData, bool) {
	p, ok := n.payloadOf(id, KindIfThenElse)
	if !ok {
		return nil, false
	}
	return n.Ites.Get(p), true
}

func (n *Nodes) Let(id NodeID) (*LetData, bool) {
	p, ok := n.payloadOf(id, KindLet)
	if !ok {
		return nil, false
	}
	return n.Lets.Get(p), true
}

func (n *Nodes) VarDecl(id NodeID) (*VarDeclData, bool) {
	p, ok := n.payloadOf(id, KindVarDecl)
	if !ok {
		return nil, false
	}
	return n.VarDecls.Get(p), true
}

func (n *Nodes) TypeInst(id NodeID) (*TypeInstData, bool) {
	p, ok := n.payloadOf(id, KindTypeInst)
	if !ok {
		return nil, false
	}
	return n.TypeInsts.Get(p), true
}

// ItemExpr returns the single child of vardecl, constraint and output items.
func (n *Nodes) ItemExpr(id NodeID) (NodeID, bool) {
	p, ok := n.payloadOf(id, KindVarDeclItem, KindConstraintItem, KindOutputItem)
	if !ok {
		return NoNodeID, false
	}
	l := n.Lists.Get(p)
	if l == nil || len(l.Elems) == 0 {
		return NoNodeID, true
	}
	return l.Elems[0], true
}

func (n *Nodes) AssignItem(id NodeID) (*AssignItemData, bool) {
	p, ok := n.payloadOf(id, KindAssignItem)
	if !ok {
		return nil, false
	}
	return n.Assigns.Get(p), true
}

func (n *Nodes) SolveItem(id NodeID) (*SolveItemData, bool) {
	p, ok := n.payloadOf(id, KindSolveItem)
	if !ok {
		return nil, false
	}
	return n.Solves.Get(p), true
}

func (n *Nodes) FunctionItem(id NodeID) (*FunctionItemData, bool) {
	p, ok := n.payloadOf(id, KindFunctionItem)
	if !ok {
		return nil, false
	}
	return n.Functions.Get(p), true
}
