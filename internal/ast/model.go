package ast

import (
	"mznlint/internal/source"
)

// Model is a resolved, read-only constraint model handed over by the front end.
// Node handles stay valid for the lifetime of the Model.
type Model struct {
	Files *source.FileSet
	Nodes *Nodes
	items []NodeID
}

// NewModel wraps already built storage. items must be top-level item nodes in source order.
func NewModel(files *source.FileSet, nodes *Nodes, items []NodeID) *Model {
	if files == nil {
		files = source.NewFileSet()
	}
	return &Model{Files: files, Nodes: nodes, items: items}
}

// Items returns the top-level items in source order. Do not modify.
func (m *Model) Items() []NodeID {
	return m.items
}

func (m *Model) Node(id NodeID) *Node {
	return m.Nodes.Get(id)
}

func (m *Model) Kind(id NodeID) Kind {
	if n := m.Nodes.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (m *Model) Span(id NodeID) source.Span {
	if n := m.Nodes.Get(id); n != nil {
		return n.Span
	}
	return source.NoSpan
}

func (m *Model) Type(id NodeID) Type {
	if n := m.Nodes.Get(id); n != nil {
		return n.Type
	}
	return Type{}
}

// Children appends the children of id to buf in document order.
func (m *Model) Children(id NodeID, buf []Child) []Child {
	return m.Nodes.Children(id, buf)
}

// DeclOf returns the declaration an identifier resolves to.
// VarDecl nodes resolve to themselves; anything else yields NoNodeID.
func (m *Model) DeclOf(id NodeID) NodeID {
	switch m.Kind(id) {
	case KindVarDecl:
		return id
	case KindId:
		d, _ := m.Nodes.Ident(id)
		return d.Decl
	}
	return NoNodeID
}

// FollowID chases identifiers through declarations whose value is again an
// identifier, returning the last expression reached.
func (m *Model) FollowID(id NodeID) NodeID {
	seen := 0
	for m.Kind(id) == KindId {
		decl := m.DeclOf(id)
		vd, ok := m.Nodes.VarDecl(decl)
		if !ok || !vd.Value.IsValid() {
			return decl
		}
		id = vd.Value
		seen++
		if seen > len(m.Nodes.Arena.Slice()) {
			// cyclic aliasing, only possible in malformed models
			return id
		}
	}
	return id
}

// DeclName returns the declared name of a VarDecl or function item.
func (m *Model) DeclName(id NodeID) string {
	if vd, ok := m.Nodes.VarDecl(id); ok {
		return vd.Name
	}
	if fi, ok := m.Nodes.FunctionItem(id); ok {
		return fi.Name
	}
	if d, ok := m.Nodes.Ident(id); ok {
		return d.Name
	}
	return ""
}

// Walk visits root and its descendants in document order. Returning false
// from fn skips the node's subtree.
func (m *Model) Walk(root NodeID, fn func(id NodeID) bool) {
	var buf []Child
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !id.IsValid() || !fn(id) {
			continue
		}
		buf = m.Nodes.Children(id, buf[:0])
		for i := len(buf) - 1; i >= 0; i-- {
			stack = append(stack, buf[i].Node)
		}
	}
}
