package query

import (
	"mznlint/internal/ast"
)

// NodePredicate decides whether a node is kept.
type NodePredicate func(m *ast.Model, id ast.NodeID) bool

// EdgePredicate decides whether a descent may leave parent through c.
type EdgePredicate func(m *ast.Model, parent ast.NodeID, c ast.Child) bool

type stepKind uint8

const (
	stepChild   stepKind = iota + 1 // immediate child
	stepNearest                     // nearest descendant (Child after Recursive)
	stepUnder                       // every descendant
	stepSelf                        // node itself and every descendant (empty chain)
	stepCapture
	stepFilter
)

func (k stepKind) isDescent() bool {
	return k == stepChild || k == stepNearest || k == stepUnder || k == stepSelf
}

// Pattern selects nodes by kind and, for binary operations, by operator.
// The zero Pattern matches anything.
type Pattern struct {
	Kind ast.Kind
	Op   ast.BinOp
}

// Any matches every node.
var Any = Pattern{}

func (p Pattern) matches(n *ast.Node, m *ast.Model, id ast.NodeID) bool {
	if p.Kind != ast.KindInvalid && n.Kind != p.Kind {
		return false
	}
	if p.Op != ast.OpInvalid {
		d, ok := m.Nodes.BinOp(id)
		return ok && d.Op == p.Op
	}
	return true
}

func (p Pattern) String() string {
	switch {
	case p.Op != ast.OpInvalid:
		return "binop(" + p.Op.String() + ")"
	case p.Kind == ast.KindInvalid:
		return "*"
	default:
		return p.Kind.String()
	}
}

type step struct {
	kind    stepKind
	pattern Pattern
	slot    int           // capture index
	filter  NodePredicate // stepFilter
	follow  EdgePredicate // descent steps: restriction on the first edge
}
