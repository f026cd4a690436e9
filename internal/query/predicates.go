package query

import (
	"mznlint/internal/ast"
)

// NotAnnotation hides annotation expressions.
func NotAnnotation(m *ast.Model, id ast.NodeID) bool {
	n := m.Node(id)
	return n != nil && !n.IsAnnotation()
}

// Roles admits only edges whose role is one of roles.
func Roles(roles ...ast.Role) EdgePredicate {
	var set uint64
	for _, r := range roles {
		set |= 1 << r
	}
	return func(_ *ast.Model, _ ast.NodeID, c ast.Child) bool {
		return set&(1<<c.Role) != 0
	}
}

// ComprehensionBody follows only the body of a comprehension, not its generators.
var ComprehensionBody = Roles(ast.RoleCompBody)

// ArrayName follows only the array operand of an access, not its indices.
var ArrayName = Roles(ast.RoleArray)

// CallNamed keeps calls to the function name.
func CallNamed(name string) NodePredicate {
	return func(m *ast.Model, id ast.NodeID) bool {
		d, ok := m.Nodes.Call(id)
		return ok && d.Name == name
	}
}

// HasIdentOperand keeps binary operations with at least one identifier operand.
func HasIdentOperand(m *ast.Model, id ast.NodeID) bool {
	d, ok := m.Nodes.BinOp(id)
	if !ok {
		return false
	}
	return m.Kind(d.Left) == ast.KindId || m.Kind(d.Right) == ast.KindId
}
