package query

import (
	"mznlint/internal/ast"
)

// Scope is a set of item categories a query is restricted to.
type Scope uint8

const (
	ScopeVarDecl Scope = 1 << iota
	ScopeAssignRHS
	ScopeConstraint
	ScopeFunctionBody
	ScopeFunction
	ScopeSolve
	ScopeOutput
)

func (s Scope) String() string {
	if s == 0 {
		return "all"
	}
	names := []string{"vardecl", "assign-rhs", "constraint", "function-body", "function", "solve", "output"}
	out := ""
	for i, n := range names {
		if s&(1<<i) == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += n
	}
	return out
}

// admitsItem reports whether an item of kind k is searched under s.
func (s Scope) admitsItem(k ast.Kind) bool {
	if s == 0 {
		return true
	}
	switch k {
	case ast.KindVarDeclItem:
		return s&ScopeVarDecl != 0
	case ast.KindAssignItem:
		return s&ScopeAssignRHS != 0
	case ast.KindConstraintItem:
		return s&ScopeConstraint != 0
	case ast.KindFunctionItem:
		return s&(ScopeFunctionBody|ScopeFunction) != 0
	case ast.KindSolveItem:
		return s&ScopeSolve != 0
	case ast.KindOutputItem:
		return s&ScopeOutput != 0
	}
	return false
}

// admitsEdge reports whether an item child reached through role is searched under s.
func (s Scope) admitsEdge(role ast.Role) bool {
	if s == 0 {
		return true
	}
	switch role {
	case ast.RoleItemDecl:
		return s&ScopeVarDecl != 0
	case ast.RoleAssignRHS:
		return s&ScopeAssignRHS != 0
	case ast.RoleConstraint:
		return s&ScopeConstraint != 0
	case ast.RoleFuncBody:
		return s&(ScopeFunctionBody|ScopeFunction) != 0
	case ast.RoleFuncParam, ast.RoleFuncReturn:
		return s&ScopeFunction != 0
	case ast.RoleSolve:
		return s&ScopeSolve != 0
	case ast.RoleOutput:
		return s&ScopeOutput != 0
	}
	return false
}
