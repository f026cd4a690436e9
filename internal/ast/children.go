package ast

// Role tells how a child hangs off its parent.
type Role uint8

const (
	RoleNone Role = iota
	RoleAnnotation

	// expression edges
	RoleArray
	RoleIndex
	RoleCompBody
	RoleGenDecl
	RoleGenIn
	RoleGenWhere
	RoleArg
	RoleOperand
	RoleCond
	RoleThen
	RoleElse
	RoleLetDecl
	RoleLetBody
	RoleTypeInst
	RoleDeclValue
	RoleRange
	RoleDomain
	RoleElem

	// item edges
	RoleItemDecl
	RoleAssignRHS
	RoleConstraint
	RoleSolve
	RoleOutput
	RoleFuncReturn
	RoleFuncParam
	RoleFuncBody
)

// Child is one edge from a parent node.
type Child struct {
	Node NodeID
	Role Role
}

func appendChild(buf []Child, id NodeID, role Role) []Child {
	if !id.IsValid() {
		return buf
	}
	return append(buf, Child{Node: id, Role: role})
}

func appendChildren(buf []Child, ids []NodeID, role Role) []Child {
	for _, id := range ids {
		buf = appendChild(buf, id, role)
	}
	return buf
}

// Children appends the children of id to buf in document order and returns it.
// Annotations come last.
func (n *Nodes) Children(id NodeID, buf []Child) []Child {
	node := n.Get(id)
	if node == nil {
		return buf
	}
	p := uint32(node.Payload)
	switch node.Kind {
	case KindSetLit, KindArrayLit:
		buf = appendChildren(buf, n.Lists.Get(p).Elems, RoleElem)
	case KindArrayAccess:
		d := n.Accesses.Get(p)
		buf = appendChild(buf, d.Array, RoleArray)
		buf = appendChildren(buf, d.Indices, RoleIndex)
	case KindComprehension:
		d := n.Comprehensions.Get(p)
		buf = appendChild(buf, d.Body, RoleCompBody)
		for _, g := range d.Generators {
			buf = appendChildren(buf, g.Decls, RoleGenDecl)
			buf = appendChild(buf, g.In, RoleGenIn)
			buf = appendChild(buf, g.Where, RoleGenWhere)
		}
	case KindCall:
		buf = appendChildren(buf, n.Calls.Get(p).Args, RoleArg)
	case KindBinOp:
		d := n.BinOps.Get(p)
		buf = appendChild(buf, d.Left, RoleOperand)
		buf = appendChild(buf, d.Right, RoleOperand)
	case KindUnOp:
		buf = appendChild(buf, n.UnOps.Get(p).Operand, RoleOperand)
	case KindIfThenElse:
		d := n.Ites.Get(p)
		for i := range d.Conds {
			buf = appendChild(buf, d.Conds[i], RoleCond)
			if i < len(d.Thens) {
				buf = appendChild(buf, d.Thens[i], RoleThen)
			}
		}
		buf = appendChild(buf, d.Else, RoleElse)
	case KindLet:
		d := n.Lets.Get(p)
		buf = appendChildren(buf, d.Decls, RoleLetDecl)
		buf = appendChild(buf, d.Body, RoleLetBody)
	case KindVarDecl:
		d := n.VarDecls.Get(p)
		buf = appendChild(buf, d.TypeInst, RoleTypeInst)
		buf = appendChild(buf, d.Value, RoleDeclValue)
	case KindTypeInst:
		d := n.TypeInsts.Get(p)
		buf = appendChildren(buf, d.Ranges, RoleRange)
		buf = appendChild(buf, d.Domain, RoleDomain)
	case KindVarDeclItem:
		buf = appendChildren(buf, n.Lists.Get(p).Elems, RoleItemDecl)
	case KindConstraintItem:
		buf = appendChildren(buf, n.Lists.Get(p).Elems, RoleConstraint)
	case KindOutputItem:
		buf = appendChildren(buf, n.Lists.Get(p).Elems, RoleOutput)
	case KindAssignItem:
		buf = appendChild(buf, n.Assigns.Get(p).Value, RoleAssignRHS)
	case KindSolveItem:
		buf = appendChild(buf, n.Solves.Get(p).Objective, RoleSolve)
	case KindFunctionItem:
		d := n.Functions.Get(p)
		buf = appendChild(buf, d.Return, RoleFuncReturn)
		buf = appendChildren(buf, d.Params, RoleFuncParam)
		buf = appendChild(buf, d.Body, RoleFuncBody)
	}
	return appendChildren(buf, node.Anns, RoleAnnotation)
}
