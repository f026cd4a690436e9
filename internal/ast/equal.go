package ast

// Equal reports whether a and b are structurally identical expressions.
// Spans and static types are ignored; identifiers compare by resolved
// declaration, falling back to the name when unresolved. No evaluation is
// done: 1..3 and 1..1+2 are different.
func (m *Model) Equal(a, b NodeID) bool {
	if a == b {
		return true
	}
	na, nb := m.Nodes.Get(a), m.Nodes.Get(b)
	if na == nil || nb == nil || na.Kind != nb.Kind {
		return false
	}
	switch na.Kind {
	case KindId:
		ia, _ := m.Nodes.Ident(a)
		ib, _ := m.Nodes.Ident(b)
		if ia.Decl.IsValid() || ib.Decl.IsValid() {
			return ia.Decl == ib.Decl
		}
		return ia.Name == ib.Name
	case KindIntLit, KindFloatLit, KindBoolLit, KindStringLit:
		la, _ := m.Nodes.Lit(a)
		lb, _ := m.Nodes.Lit(b)
		return *la == *lb
	case KindAnon:
		return true
	case KindSetLit, KindArrayLit:
		la, _ := m.Nodes.List(a)
		lb, _ := m.Nodes.List(b)
		return m.equalAll(la.Elems, lb.Elems)
	case KindArrayAccess:
		da, _ := m.Nodes.ArrayAccess(a)
		db, _ := m.Nodes.ArrayAccess(b)
		return m.Equal(da.Array, db.Array) && m.equalAll(da.Indices, db.Indices)
	case KindComprehension:
		da, _ := m.Nodes.Comprehension(a)
		db, _ := m.Nodes.Comprehension(b)
		if da.Set != db.Set || len(da.Generators) != len(db.Generators) || !m.Equal(da.Body, db.Body) {
			return false
		}
		for i := range da.Generators {
			ga, gb := da.Generators[i], db.Generators[i]
			if len(ga.Decls) != len(gb.Decls) || !m.Equal(ga.In, gb.In) || !m.Equal(ga.Where, gb.Where) {
				return false
			}
		}
		return true
	case KindCall:
		da, _ := m.Nodes.Call(a)
		db, _ := m.Nodes.Call(b)
		return da.Name == db.Name && m.equalAll(da.Args, db.Args)
	case KindBinOp:
		da, _ := m.Nodes.BinOp(a)
		db, _ := m.Nodes.BinOp(b)
		return da.Op == db.Op && m.Equal(da.Left, db.Left) && m.Equal(da.Right, db.Right)
	case KindUnOp:
		da, _ := m.Nodes.UnOp(a)
		db, _ := m.Nodes.UnOp(b)
		return da.Op == db.Op && m.Equal(da.Operand, db.Operand)
	case KindIfThenElse:
		da, _ := m.Nodes.IfThenElse(a)
		db, _ := m.Nodes.IfThenElse(b)
		return m.equalAll(da.Conds, db.Conds) && m.equalAll(da.Thens, db.Thens) && m.Equal(da.Else, db.Else)
	case KindLet:
		da, _ := m.Nodes.Let(a)
		db, _ := m.Nodes.Let(b)
		return m.equalAll(da.Decls, db.Decls) && m.Equal(da.Body, db.Body)
	case KindTypeInst:
		da, _ := m.Nodes.TypeInst(a)
		db, _ := m.Nodes.TypeInst(b)
		return na.Type == nb.Type && m.Equal(da.Domain, db.Domain) && m.equalAll(da.Ranges, db.Ranges)
	case KindVarDecl:
		// разные объявления никогда не равны
		return false
	}
	return false
}

func (m *Model) equalAll(as, bs []NodeID) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !m.Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}
