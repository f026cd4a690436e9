package lint

import (
	"strconv"

	"mznlint/internal/ast"
	"mznlint/internal/query"
)

// ArrayCoverage maps an array declaration to every equality constraint on one
// of its elements, either written individually or as the body of a forall
// comprehension.
func (c *Cache) ArrayCoverage() map[ast.NodeID][]CoverageEntry {
	if c.coverage.done {
		return c.coverage.val
	}
	span := c.beginView("coverage")
	out := make(map[ast.NodeID][]CoverageEntry)
	seen := make(map[ast.NodeID]struct{})

	forall := c.builder().
		InConstraint().
		Under(ast.KindCall).
		Filter(query.CallNamed("forall")).
		Capture().
		Child(ast.KindComprehension).
		Capture().
		Follow(query.ComprehensionBody).
		ChildOp(ast.OpEq).
		Capture().
		Child(ast.KindArrayAccess).
		Capture().
		Follow(query.ArrayName).
		Child(ast.KindId).
		Capture().
		Build()

	cur := c.search("coverage/forall", forall)
	for cur.Next() {
		comp, eq, access, id := cur.Capture(1), cur.Capture(2), cur.Capture(3), cur.Capture(4)
		rhs, ok := c.otherOperand(eq, access)
		if !ok {
			continue
		}
		seen[eq] = struct{}{}
		c.addCoverage(out, id, CoverageEntry{Access: access, RHS: rhs, Comprehension: comp})
	}

	individual := c.builder().
		InConstraint().
		ChildOp(ast.OpEq).
		Capture().
		Child(ast.KindArrayAccess).
		Capture().
		Follow(query.ArrayName).
		Child(ast.KindId).
		Capture().
		Build()

	cur = c.search("coverage/individual", individual)
	for cur.Next() {
		eq, access, id := cur.Capture(0), cur.Capture(1), cur.Capture(2)
		if _, dup := seen[eq]; dup {
			continue
		}
		rhs, ok := c.otherOperand(eq, access)
		if !ok {
			continue
		}
		c.addCoverage(out, id, CoverageEntry{Access: access, RHS: rhs})
	}

	c.coverage = lazy[map[ast.NodeID][]CoverageEntry]{done: true, val: out}
	span.WithExtra("arrays", strconv.Itoa(len(out))).End("")
	return out
}

// otherOperand returns the side of eq that is not access. access must be a
// direct operand of eq.
func (c *Cache) otherOperand(eq, access ast.NodeID) (ast.NodeID, bool) {
	d, ok := c.m.Nodes.BinOp(eq)
	if !ok {
		return ast.NoNodeID, false
	}
	switch access {
	case d.Left:
		return d.Right, true
	case d.Right:
		return d.Left, true
	}
	return ast.NoNodeID, false
}

func (c *Cache) addCoverage(out map[ast.NodeID][]CoverageEntry, id ast.NodeID, e CoverageEntry) {
	decl := c.m.DeclOf(id)
	if !decl.IsValid() {
		return
	}
	out[decl] = append(out[decl], e)
}

// CoverageEntries returns the coverage entries recorded for decl.
func (c *Cache) CoverageEntries(decl ast.NodeID) []CoverageEntry {
	return c.ArrayCoverage()[decl]
}

// IsEveryIndexTouched reports whether some forall comprehension constraining
// elements of decl iterates exactly over the declared index sets. Generators
// with a where clause do not count. Index sets are compared structurally and
// as an unordered multiset.
func (c *Cache) IsEveryIndexTouched(decl ast.NodeID) bool {
	entries := c.CoverageEntries(decl)
	if len(entries) == 0 {
		return false
	}
	vd, ok := c.m.Nodes.VarDecl(decl)
	if !ok {
		return false
	}
	ti, ok := c.m.Nodes.TypeInst(vd.TypeInst)
	if !ok {
		return false
	}
	ranges := ti.Ranges

	var compRanges []ast.NodeID
	for _, e := range entries {
		if !e.Comprehension.IsValid() {
			continue
		}
		comp, _ := c.m.Nodes.Comprehension(e.Comprehension)
		compRanges = compRanges[:0]
		for _, g := range comp.Generators {
			if g.Where.IsValid() {
				continue
			}
			for range g.Decls {
				compRanges = append(compRanges, g.In)
			}
		}
		if unorderedEqual(ranges, compRanges, c.m.Equal) {
			return true
		}
	}
	return false
}

// unorderedEqual reports whether a and b are equal as multisets under eq.
func unorderedEqual[T any](a, b []T, eq func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && eq(x, y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
