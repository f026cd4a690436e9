package lint

import (
	"strconv"

	"mznlint/internal/ast"
	"mznlint/internal/query"
	"mznlint/internal/source"
	"mznlint/internal/trace"
)

// lazy is a view that is filled on first access.
type lazy[T any] struct {
	done bool
	val  T
}

// CoverageEntry is one equality constraint touching an indexed element of an array.
type CoverageEntry struct {
	Access        ast.NodeID // the a[...] node
	RHS           ast.NodeID // the other side of the equality
	Comprehension ast.NodeID // owning comprehension of a forall, NoNodeID otherwise
}

// Cache owns derived, whole-model views shared by all rules of a lint pass.
// Views are computed at most once and are read-only afterwards. Memoization
// is unsynchronized: call Warm before handing the cache to concurrent rules.
type Cache struct {
	m      *ast.Model
	cls    *source.Classifier
	tracer trace.Tracer
	parent uint64

	equality       lazy[map[ast.NodeID]ast.NodeID]
	coverage       lazy[map[ast.NodeID][]CoverageEntry]
	declarations   lazy[[]ast.NodeID]
	functions      lazy[[]ast.NodeID]
	solve          lazy[ast.NodeID]
	comprehensions lazy[[]ast.NodeID]
	generatorDecls lazy[map[ast.NodeID]struct{}]
}

// Option configures a Cache.
type Option func(*Cache)

// WithTracer reports view computations and query scans to t under the span parent.
func WithTracer(t trace.Tracer, parent uint64) Option {
	return func(c *Cache) {
		c.tracer = t
		c.parent = parent
	}
}

// NewCache creates a cache over m. cls decides which locations are user
// authored; a nil classifier treats every non-synthesized file as user code.
func NewCache(m *ast.Model, cls *source.Classifier, opts ...Option) *Cache {
	c := &Cache{m: m, cls: cls, tracer: trace.Nop}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Model() *ast.Model { return c.m }

func (c *Cache) Classifier() *source.Classifier { return c.cls }

// IsUserDefined reports whether the node comes from user-authored code.
func (c *Cache) IsUserDefined(id ast.NodeID) bool {
	n := c.m.Node(id)
	if n == nil || n.IsIntroduced() {
		return false
	}
	return c.cls.IsUserSpan(c.m.Files, n.Span)
}

// Warm forces every view.
func (c *Cache) Warm() {
	c.EqualityMap()
	c.ArrayCoverage()
	c.Declarations()
	c.Functions()
	c.SolveGoal()
	c.Comprehensions()
	c.IsGeneratorDecl(ast.NoNodeID)
}

func (c *Cache) builder() *query.Builder {
	return query.New().OnlyUserDefined(c.cls).Recursive()
}

// search starts q and records the scan.
func (c *Cache) search(view string, q *query.Query) *query.Cursor {
	trace.Point(c.tracer, trace.ScopeQuery, "scan", view+" "+q.String(), c.parent)
	return query.Search(q, c.m)
}

func (c *Cache) beginView(name string) *trace.Span {
	return trace.Begin(c.tracer, trace.ScopeRule, "view:"+name, c.parent)
}

// EqualityMap maps a declaration to the other side of an "x = e" or "e = x"
// constraint. When several equalities constrain one declaration the last one
// in document order is kept.
func (c *Cache) EqualityMap() map[ast.NodeID]ast.NodeID {
	if c.equality.done {
		return c.equality.val
	}
	span := c.beginView("equality")
	q := c.builder().
		GlobalFilter(query.NotAnnotation).
		InConstraint().
		ChildOp(ast.OpEq).
		Filter(query.HasIdentOperand).
		Capture().
		Build()

	out := make(map[ast.NodeID]ast.NodeID)
	cur := c.search("equality", q)
	for cur.Next() {
		eq, _ := c.m.Nodes.BinOp(cur.Capture(0))
		if decl := c.identDecl(eq.Left); decl.IsValid() {
			out[decl] = eq.Right
		}
		if decl := c.identDecl(eq.Right); decl.IsValid() {
			out[decl] = eq.Left
		}
	}
	c.equality = lazy[map[ast.NodeID]ast.NodeID]{done: true, val: out}
	span.WithExtra("entries", strconv.Itoa(len(out))).End("")
	return out
}

func (c *Cache) identDecl(id ast.NodeID) ast.NodeID {
	if c.m.Kind(id) != ast.KindId {
		return ast.NoNodeID
	}
	return c.m.DeclOf(id)
}

// EqualityRHS returns the value decl is constrained equal to, if any.
func (c *Cache) EqualityRHS(decl ast.NodeID) (ast.NodeID, bool) {
	rhs, ok := c.EqualityMap()[decl]
	return rhs, ok
}

// Declarations lists user-authored declarations found in declaration items,
// assignments, constraints and function bodies, in document order. The
// declaration the solve objective refers to is kept even when it is not
// user authored.
func (c *Cache) Declarations() []ast.NodeID {
	if c.declarations.done {
		return c.declarations.val
	}
	span := c.beginView("declarations")
	q := query.New().
		Recursive().
		InVarDecl().
		InAssignRHS().
		InConstraint().
		InFunctionBody().
		Under(ast.KindVarDecl).
		Capture().
		Build()

	objective := c.objectiveDecl()
	var out []ast.NodeID
	cur := c.search("declarations", q)
	for cur.Next() {
		item := cur.Item()
		if c.m.Kind(item) == ast.KindFunctionItem && !c.IsUserDefined(item) {
			// enum helpers and library predicates
			cur.AbandonItem()
			continue
		}
		decl := cur.Capture(0)
		if decl != objective && !c.IsUserDefined(decl) {
			continue
		}
		out = append(out, decl)
	}
	c.declarations = lazy[[]ast.NodeID]{done: true, val: out}
	span.WithExtra("entries", strconv.Itoa(len(out))).End("")
	return out
}

func (c *Cache) objectiveDecl() ast.NodeID {
	goal, ok := c.SolveGoal()
	if !ok {
		return ast.NoNodeID
	}
	si, _ := c.m.Nodes.SolveItem(goal)
	return c.identDecl(si.Objective)
}

// Functions lists user-authored function and predicate items.
func (c *Cache) Functions() []ast.NodeID {
	if c.functions.done {
		return c.functions.val
	}
	span := c.beginView("functions")
	q := c.builder().InFunction().Build()

	var out []ast.NodeID
	cur := c.search("functions", q)
	for cur.Next() {
		out = append(out, cur.Item())
		cur.AbandonItem()
	}
	c.functions = lazy[[]ast.NodeID]{done: true, val: out}
	span.WithExtra("entries", strconv.Itoa(len(out))).End("")
	return out
}

// SolveGoal returns the solve item of the model.
func (c *Cache) SolveGoal() (ast.NodeID, bool) {
	if c.solve.done {
		return c.solve.val, c.solve.val.IsValid()
	}
	span := c.beginView("solve")
	q := c.builder().InSolve().Build()

	goal := ast.NoNodeID
	cur := c.search("solve", q)
	if cur.Next() {
		goal = cur.Item()
	}
	c.solve = lazy[ast.NodeID]{done: true, val: goal}
	span.End("")
	return goal, goal.IsValid()
}

// Comprehensions lists every user-authored comprehension outside annotations.
func (c *Cache) Comprehensions() []ast.NodeID {
	if c.comprehensions.done {
		return c.comprehensions.val
	}
	span := c.beginView("comprehensions")
	q := c.builder().
		GlobalFilter(query.NotAnnotation).
		Under(ast.KindComprehension).
		Capture().
		Build()

	var out []ast.NodeID
	cur := c.search("comprehensions", q)
	for cur.Next() {
		out = append(out, cur.Capture(0))
	}
	c.comprehensions = lazy[[]ast.NodeID]{done: true, val: out}
	span.WithExtra("entries", strconv.Itoa(len(out))).End("")
	return out
}

// IsGeneratorDecl reports whether decl is introduced by a comprehension
// generator. Comprehensions inside annotations count too: Declarations
// inventories their variables.
func (c *Cache) IsGeneratorDecl(decl ast.NodeID) bool {
	if !c.generatorDecls.done {
		span := c.beginView("generators")
		q := c.builder().
			Under(ast.KindComprehension).
			Capture().
			Build()

		set := make(map[ast.NodeID]struct{})
		cur := c.search("generators", q)
		for cur.Next() {
			d, _ := c.m.Nodes.Comprehension(cur.Capture(0))
			for _, g := range d.Generators {
				for _, gd := range g.Decls {
					set[gd] = struct{}{}
				}
			}
		}
		c.generatorDecls = lazy[map[ast.NodeID]struct{}]{done: true, val: set}
		span.WithExtra("entries", strconv.Itoa(len(set))).End("")
	}
	_, ok := c.generatorDecls.val[decl]
	return ok
}
