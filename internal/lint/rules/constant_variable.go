package rules

import (
	"mznlint/internal/ast"
	"mznlint/internal/diag"
	"mznlint/internal/lint"
)

func init() { lint.Register(constantVariable{}) }

// constantVariable reports decision variables that can only take fixed values:
// either assigned or equated to a par expression, or an array whose every
// index is constrained to par values by a forall.
type constantVariable struct{}

func (constantVariable) ID() uint16              { return 4 }
func (constantVariable) Name() string            { return "constant-variable" }
func (constantVariable) Category() lint.Category { return lint.CategoryRedundant }

func (r constantVariable) Run(c *lint.Cache, rep diag.Reporter) {
	m := c.Model()
	ref := lint.RefOf(r)
	for _, decl := range c.Declarations() {
		vd, ok := m.Nodes.VarDecl(decl)
		if !ok {
			continue
		}
		rhs := vd.Value
		if !rhs.IsValid() {
			rhs, _ = c.EqualityRHS(decl)
		}
		typ := m.Type(decl)

		if rhs.IsValid() {
			if !typ.IsVar() || !m.Type(rhs).IsPar() {
				continue
			}
			b := diag.ReportWarning(rep, ref, m.Span(decl), vd.Name+" is only assigned to par values, shouldn't be var")
			if n := m.Node(rhs); n != nil && !n.IsIntroduced() && !n.Span.IsZero() {
				b.WithSub(n.Span, "assigned here")
			}
			b.Emit()
			continue
		}

		if !isArrayDecl(m, vd) || !c.IsEveryIndexTouched(decl) {
			continue
		}
		entries := c.CoverageEntries(decl)
		if !allParValues(m, entries) {
			continue
		}
		b := diag.ReportWarning(rep, ref, m.Span(decl), vd.Name+" is only constrained to par values, shouldn't be var")
		for _, e := range entries {
			b.WithSub(m.Span(e.Access), "constrained here")
		}
		b.Emit()
	}
}

func allParValues(m *ast.Model, entries []lint.CoverageEntry) bool {
	for _, e := range entries {
		if !m.Type(e.RHS).IsPar() {
			return false
		}
	}
	return true
}

func isArrayDecl(m *ast.Model, vd *ast.VarDeclData) bool {
	ti, ok := m.Nodes.TypeInst(vd.TypeInst)
	return ok && len(ti.Ranges) > 0
}
