package rules

import (
	"mznlint/internal/ast"
	"mznlint/internal/diag"
	"mznlint/internal/lint"
)

func init() { lint.Register(unboundedVariable{}) }

// unboundedVariable reports int and float decision variables declared
// without a domain that nothing else bounds.
type unboundedVariable struct{}

func (unboundedVariable) ID() uint16              { return 13 }
func (unboundedVariable) Name() string            { return "unbounded-variable" }
func (unboundedVariable) Category() lint.Category { return lint.CategoryPerformance }

func (r unboundedVariable) Run(c *lint.Cache, rep diag.Reporter) {
	m := c.Model()
	ref := lint.RefOf(r)
	for _, decl := range c.Declarations() {
		vd, ok := m.Nodes.VarDecl(decl)
		if !ok || !hasNoDomain(m, decl, vd) || vd.Value.IsValid() {
			continue
		}
		if _, ok := c.EqualityRHS(decl); ok {
			continue
		}
		// generator variables are bounded by what they iterate over
		if c.IsGeneratorDecl(decl) {
			continue
		}
		diag.ReportWarning(rep, ref, m.Span(decl), "no explicit domain on variable declaration").Emit()
	}
}

func hasNoDomain(m *ast.Model, decl ast.NodeID, vd *ast.VarDeclData) bool {
	t := m.Type(decl)
	if !t.IsVar() || t.Set || !t.IsPresent() || t.Dim < 0 {
		return false
	}
	if t.Base != ast.BaseInt && t.Base != ast.BaseFloat {
		return false
	}
	ti, ok := m.Nodes.TypeInst(vd.TypeInst)
	return !ok || !ti.Domain.IsValid()
}
