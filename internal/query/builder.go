package query

import (
	"fmt"

	"mznlint/internal/ast"
	"mznlint/internal/source"
)

// Builder accumulates steps. It is not safe for concurrent use; the Query it
// produces is.
type Builder struct {
	steps     []step
	scope     Scope
	recursive bool
	globals   []NodePredicate
	userOnly  *source.Classifier
	userSet   bool
	captures  int
	descended bool
	follow    EdgePredicate
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Query is an immutable, reusable search description.
type Query struct {
	steps    []step
	scope    Scope
	globals  []NodePredicate
	userOnly *source.Classifier
	userSet  bool
	captures int
}

// CaptureCount is the number of Capture steps, i.e. the length of Match.Captures.
func (q *Query) CaptureCount() int {
	return q.captures
}

// Scope returns the union of scope guards, 0 meaning unrestricted.
func (q *Query) Scope() Scope {
	return q.scope
}

func (q *Query) String() string {
	out := "query[" + q.scope.String() + "]"
	for _, s := range q.steps {
		switch s.kind {
		case stepChild:
			out += " > " + s.pattern.String()
		case stepNearest:
			out += " >> " + s.pattern.String()
		case stepUnder:
			out += " >>> " + s.pattern.String()
		case stepSelf:
			out += " **"
		case stepCapture:
			out += fmt.Sprintf(" @%d", s.slot)
		case stepFilter:
			out += " ?"
		}
	}
	return out
}

// Recursive switches every following Child/ChildOp to nearest-descendant
// semantics. There is no way back.
func (b *Builder) Recursive() *Builder {
	b.recursive = true
	return b
}

func (b *Builder) guard(s Scope) *Builder {
	if b.descended {
		panic(fmt.Sprintf("query: scope guard %s after a descent step", s))
	}
	b.scope |= s
	return b
}

func (b *Builder) InVarDecl() *Builder      { return b.guard(ScopeVarDecl) }
func (b *Builder) InAssignRHS() *Builder    { return b.guard(ScopeAssignRHS) }
func (b *Builder) InConstraint() *Builder   { return b.guard(ScopeConstraint) }
func (b *Builder) InFunctionBody() *Builder { return b.guard(ScopeFunctionBody) }
func (b *Builder) InFunction() *Builder     { return b.guard(ScopeFunction) }
func (b *Builder) InSolve() *Builder        { return b.guard(ScopeSolve) }
func (b *Builder) InOutput() *Builder       { return b.guard(ScopeOutput) }

func (b *Builder) descend(kind stepKind, p Pattern) *Builder {
	if p.Kind.IsItem() {
		panic(fmt.Sprintf("query: %s is a top-level item and cannot be a descent target", p.Kind))
	}
	b.steps = append(b.steps, step{kind: kind, pattern: p, follow: b.follow})
	b.follow = nil
	b.descended = true
	return b
}

// Child descends to an immediate child of kind k (nearest descendant once Recursive).
func (b *Builder) Child(k ast.Kind) *Builder {
	return b.ChildPattern(Pattern{Kind: k})
}

// ChildOp is Child restricted to binary operations with operator op.
func (b *Builder) ChildOp(op ast.BinOp) *Builder {
	if op == ast.OpInvalid {
		panic("query: ChildOp with invalid operator")
	}
	return b.ChildPattern(Pattern{Kind: ast.KindBinOp, Op: op})
}

// ChildPattern is Child for an arbitrary Pattern.
func (b *Builder) ChildPattern(p Pattern) *Builder {
	if b.recursive {
		return b.descend(stepNearest, p)
	}
	return b.descend(stepChild, p)
}

// Under descends to every descendant of kind k, at any depth.
func (b *Builder) Under(k ast.Kind) *Builder {
	return b.descend(stepUnder, Pattern{Kind: k})
}

// Capture records the current node in the next capture slot.
func (b *Builder) Capture() *Builder {
	b.steps = append(b.steps, step{kind: stepCapture, slot: b.captures})
	b.captures++
	return b
}

// Filter prunes the current node when pred returns false.
func (b *Builder) Filter(pred NodePredicate) *Builder {
	if pred == nil {
		panic("query: nil filter")
	}
	b.steps = append(b.steps, step{kind: stepFilter, filter: pred})
	return b
}

// Follow restricts the edges the next descent step may leave the current node through.
func (b *Builder) Follow(pred EdgePredicate) *Builder {
	if pred == nil {
		panic("query: nil follow predicate")
	}
	if b.follow != nil {
		prev := b.follow
		b.follow = func(m *ast.Model, parent ast.NodeID, c ast.Child) bool {
			return prev(m, parent, c) && pred(m, parent, c)
		}
		return b
	}
	b.follow = pred
	return b
}

// GlobalFilter hides every node rejected by pred, together with its subtree.
func (b *Builder) GlobalFilter(pred NodePredicate) *Builder {
	if pred == nil {
		panic("query: nil global filter")
	}
	b.globals = append(b.globals, pred)
	return b
}

// OnlyUserDefined skips items located in library or introduced files.
func (b *Builder) OnlyUserDefined(cls *source.Classifier) *Builder {
	b.userOnly = cls
	b.userSet = true
	return b
}

// Build freezes the chain. The builder must not be reused afterwards.
func (b *Builder) Build() *Query {
	if b.follow != nil {
		panic("query: Follow is not followed by a descent step")
	}
	steps := make([]step, 0, len(b.steps)+1)
	if !b.descended {
		steps = append(steps, step{kind: stepSelf})
	}
	steps = append(steps, b.steps...)
	return &Query{
		steps:    steps,
		scope:    b.scope,
		globals:  append([]NodePredicate(nil), b.globals...),
		userOnly: b.userOnly,
		userSet:  b.userSet,
		captures: b.captures,
	}
}
