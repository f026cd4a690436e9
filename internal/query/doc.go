// Package query implements a declarative tree matcher over resolved models.
//
// A Query is an immutable chain of steps built with a Builder:
//
//	q := query.New().
//		Recursive().
//		InConstraint().
//		ChildOp(ast.OpEq).Capture().
//		Follow(query.Roles(ast.RoleOperand)).
//		Child(ast.KindId).Capture().
//		Build()
//
// Search runs the query against a Model and returns a Cursor that lazily
// enumerates Matches. The search is a depth-first backtracking walk over the
// model's top-level items in source order. Its state is an explicit stack of
// frames, one per descent step, so a Cursor can be suspended after any Match
// and resumed later without recomputing anything.
//
// # Steps
//
//   - Child(kind) / ChildOp(op): an immediate child of the current node. After
//     Recursive() it means the nearest matching descendant on every downward path.
//   - Under(kind): every matching descendant at any depth.
//   - In*(): scope guards. They restrict which items are searched and which of
//     their children are entered. They must precede every descent step.
//   - Capture(): records the current node; indices are assigned 0, 1, ... in
//     chain order.
//   - Filter(pred): prunes the current node.
//   - Follow(pred): restricts the edges the next descent step may leave through.
//   - GlobalFilter(pred): evaluated once before the first Next; rejected nodes
//     and their subtrees are invisible for the Cursor's lifetime.
//   - OnlyUserDefined(cls): skips items from library or introduced code.
//
// A chain without descent steps matches every node in scope, item nodes
// included.
//
// Misuse of the builder is a bug in the caller and panics at Build time.
package query
