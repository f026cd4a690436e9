package query

import (
	"fmt"

	"mznlint/internal/ast"
)

// Match is one complete satisfying walk.
type Match struct {
	Item     ast.NodeID   // top-level item the walk started from
	Node     ast.NodeID   // node reached by the last descent step
	Captures []ast.NodeID // one entry per Capture step, in chain order
}

// Capture returns captured node i. Out-of-range indices are a bug in the
// caller and panic.
func (m Match) Capture(i int) ast.NodeID {
	if i < 0 || i >= len(m.Captures) {
		panic(fmt.Sprintf("query: capture %d out of range (query has %d captures)", i, len(m.Captures)))
	}
	return m.Captures[i]
}

// frame is the suspended state of one descent step: the step index and the
// not yet inspected candidates, kept as a DFS stack.
type frame struct {
	step    int
	pending []ast.NodeID
	emitted bool // stepSelf: origin node already yielded
	origin  ast.NodeID
}

// Cursor enumerates the matches of one query against one model.
// It holds handles into the model only.
type Cursor struct {
	q     *Query
	m     *ast.Model
	items []ast.NodeID

	started bool
	done    bool
	itemIdx int
	frames  []frame
	caps    []ast.NodeID
	hidden  map[ast.NodeID]struct{}
	buf     []ast.Child

	cur Match
	has bool
}

// Search prepares a Cursor. No work is done until the first Next.
func Search(q *Query, m *ast.Model) *Cursor {
	return &Cursor{
		q:       q,
		m:       m,
		itemIdx: -1,
		caps:    make([]ast.NodeID, q.captures),
	}
}

// Next advances to the following match. It returns false once the search is
// exhausted, and keeps returning false afterwards.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		c.items = c.m.Items()
		c.applyGlobalFilters()
	}
	c.has = false
	for {
		if len(c.frames) == 0 {
			item, ok := c.nextItem()
			if !ok {
				c.done = true
				c.frames = nil
				return false
			}
			if c.forward(0, item) {
				return true
			}
			continue
		}
		top := &c.frames[len(c.frames)-1]
		cand, ok := c.pull(top)
		if !ok {
			c.frames = c.frames[:len(c.frames)-1]
			continue
		}
		if c.forward(top.step+1, cand) {
			return true
		}
	}
}

// Match returns the current match. Calling it before a successful Next panics.
func (c *Cursor) Match() Match {
	if !c.has {
		panic("query: Match called without a current match")
	}
	return c.cur
}

// Capture is shorthand for c.Match().Capture(i).
func (c *Cursor) Capture(i int) ast.NodeID {
	return c.Match().Capture(i)
}

// Item returns the top-level item currently being searched.
func (c *Cursor) Item() ast.NodeID {
	if c.itemIdx < 0 || c.itemIdx >= len(c.items) {
		return ast.NoNodeID
	}
	return c.items[c.itemIdx]
}

// AbandonItem drops every pending alternative of the current item; the next
// call to Next continues with the following item.
func (c *Cursor) AbandonItem() {
	c.frames = c.frames[:0]
}

// Done reports whether the cursor is exhausted.
func (c *Cursor) Done() bool {
	return c.done
}

func (c *Cursor) nextItem() (ast.NodeID, bool) {
	for {
		c.itemIdx++
		if c.itemIdx >= len(c.items) {
			return ast.NoNodeID, false
		}
		item := c.items[c.itemIdx]
		n := c.m.Node(item)
		if n == nil || !c.q.scope.admitsItem(n.Kind) || c.isHidden(item) {
			continue
		}
		if c.q.userSet && (n.IsIntroduced() || !c.q.userOnly.IsUserSpan(c.m.Files, n.Span)) {
			continue
		}
		clear(c.caps)
		return item, true
	}
}

// forward runs the steps from k with cur as the current node until it either
// reaches the end of the chain (a match), fails a filter, or suspends on a
// descent step by pushing a frame.
func (c *Cursor) forward(k int, cur ast.NodeID) bool {
	steps := c.q.steps
	for ; k < len(steps); k++ {
		s := &steps[k]
		switch s.kind {
		case stepCapture:
			c.caps[s.slot] = cur
		case stepFilter:
			if !s.filter(c.m, cur) {
				return false
			}
		default:
			c.frames = append(c.frames, c.newFrame(k, cur))
			return false
		}
	}
	c.cur = Match{
		Item:     c.Item(),
		Node:     cur,
		Captures: append([]ast.NodeID(nil), c.caps...),
	}
	c.has = true
	return true
}

func (c *Cursor) newFrame(k int, origin ast.NodeID) frame {
	f := frame{step: k, origin: origin}
	if c.q.steps[k].kind == stepSelf {
		return f
	}
	f.pending = c.pushChildren(f.pending, origin, c.q.steps[k].follow)
	return f
}

// pull yields the next candidate of f in document order.
func (c *Cursor) pull(f *frame) (ast.NodeID, bool) {
	s := &c.q.steps[f.step]
	if s.kind == stepSelf && !f.emitted {
		f.emitted = true
		f.pending = c.pushChildren(f.pending, f.origin, nil)
		return f.origin, true
	}
	for len(f.pending) > 0 {
		id := f.pending[len(f.pending)-1]
		f.pending = f.pending[:len(f.pending)-1]
		n := c.m.Node(id)
		hit := s.pattern.matches(n, c.m, id)
		switch s.kind {
		case stepChild:
			// only immediate children were pushed
		case stepNearest:
			if !hit {
				f.pending = c.pushChildren(f.pending, id, nil)
			}
		case stepUnder, stepSelf:
			f.pending = c.pushChildren(f.pending, id, nil)
		}
		if hit {
			return id, true
		}
	}
	return ast.NoNodeID, false
}

// pushChildren pushes the visible children of parent in reverse order so that
// popping yields document order.
func (c *Cursor) pushChildren(stack []ast.NodeID, parent ast.NodeID, follow EdgePredicate) []ast.NodeID {
	c.buf = c.m.Children(parent, c.buf[:0])
	isItem := c.m.Kind(parent).IsItem()
	for i := len(c.buf) - 1; i >= 0; i-- {
		ch := c.buf[i]
		if isItem && !c.q.scope.admitsEdge(ch.Role) {
			continue
		}
		if c.isHidden(ch.Node) {
			continue
		}
		if follow != nil && !follow(c.m, parent, ch) {
			continue
		}
		stack = append(stack, ch.Node)
	}
	return stack
}

func (c *Cursor) isHidden(id ast.NodeID) bool {
	if c.hidden == nil {
		return false
	}
	_, ok := c.hidden[id]
	return ok
}

// applyGlobalFilters walks the whole model once and records the roots of
// rejected subtrees. Descendants of a hidden node are never reached, so only
// the root needs recording.
func (c *Cursor) applyGlobalFilters() {
	if len(c.q.globals) == 0 {
		return
	}
	c.hidden = make(map[ast.NodeID]struct{})
	for _, item := range c.items {
		c.m.Walk(item, func(id ast.NodeID) bool {
			for _, pred := range c.q.globals {
				if !pred(c.m, id) {
					c.hidden[id] = struct{}{}
					return false
				}
			}
			return true
		})
	}
}
