package diag

// DedupReporter wraps another Reporter and suppresses findings that repeat
// an already forwarded rule+file+region.
type DedupReporter struct {
	next Reporter
	seen map[findingKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[findingKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	k := d.key()
	if _, ok := r.seen[k]; ok {
		return
	}
	r.seen[k] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
