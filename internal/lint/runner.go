package lint

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"mznlint/internal/diag"
	"mznlint/internal/observ"
	"mznlint/internal/trace"
)

// RuleError is a rule that panicked. Findings reported before the panic are kept.
type RuleError struct {
	Rule  diag.RuleRef
	Value any
	Stack []byte
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s (%d) failed: %v", e.Rule.Name, e.Rule.ID, e.Value)
}

// Result is the outcome of one lint pass.
type Result struct {
	Bag    *diag.Bag
	Failed []*RuleError
}

// Runner executes a set of rules against one cache.
type Runner struct {
	rules          []Rule
	maxDiagnostics int
	jobs           int
	timer          *observ.Timer
}

type RunnerOption func(*Runner)

// WithMaxDiagnostics caps the merged result; 0 means unlimited.
func WithMaxDiagnostics(n int) RunnerOption {
	return func(r *Runner) { r.maxDiagnostics = n }
}

// WithJobs bounds the number of rules running at once.
func WithJobs(n int) RunnerOption {
	return func(r *Runner) { r.jobs = n }
}

// WithTimer records a phase per rule.
func WithTimer(t *observ.Timer) RunnerOption {
	return func(r *Runner) { r.timer = t }
}

func NewRunner(rules []Rule, opts ...RunnerOption) *Runner {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })
	r := &Runner{rules: sorted}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Rules() []Rule { return r.rules }

// Run warms the cache, runs every rule into its own bag and merges the bags
// in rule id order. The merged bag is sorted and deduplicated.
func (r *Runner) Run(ctx context.Context, cache *Cache) (*Result, error) {
	tracer := trace.FromContext(ctx)
	pass := trace.Begin(tracer, trace.ScopePass, "lint", 0)
	defer pass.End("")

	warm := r.timer.Begin("warm")
	cache.Warm()
	r.timer.End(warm, "")

	bags := make([]*diag.Bag, len(r.rules))
	failures := make([]*RuleError, len(r.rules))

	jobs := r.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(r.rules))))

	for i, rule := range r.rules {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			bag := diag.NewBag(0)
			bags[i] = bag
			span := trace.Begin(tracer, trace.ScopeRule, "rule:"+rule.Name(), pass.ID())
			phase := r.timer.Begin("rule:" + rule.Name())
			failures[i] = runIsolated(rule, cache, diag.BagReporter{Bag: bag})
			r.timer.End(phase, strconv.Itoa(bag.Len())+" findings")
			if failures[i] != nil {
				span.WithExtra("panic", fmt.Sprint(failures[i].Value))
			}
			span.WithExtra("findings", strconv.Itoa(bag.Len())).End("")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Bag: diag.NewBag(0)}
	for i := range r.rules {
		res.Bag.Merge(bags[i])
		if failures[i] != nil {
			res.Failed = append(res.Failed, failures[i])
		}
	}
	res.Bag.Sort()
	res.Bag.Dedup()
	if r.maxDiagnostics > 0 && res.Bag.Len() > r.maxDiagnostics {
		capped := diag.NewBag(r.maxDiagnostics)
		capped.Merge(res.Bag)
		res.Bag = capped
	}
	pass.WithExtra("findings", strconv.Itoa(res.Bag.Len()))
	return res, nil
}

func runIsolated(rule Rule, cache *Cache, rep diag.Reporter) (failure *RuleError) {
	defer func() {
		if v := recover(); v != nil {
			failure = &RuleError{Rule: RefOf(rule), Value: v, Stack: debug.Stack()}
		}
	}()
	rule.Run(cache, rep)
	return nil
}
