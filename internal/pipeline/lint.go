// Package pipeline lints a batch of model snapshots and reports per-file progress.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"mznlint/internal/ast"
	"mznlint/internal/lint"
	"mznlint/internal/modelio"
	"mznlint/internal/observ"
	"mznlint/internal/source"
	"mznlint/internal/trace"
)

// Request configures a lint run over several snapshot files.
type Request struct {
	Files          []string
	Rules          []lint.Rule
	Classifier     *source.Classifier
	MaxDiagnostics int
	// FileJobs bounds how many files are linted at once, RuleJobs how many
	// rules run at once within a file. 0 means GOMAXPROCS.
	FileJobs int
	RuleJobs int
	Progress ProgressSink
	Timer    *observ.Timer

	// load is replaced in tests.
	load func(path string) (*ast.Model, error)
}

// FileResult is the outcome for one snapshot. Err is set when the snapshot
// could not be loaded; Lint is nil in that case.
type FileResult struct {
	Path    string
	Model   *ast.Model
	Lint    *lint.Result
	Err     error
	Timings Timings
}

type Result struct {
	Files []FileResult
}

// Findings counts diagnostics across all files.
func (r Result) Findings() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Lint != nil {
			n += r.Files[i].Lint.Bag.Len()
		}
	}
	return n
}

// Failed collects rule panics across all files.
func (r Result) Failed() []*lint.RuleError {
	var out []*lint.RuleError
	for i := range r.Files {
		if r.Files[i].Lint != nil {
			out = append(out, r.Files[i].Lint.Failed...)
		}
	}
	return out
}

// Err joins the load errors of all files.
func (r Result) Err() error {
	var errs []error
	for i := range r.Files {
		if r.Files[i].Err != nil {
			errs = append(errs, r.Files[i].Err)
		}
	}
	return errors.Join(errs...)
}

// Lint loads every file of req and runs the rules on it. A file that fails
// to load is reported in its FileResult and does not stop the others; the
// returned error is only set for a bad request or a cancelled context.
func Lint(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing lint request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no model files given")
	}
	load := req.load
	if load == nil {
		load = modelio.ReadFile
	}

	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "pipeline", 0)
	run.WithExtra("files", strconv.Itoa(len(req.Files)))
	defer run.End("")

	emitQueued(req.Progress, req.Files)

	jobs := req.FileJobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	result.Files = make([]FileResult, len(req.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Files))))
	for i, path := range req.Files {
		g.Go(func() error {
			res, err := lintFile(gctx, req, load, path, run.ID())
			result.Files[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	emit(req.Progress, Event{Stage: StageLint, Status: StatusDone, Findings: result.Findings()})
	return result, nil
}

func lintFile(ctx context.Context, req *Request, load func(string) (*ast.Model, error), path string, parent uint64) (FileResult, error) {
	res := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "file", parent)
	defer span.End(path)

	stage := func(st Stage, fn func() error) error {
		emit(req.Progress, Event{File: path, Stage: st, Status: StatusWorking})
		phase := req.Timer.Begin(string(st) + ":" + path)
		start := time.Now()
		err := fn()
		elapsed := time.Since(start)
		req.Timer.End(phase, "")
		res.Timings.Set(st, elapsed)
		if err != nil {
			emit(req.Progress, Event{File: path, Stage: st, Status: StatusError, Err: err, Elapsed: elapsed})
		}
		return err
	}

	if err := stage(StageLoad, func() error {
		m, err := load(path)
		res.Model = m
		return err
	}); err != nil {
		res.Err = err
		span.WithExtra("error", err.Error())
		return res, nil
	}

	cache := lint.NewCache(res.Model, req.Classifier, lint.WithTracer(tracer, span.ID()))
	_ = stage(StageAnalyze, func() error {
		cache.Warm()
		return nil
	})

	if err := stage(StageLint, func() error {
		runner := lint.NewRunner(req.Rules,
			lint.WithMaxDiagnostics(req.MaxDiagnostics),
			lint.WithJobs(req.RuleJobs),
			lint.WithTimer(req.Timer),
		)
		out, err := runner.Run(ctx, cache)
		res.Lint = out
		return err
	}); err != nil {
		return res, err
	}

	findings := res.Lint.Bag.Len()
	span.WithExtra("findings", strconv.Itoa(findings))
	emit(req.Progress, Event{
		File:     path,
		Stage:    StageLint,
		Status:   StatusDone,
		Findings: findings,
		Elapsed:  res.Timings.Sum(StageLoad, StageAnalyze, StageLint),
	})
	return res, nil
}
