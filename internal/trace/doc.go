// Package trace is the structured event log of a lint run.
//
// Events are spans (begin/end pairs) and points, tagged with a Scope that
// tells how fine-grained they are. A Level selects which scopes are kept.
//
//	t, _ := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeStream, OutputPath: "-"})
//	ctx = trace.WithTracer(ctx, t)
//
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lint", 0)
//	defer span.End("")
//
// Scopes, coarse to fine:
//
//   - ScopeDriver: CLI command boundaries
//   - ScopePass: loading, cache warm-up, rule execution
//   - ScopeRule: one rule or one derived view
//   - ScopeQuery: individual query scans
//
// Implementations: Nop (disabled), StreamTracer (immediate write), RingTracer
// (keeps the last N events, used for crash dumps and tests) and MultiTracer.
package trace
