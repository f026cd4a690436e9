// Package diag defines the findings produced by lint rules.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Rule: stable numeric id plus kebab-case name of the producing rule.
//   - Severity: Info, Warning or Error.
//   - Message: short, actionable text.
//   - File and Region: where the finding points. A Region is None,
//     SingleLine (line, start column, optional end column) or MultiLine
//     (start line, end line).
//   - Subs: nested sub-findings pointing at supporting locations
//     ("assigned here", "constrained here").
//
// Two diagnostics are the same finding when rule, file and region match; the
// message does not take part. Bag.Dedup and DedupReporter both honour this.
//
// # Emitting diagnostics
//
// Rules receive a Reporter and build findings with ReportWarning (or
// NewReportBuilder), chaining WithSub before Emit. BagReporter collects them
// into a Bag which supports limits, sorting, merging and deduplication.
//
// Package diag does no IO. Rendering lives in internal/diagfmt.
package diag
