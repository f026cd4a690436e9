package diag

import (
	"mznlint/internal/source"
)

// RuleRef identifies the rule that produced a finding.
type RuleRef struct {
	ID   uint16
	Name string
}

// Sub is a supporting location attached to a finding.
type Sub struct {
	File    source.FileID
	Region  Region
	Message string
}

type Diagnostic struct {
	Rule     RuleRef
	Severity Severity
	Message  string
	File     source.FileID
	Region   Region
	Subs     []Sub
}

// New builds a diagnostic located at sp.
func New(rule RuleRef, sev Severity, sp source.Span, msg string) Diagnostic {
	return Diagnostic{
		Rule:     rule,
		Severity: sev,
		Message:  msg,
		File:     sp.File,
		Region:   RegionOf(sp),
	}
}

func (d Diagnostic) WithSub(sp source.Span, msg string) Diagnostic {
	d.Subs = append(d.Subs, Sub{File: sp.File, Region: RegionOf(sp), Message: msg})
	return d
}

type findingKey struct {
	rule   uint16
	file   source.FileID
	region Region
}

func (d *Diagnostic) key() findingKey {
	return findingKey{rule: d.Rule.ID, file: d.File, region: d.Region}
}

// SameFinding reports whether a and b are duplicates: same rule, file and
// region, regardless of message text.
func SameFinding(a, b *Diagnostic) bool {
	return a.key() == b.key()
}
