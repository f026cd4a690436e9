package diagfmt

import (
	"mznlint/internal/diag"
	"mznlint/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths under BaseDir relative to it and others as stored.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// Unit is the findings of one model together with the files they point into.
type Unit struct {
	Bag   *diag.Bag
	Files *source.FileSet
}

// TextOpts configures the human-readable output.
type TextOpts struct {
	Color      bool
	PathMode   PathMode
	BaseDir    string
	ShowSubs   bool
	ShowSource bool // печатать строку исходника с подчёркиванием, если контент есть
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode    PathMode
	BaseDir     string
	Max         int // обрезка вывода, не Bag
	IncludeSubs bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	Rules          []diag.RuleRef
	PathMode       PathMode
	BaseDir        string
}
