package diag

import "strings"

// Severity ranks a finding. Built-in rules report warnings; sub-findings
// carry no severity of their own.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case name printed in text output, e.g. "warning".
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}
