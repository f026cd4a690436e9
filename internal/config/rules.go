package config

import (
	"fmt"

	"github.com/coregx/coregex"

	"mznlint/internal/lint"
)

// RuleFilter selects rules by name using regular expressions.
type RuleFilter struct {
	enable  []*coregex.Regexp
	disable []*coregex.Regexp
}

// NewRuleFilter compiles enable/disable patterns. An empty enable list
// enables every rule. Patterns are anchored to the whole rule name.
func NewRuleFilter(enable, disable []string) (*RuleFilter, error) {
	f := &RuleFilter{}
	var err error
	if f.enable, err = compileAll("enable", enable); err != nil {
		return nil, err
	}
	if f.disable, err = compileAll("disable", disable); err != nil {
		return nil, err
	}
	return f, nil
}

func compileAll(key string, patterns []string) ([]*coregex.Regexp, error) {
	out := make([]*coregex.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := coregex.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("[lint].%s: invalid pattern %q: %w", key, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchAny(res []*coregex.Regexp, name string) bool {
	for _, re := range res {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Enabled reports whether a rule name passes the filter.
func (f *RuleFilter) Enabled(name string) bool {
	if f == nil {
		return true
	}
	if len(f.enable) > 0 && !matchAny(f.enable, name) {
		return false
	}
	return !matchAny(f.disable, name)
}

// Select keeps the enabled rules, preserving order.
func (f *RuleFilter) Select(rules []lint.Rule) []lint.Rule {
	out := make([]lint.Rule, 0, len(rules))
	for _, r := range rules {
		if f.Enabled(r.Name()) {
			out = append(out, r)
		}
	}
	return out
}

// RuleFilter compiles the configured enable/disable lists.
func (c *Config) RuleFilter() (*RuleFilter, error) {
	return NewRuleFilter(c.Lint.Enable, c.Lint.Disable)
}
