package lint

import (
	"fmt"
	"sort"
	"sync"

	"mznlint/internal/diag"
)

// Category groups rules by the kind of problem they report.
type Category uint8

const (
	CategoryRedundant Category = iota + 1
	CategoryPerformance
)

func (c Category) String() string {
	switch c {
	case CategoryRedundant:
		return "redundant"
	case CategoryPerformance:
		return "performance"
	}
	return "unknown"
}

// Rule inspects a model through the cache and reports findings. Run must not
// modify the model or the cache views it reads.
type Rule interface {
	ID() uint16
	Name() string
	Category() Category
	Run(c *Cache, r diag.Reporter)
}

// RefOf returns the identity recorded in r's diagnostics.
func RefOf(r Rule) diag.RuleRef {
	return diag.RuleRef{ID: r.ID(), Name: r.Name()}
}

var (
	registryMu sync.RWMutex
	registry   = make(map[uint16]Rule)
)

// Register adds r to the global rule set. Duplicate ids or names panic.
func Register(r Rule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if prev, ok := registry[r.ID()]; ok {
		panic(fmt.Sprintf("lint: rule id %d registered twice (%s, %s)", r.ID(), prev.Name(), r.Name()))
	}
	for _, other := range registry {
		if other.Name() == r.Name() {
			panic(fmt.Sprintf("lint: rule name %q registered twice", r.Name()))
		}
	}
	registry[r.ID()] = r
}

// All returns the registered rules ordered by id.
func All() []Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Lookup finds a registered rule by name.
func Lookup(name string) (Rule, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, r := range registry {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}
