package diag

import (
	"cmp"
	"slices"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	hint := max
	if hint <= 0 || hint > 64 {
		hint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, hint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag, соблюдая лимит.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		if !b.Add(d) {
			return
		}
	}
}

// Sort сортирует диагностики по: file, region, rule id, message
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.File, y.File),
			cmp.Compare(x.Region.StartLine, y.Region.StartLine),
			cmp.Compare(x.Region.StartCol, y.Region.StartCol),
			cmp.Compare(x.Region.EndLine, y.Region.EndLine),
			cmp.Compare(x.Region.EndCol, y.Region.EndCol),
			cmp.Compare(x.Rule.ID, y.Rule.ID),
			cmp.Compare(x.Message, y.Message),
		)
	})
}

// Dedup оставляет первую диагностику для каждой пары rule+file+region.
func (b *Bag) Dedup() {
	seen := make(map[findingKey]struct{}, len(b.items))
	out := b.items[:0]
	for i := range b.items {
		k := b.items[i].key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, b.items[i])
	}
	clear(b.items[len(out):])
	b.items = out
}
