package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimer_ConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for _, name := range []string{"rule:a", "rule:b", "rule:c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := tm.Begin(name)
			tm.End(idx, "ok")
		}()
	}
	wg.Wait()

	report := tm.Report()
	if len(report.Phases) != 3 {
		t.Fatalf("got %d phases, want 3", len(report.Phases))
	}
	for _, p := range report.Phases {
		if p.Note != "ok" {
			t.Errorf("phase %s note = %q", p.Name, p.Note)
		}
	}
	if !strings.Contains(tm.Summary(), "total") {
		t.Error("summary lacks total line")
	}
}

func TestTimer_NilIsSafe(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Errorf("nil timer reported %d phases", len(r.Phases))
	}
}
