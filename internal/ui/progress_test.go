package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"mznlint/internal/pipeline"
)

func TestProgressModel_AppliesEvents(t *testing.T) {
	files := []string{"a.mznast", "b.mznast", "c.mznast"}
	m := NewProgressModel("mznlint", files, nil).(*progressModel)

	steps := []pipeline.Event{
		{File: "a.mznast", Stage: pipeline.StageLint, Status: pipeline.StatusWorking},
		{File: "b.mznast", Stage: pipeline.StageLint, Status: pipeline.StatusDone, Findings: 2},
		{File: "c.mznast", Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: errors.New("boom")},
		{File: "unknown.mznast", Status: pipeline.StatusWorking},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}

	if m.items[0].status != "linting" || m.items[0].finished {
		t.Errorf("a: unexpected item %+v", m.items[0])
	}
	if m.items[1].status != "done" || m.items[1].findings != 2 {
		t.Errorf("b: unexpected item %+v", m.items[1])
	}
	if m.items[2].status != "error" || !m.items[2].finished {
		t.Errorf("c: unexpected item %+v", m.items[2])
	}
	want := (0.7 + 1 + 1) / 3
	if got := m.percent(); got < want-1e-9 || got > want+1e-9 {
		t.Errorf("percent = %f, want %f", got, want)
	}

	view := m.View()
	for _, s := range []string{"linting", "2 findings", "error", "c.mznast"} {
		if !strings.Contains(view, s) {
			t.Errorf("view is missing %q:\n%s", s, view)
		}
	}
}

func TestProgressModel_Done(t *testing.T) {
	ch := make(chan pipeline.Event)
	close(ch)
	m := NewProgressModel("mznlint", []string{"a.mznast"}, ch).(*progressModel)
	m.Update(eventMsg(pipeline.Event{Stage: pipeline.StageLint, Status: pipeline.StatusDone, Findings: 5}))

	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("closed channel should produce doneMsg, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil || !m.done {
		t.Fatalf("model should quit after the channel closes")
	}
	if view := m.View(); !strings.Contains(view, "done: mznlint (5 findings)") {
		t.Errorf("unexpected header:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"models/very/long/path.mznast", 10, "mode..."},
		{"abcdef", 3, "abc"},
		{"модель.mznast", 8, "мо..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is too wide", tt.in, tt.width)
		}
	}
}
