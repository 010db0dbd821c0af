package dialog

import (
	"strings"
	"testing"

	"github.com/sant0-9/forge/internal/reply"
)

func twoQuestions() []reply.Question {
	return []reply.Question{
		{Text: "Target audience?", Options: []string{"beginners", "experts"}},
		{Text: "Desired tone?", Options: []string{reply.SkipOption}},
	}
}

func TestStartActivates(t *testing.T) {
	s := New()
	if s.Active() {
		t.Fatal("new session should be inactive")
	}
	s.Start("original", twoQuestions(), "openrouter", "")
	if !s.Active() {
		t.Fatal("session should be awaiting answers after Start")
	}
}

func TestToggleOptionIsItsOwnInverse(t *testing.T) {
	s := New()
	s.Start("original", twoQuestions(), "openrouter", "")

	s.ToggleOption(0, 1)
	if !s.Selected(0, 1) {
		t.Fatal("option should be selected after first toggle")
	}
	s.ToggleOption(0, 1)
	if s.Selected(0, 1) {
		t.Fatal("option should be deselected after second toggle")
	}

	out := s.Finish()
	if !strings.Contains(out, "1. Target audience?: "+NotSpecified) {
		t.Errorf("Finish output = %q, want question 1 rendered as %q", out, NotSpecified)
	}
}

func TestToggleOptionMultiSelect(t *testing.T) {
	s := New()
	s.Start("original", twoQuestions(), "openrouter", "")
	s.ToggleOption(0, 0)
	s.ToggleOption(0, 1)

	out := s.Finish()
	if !strings.Contains(out, "Target audience?: beginners, experts") {
		t.Errorf("Finish output = %q, want both options joined", out)
	}
}

func TestToggleOptionOutOfRangeIsNoOp(t *testing.T) {
	s := New()
	s.Start("original", twoQuestions(), "openrouter", "")

	// Stale callbacks reference questions that no longer exist.
	s.ToggleOption(5, 0)
	s.ToggleOption(-1, 0)
	s.ToggleOption(0, 9)

	if !s.Active() {
		t.Fatal("out-of-range toggles should not change phase")
	}
	for q := 0; q < 2; q++ {
		for o := 0; o < 2; o++ {
			if s.Selected(q, o) {
				t.Errorf("option (%d,%d) unexpectedly selected", q, o)
			}
		}
	}
}

func TestFinishWithNoAnswers(t *testing.T) {
	s := New()
	s.Start("original", twoQuestions(), "openrouter", "")

	out := s.Finish()
	if s.Active() {
		t.Fatal("session should be inactive after Finish")
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, NotSpecified) {
			t.Errorf("line %q should end with %q", line, NotSpecified)
		}
	}
}

func TestFinishOrderingAndNumbering(t *testing.T) {
	s := New()
	s.Start("original", twoQuestions(), "openrouter", "")
	s.ToggleOption(1, 0)

	out := s.Finish()
	want := "1. Target audience?: " + NotSpecified + "\n2. Desired tone?: " + reply.SkipOption
	if out != want {
		t.Errorf("Finish output = %q, want %q", out, want)
	}
}

func TestSkipAllAndAbandon(t *testing.T) {
	s := New()
	s.Start("original", twoQuestions(), "openrouter", "")
	s.SkipAll()
	if s.Active() {
		t.Fatal("session should be inactive after SkipAll")
	}
	if s.OriginalRequest != "original" {
		t.Error("SkipAll should keep the original request for the follow-up")
	}

	s.Start("second", twoQuestions(), "openrouter", "")
	s.ToggleOption(0, 0)
	s.Abandon()
	if s.Active() {
		t.Fatal("session should be inactive after Abandon")
	}

	// Restarting after abandon begins with a clean answer set.
	s.Start("third", twoQuestions(), "openrouter", "")
	if s.Selected(0, 0) {
		t.Error("answers should not survive Abandon/Start")
	}
}

func TestToggleWhenInactiveIsNoOp(t *testing.T) {
	s := New()
	s.ToggleOption(0, 0)
	if s.Active() {
		t.Fatal("toggle on inactive session must not activate it")
	}
}
