// Package dialog tracks an in-progress clarification exchange: the questions
// the assistant asked, and which options the user has picked so far. A
// Session is owned by exactly one conversation and passed around explicitly,
// which keeps the state machine testable and safe with several conversations
// in one process.
package dialog

import (
	"fmt"
	"strings"

	"github.com/sant0-9/forge/internal/reply"
)

// NotSpecified is rendered for questions the user left unanswered.
const NotSpecified = "not specified"

// Phase is the lifecycle state of a Session.
type Phase int

const (
	Inactive Phase = iota
	AwaitingAnswers
)

// Session is the per-conversation question/answer state.
type Session struct {
	phase Phase

	// OriginalRequest is the user text that triggered the questions.
	OriginalRequest string

	// Questions in the order the assistant asked them.
	Questions []reply.Question

	// Provider and Preferences capture the configuration the dialog was
	// opened under. The follow-up request is framed with the captured
	// preferences, and a provider change mid-dialog is detectable.
	Provider    string
	Preferences string

	// answers maps question index to the set of selected option indices.
	answers map[int]map[int]bool
}

// New returns an inactive session.
func New() *Session {
	return &Session{}
}

// Active reports whether the session is waiting for answers.
func (s *Session) Active() bool {
	return s.phase == AwaitingAnswers
}

// Start moves the session into AwaitingAnswers with a fresh answer map.
// Any prior in-progress dialog is implicitly abandoned.
func (s *Session) Start(originalRequest string, questions []reply.Question, provider, preferences string) {
	s.phase = AwaitingAnswers
	s.OriginalRequest = originalRequest
	s.Questions = questions
	s.Provider = provider
	s.Preferences = preferences
	s.answers = make(map[int]map[int]bool)
}

// ToggleOption flips the selection of one option for one question. Multiple
// options may be selected per question. An out-of-range question index is a
// no-op: it guards against stale UI callbacks after the question set
// changed, and is never an error.
func (s *Session) ToggleOption(question, option int) {
	if s.phase != AwaitingAnswers {
		return
	}
	if question < 0 || question >= len(s.Questions) {
		return
	}
	if option < 0 || option >= len(s.Questions[question].Options) {
		return
	}
	set := s.answers[question]
	if set == nil {
		set = make(map[int]bool)
		s.answers[question] = set
	}
	if set[option] {
		delete(set, option)
	} else {
		set[option] = true
	}
}

// Selected reports whether an option is currently picked.
func (s *Session) Selected(question, option int) bool {
	return s.answers[question][option]
}

// Finish renders every question with its chosen option text and returns the
// session to Inactive. Questions with no selection render NotSpecified.
func (s *Session) Finish() string {
	var b strings.Builder
	for i, q := range s.Questions {
		var chosen []string
		for j, opt := range q.Options {
			if s.answers[i][j] {
				chosen = append(chosen, opt)
			}
		}
		answer := NotSpecified
		if len(chosen) > 0 {
			answer = strings.Join(chosen, ", ")
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, q.Text, answer)
	}
	s.reset()
	return strings.TrimRight(b.String(), "\n")
}

// SkipAll abandons the answers without consuming them. The caller is
// expected to request a directive from the original request alone.
func (s *Session) SkipAll() {
	s.reset()
}

// Abandon discards the dialog entirely, e.g. when the user typed a new
// free-text message instead of answering.
func (s *Session) Abandon() {
	s.reset()
}

func (s *Session) reset() {
	s.phase = Inactive
	s.answers = nil
}
