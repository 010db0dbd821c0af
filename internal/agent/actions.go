package agent

import "github.com/sant0-9/forge/internal/reply"

// Action is the structured outcome of one agent turn. The UI switches on
// the concrete type.
type Action interface {
	isAction()
}

// AskQuestions opens the clarification dialog.
type AskQuestions struct {
	Intro     string
	Questions []reply.Question
}

// Deliver carries a refined prompt and its quality annotations. When the
// reply had no usable prompt block, Body is empty and Intro holds the whole
// reply text. Raw is the unparsed reply, kept so callers can persist the
// assistant turn with its markers intact; Request is the user-side content
// this reply answers (the plain message, or the rendered answers when a
// dialog was resolved), persisted alongside it.
type Deliver struct {
	Intro       string
	Body        string
	Outro       string
	Annotations []string
	Raw         string
	Request     string
}

// Fail reports a provider failure. RegionOrAvailability marks errors where
// switching providers is the useful advice.
type Fail struct {
	Err                  error
	RegionOrAvailability bool
}

func (AskQuestions) isAction() {}
func (Deliver) isAction()      {}
func (Fail) isAction()         {}
