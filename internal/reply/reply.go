package reply

// Markers the assistant is instructed to emit around structured blocks.
const (
	PromptOpen     = "[PROMPT]"
	PromptClose    = "[/PROMPT]"
	QuestionsOpen  = "[QUESTIONS]"
	QuestionsClose = "[/QUESTIONS]"
)

// SkipOption is injected when a question arrives without any options,
// so the question is always answerable.
const SkipOption = "Skip"

// Kind tags the variant of a parsed Directive.
type Kind int

const (
	// KindPlainText means no recognizable structure was found; the whole
	// reply lives in Intro.
	KindPlainText Kind = iota

	// KindFinishedPrompt means a prompt block was extracted into Body.
	KindFinishedPrompt

	// KindClarification means a questions block was extracted.
	KindClarification
)

// Directive is the structured outcome of parsing a free-text model reply.
type Directive struct {
	Kind Kind

	// Intro is commentary before the block (or the whole reply for
	// KindPlainText).
	Intro string

	// Body is the extracted prompt text. Only set for KindFinishedPrompt,
	// and may still be empty when the block itself was empty; callers must
	// check before treating it as actionable.
	Body string

	// Outro is commentary after the close marker.
	Outro string

	// Questions is set for KindClarification.
	Questions []Question
}

// Question is a single clarification question with its selectable options.
// Options is never empty: an option-less question gets SkipOption.
type Question struct {
	Text    string
	Options []string
}
