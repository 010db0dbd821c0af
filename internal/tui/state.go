package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sant0-9/forge/internal/agent"
	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/dialog"
	"github.com/sant0-9/forge/internal/llm"
)

// chatEntry is one rendered line group in the conversation. Delivered
// prompts keep the full action so the view can box the body and show the
// quality annotations.
type chatEntry struct {
	role    string
	text    string
	deliver *agent.Deliver
}

type state struct {
	// Config
	config     *config.Config
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model

	// Chat
	input          textinput.Model
	entries        []chatEntry
	conversationID string
	statusNote     string

	// A turn is in flight; results carry the sequence they belong to and
	// stale ones are dropped.
	pending      bool
	turnSeq      int
	spinnerFrame int

	// Clarification dialog
	session       *dialog.Session
	questionIntro string
	questionIdx   int
	optionIdx     int

	// Settings
	settingsMode     string
	settingsSelected int

	// Provider
	provider      llm.Provider
	providerReady bool
	providerError error

	// Last error shown in the error view
	lastError       error
	lastErrorRegion bool
}

func newState() *state {
	input := textinput.New()
	input.Placeholder = "Describe the prompt you need..."
	input.CharLimit = 2000
	input.Width = 60

	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	return &state{
		input:       input,
		apiKeyInput: apiKey,
		session:     dialog.New(),
	}
}
