// Package tui is the interactive terminal front end. It owns all rendering
// and key handling; refinement turns run as bubbletea commands against the
// agent, and results are matched to a turn sequence number so a superseded
// turn can never overwrite a newer one.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/sant0-9/forge/internal/agent"
	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/llm"
	"github.com/sant0-9/forge/internal/reply"
	"github.com/sant0-9/forge/internal/store"
)

type view int

const (
	viewWelcome view = iota
	viewSetup
	viewChat
	viewQuestions
	viewSettings
	viewHelp
	viewError
)

const turnTimeout = 120 * time.Second

type App struct {
	width    int
	height   int
	view     view
	state    *state
	quitting bool

	store *store.Store
	agent *agent.Agent
	log   *logrus.Logger

	// history mirrors the stored conversation for request framing.
	history []llm.Message
}

func NewApp(cfg *config.Config, st *store.Store, log *logrus.Logger) *App {
	s := newState()

	if cfg == nil {
		s.needsSetup = true
		s.config = config.DefaultConfig()
	} else {
		s.config = cfg
	}

	return &App{
		view:  viewWelcome,
		state: s,
		store: st,
		log:   log,
	}
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	return tea.Batch(
		tea.WindowSize(),
		textinput.Blink,
		a.testProvider(),
		a.loadConversation(),
	)
}

func (a *App) testProvider() tea.Cmd {
	return func() tea.Msg {
		provider, err := llm.NewProvider(a.state.config)
		if err != nil {
			return providerErrorMsg{err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			return providerErrorMsg{err}
		}

		return providerReadyMsg{provider}
	}
}

// loadConversation resumes the active conversation or starts a new one.
func (a *App) loadConversation() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		id, err := a.store.GetSetting(ctx, "active_conversation")
		if err != nil {
			return conversationErrorMsg{err}
		}
		if id == "" {
			id, err = a.store.NewConversation(ctx)
			if err != nil {
				return conversationErrorMsg{err}
			}
			if err := a.store.SetSetting(ctx, "active_conversation", id); err != nil {
				return conversationErrorMsg{err}
			}
		}

		messages, err := a.store.History(ctx, id)
		if err != nil {
			return conversationErrorMsg{err}
		}
		return conversationReadyMsg{id: id, messages: messages}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := a.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewWelcome
		return a, tea.Batch(a.testProvider(), a.loadConversation())

	case setupErrorMsg:
		a.state.lastError = msg.error
		a.view = viewError
		return a, nil

	case providerReadyMsg:
		a.state.provider = msg.provider
		a.state.providerReady = true
		a.state.providerError = nil
		a.agent = agent.New(msg.provider, a.state.config, a.log)
		a.state.input.Focus()
		return a, textinput.Blink

	case providerErrorMsg:
		a.state.providerError = msg.error
		return a, nil

	case conversationReadyMsg:
		a.state.conversationID = msg.id
		a.restoreHistory(msg.messages)
		if len(a.state.entries) > 0 {
			a.view = viewChat
		}
		return a, nil

	case conversationErrorMsg:
		a.state.lastError = msg.error
		a.view = viewError
		return a, nil

	case historyClearedMsg:
		a.state.entries = nil
		a.history = nil
		a.state.statusNote = msg.note
		a.view = viewChat
		return a, nil

	case turnResultMsg:
		return a, a.handleTurnResult(msg)

	case spinnerTickMsg:
		if a.state.pending {
			a.state.spinnerFrame++
			return a, spinnerTick()
		}
		return a, nil
	}

	// Update text inputs based on view
	if a.view == viewSetup && a.state.setupStep == 1 || a.view == viewSettings && a.state.settingsMode == "apikey" {
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if a.view == viewWelcome || a.view == viewChat {
		var cmd tea.Cmd
		a.state.input, cmd = a.state.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// restoreHistory rebuilds the display entries and the framing history from
// stored messages.
func (a *App) restoreHistory(messages []store.Message) {
	a.state.entries = nil
	a.history = nil
	for _, m := range messages {
		a.history = append(a.history, llm.Message{Role: m.Role, Content: m.Content})
		if m.Role == llm.RoleUser {
			a.state.entries = append(a.state.entries, chatEntry{role: m.Role, text: m.Content})
			continue
		}
		d := reply.Parse(m.Content)
		if d.Kind == reply.KindFinishedPrompt && d.Body != "" {
			a.state.entries = append(a.state.entries, chatEntry{
				role:    m.Role,
				deliver: &agent.Deliver{Intro: d.Intro, Body: d.Body, Outro: d.Outro, Raw: m.Content},
			})
		} else {
			a.state.entries = append(a.state.entries, chatEntry{role: m.Role, text: d.Intro})
		}
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		switch a.view {
		case viewSettings:
			if a.state.settingsMode != "" {
				a.state.settingsMode = ""
				return nil
			}
			a.view = viewChat
			return nil
		case viewHelp, viewError:
			a.view = viewChat
			return nil
		case viewQuestions:
			a.state.session.Abandon()
			a.state.statusNote = "Questions dismissed."
			a.view = viewChat
			return nil
		case viewSetup:
			if a.state.setupStep == 1 {
				a.state.setupStep = 0
				a.state.apiKeyInput.Reset()
				return nil
			}
		}
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, keys.Enter):
		switch a.view {
		case viewWelcome, viewChat:
			if a.state.providerReady {
				return a.submitInput()
			}
			return nil
		case viewQuestions:
			return a.resolveQuestions()
		}
	}

	// View-specific handling
	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewQuestions:
		return a.handleQuestionsKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	}

	return nil
}

func (a *App) submitInput() tea.Cmd {
	input := strings.TrimSpace(a.state.input.Value())
	if input == "" || a.state.pending {
		return nil
	}

	// Handle slash commands
	if strings.HasPrefix(input, "/") {
		cmd := strings.ToLower(input)
		a.state.input.Reset()
		switch {
		case cmd == "/help" || cmd == "/h":
			a.view = viewHelp
			return nil
		case cmd == "/settings" || cmd == "/s":
			a.view = viewSettings
			a.state.settingsMode = ""
			return nil
		case cmd == "/accept" || cmd == "/a":
			return a.acceptPrompt()
		case cmd == "/new" || cmd == "/n":
			return a.clearHistory("New conversation started.")
		case cmd == "/quit" || cmd == "/q":
			a.quitting = true
			return tea.Quit
		}
		a.state.statusNote = "Unknown command: " + input
		return nil
	}

	// A new free-text message abandons a pending question dialog.
	if a.state.session.Active() {
		a.state.session.Abandon()
	}

	a.state.entries = append(a.state.entries, chatEntry{role: llm.RoleUser, text: input})
	a.state.input.Reset()
	a.state.statusNote = ""
	a.view = viewChat

	history := make([]llm.Message, len(a.history))
	copy(history, a.history)

	a.state.pending = true
	a.state.turnSeq++
	return tea.Batch(a.runTurn(a.state.turnSeq, input, history), spinnerTick())
}

// runTurn executes one refinement turn.
func (a *App) runTurn(seq int, input string, history []llm.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		var action agent.Action
		if a.state.config.Mode == config.ModeSimple {
			action = a.agent.Refine(ctx, input)
		} else {
			action = a.agent.HandleTurn(ctx, input, history, a.state.session)
		}
		a.persistDeliver(ctx, action)
		return turnResultMsg{seq: seq, action: action}
	}
}

// persistDeliver stores the user and assistant messages of a delivered
// turn together. Question-opening and failed turns leave no trace in
// history, so abandoned dialogs never pollute the baseline scan.
func (a *App) persistDeliver(ctx context.Context, action agent.Action) {
	d, ok := action.(agent.Deliver)
	if !ok || d.Raw == "" {
		return
	}
	if err := a.store.AppendMessage(ctx, a.state.conversationID, llm.RoleUser, d.Request); err != nil {
		a.log.WithError(err).Warn("persist user message")
	}
	if err := a.store.AppendMessage(ctx, a.state.conversationID, llm.RoleAssistant, d.Raw); err != nil {
		a.log.WithError(err).Warn("persist assistant message")
	}
}

func (a *App) handleTurnResult(msg turnResultMsg) tea.Cmd {
	if msg.seq != a.state.turnSeq {
		// Superseded turn; a newer one owns the screen.
		return nil
	}
	a.state.pending = false

	switch act := msg.action.(type) {
	case agent.AskQuestions:
		a.state.questionIntro = act.Intro
		a.state.questionIdx = 0
		a.state.optionIdx = 0
		a.view = viewQuestions

	case agent.Deliver:
		entry := chatEntry{role: llm.RoleAssistant, text: act.Intro}
		if act.Body != "" {
			entry.text = ""
			entry.deliver = &act
		}
		a.state.entries = append(a.state.entries, entry)
		if act.Raw != "" {
			a.history = append(a.history,
				llm.Message{Role: llm.RoleUser, Content: act.Request},
				llm.Message{Role: llm.RoleAssistant, Content: act.Raw})
		}
		a.view = viewChat

	case agent.Fail:
		a.state.lastError = act.Err
		a.state.lastErrorRegion = act.RegionOrAvailability
		a.view = viewError
	}
	return nil
}

func (a *App) resolveQuestions() tea.Cmd {
	if a.state.pending || !a.state.session.Active() {
		return nil
	}
	a.state.pending = true
	a.state.turnSeq++
	seq := a.state.turnSeq
	a.view = viewChat
	return tea.Batch(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		action := a.agent.ResolveAnswers(ctx, a.state.session)
		a.persistDeliver(ctx, action)
		return turnResultMsg{seq: seq, action: action}
	}, spinnerTick())
}

func (a *App) skipQuestions() tea.Cmd {
	if a.state.pending || !a.state.session.Active() {
		return nil
	}
	a.state.pending = true
	a.state.turnSeq++
	seq := a.state.turnSeq
	a.view = viewChat
	return tea.Batch(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		action := a.agent.SkipQuestions(ctx, a.state.session)
		a.persistDeliver(ctx, action)
		return turnResultMsg{seq: seq, action: action}
	}, spinnerTick())
}

// acceptPrompt clears the conversation after the user takes a delivered
// prompt, so the next message starts a fresh dialog.
func (a *App) acceptPrompt() tea.Cmd {
	if lastDeliveredPrompt(a.state.entries) == nil {
		a.state.statusNote = "Nothing to accept yet."
		return nil
	}
	return a.clearHistory("Prompt accepted. History cleared, next message starts fresh.")
}

func (a *App) clearHistory(note string) tea.Cmd {
	id := a.state.conversationID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.store.ClearHistory(ctx, id); err != nil {
			a.log.WithError(err).Warn("clear history")
		}
		return historyClearedMsg{note: note}
	}
}

func lastDeliveredPrompt(entries []chatEntry) *agent.Deliver {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].deliver != nil {
			return entries[i].deliver
		}
	}
	return nil
}

func spinnerTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (a *App) handleSetupKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.setupStep {
	case 0: // Provider selection
		switch msg.String() {
		case "up", "k":
			if a.state.selectedProvider > 0 {
				a.state.selectedProvider--
			}
		case "down", "j":
			if a.state.selectedProvider < len(config.Providers)-1 {
				a.state.selectedProvider++
			}
		case "enter":
			provider := config.Providers[a.state.selectedProvider]
			a.state.config.Provider = provider.ID
			a.state.config.Model = provider.DefaultModel

			if provider.NeedsAPIKey {
				a.state.setupStep = 1
				a.state.apiKeyInput.Focus()
				return textinput.Blink
			}
			return a.finishSetup()
		}

	case 1: // API key entry
		switch msg.String() {
		case "enter":
			a.state.config.APIKey = a.state.apiKeyInput.Value()
			return a.finishSetup()
		}
	}

	return nil
}

func (a *App) finishSetup() tea.Cmd {
	return func() tea.Msg {
		if err := a.state.config.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

func (a *App) handleQuestionsKey(msg tea.KeyMsg) tea.Cmd {
	questions := a.state.session.Questions
	if len(questions) == 0 {
		return nil
	}
	current := questions[a.state.questionIdx]

	switch {
	case key.Matches(msg, keys.Up):
		if a.state.optionIdx > 0 {
			a.state.optionIdx--
		}
	case key.Matches(msg, keys.Down):
		if a.state.optionIdx < len(current.Options)-1 {
			a.state.optionIdx++
		}
	case key.Matches(msg, keys.Tab):
		a.state.questionIdx = (a.state.questionIdx + 1) % len(questions)
		a.state.optionIdx = 0
	case key.Matches(msg, keys.Space):
		a.state.session.ToggleOption(a.state.questionIdx, a.state.optionIdx)
	case key.Matches(msg, keys.Skip):
		return a.skipQuestions()
	}
	return nil
}

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }
type providerReadyMsg struct{ provider llm.Provider }
type providerErrorMsg struct{ error }
type conversationReadyMsg struct {
	id       string
	messages []store.Message
}
type conversationErrorMsg struct{ error }
type historyClearedMsg struct{ note string }
type spinnerTickMsg struct{}
type turnResultMsg struct {
	seq    int
	action agent.Action
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewWelcome:
		return a.renderWelcome()
	case viewSetup:
		return a.renderSetup()
	case viewChat:
		return a.renderChat()
	case viewQuestions:
		return a.renderQuestions()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	default:
		return a.renderWelcome()
	}
}
