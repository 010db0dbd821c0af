package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sant0-9/forge/internal/config"
)

// Ordered option lists for the preference pickers. Labels come from the
// prompts package so settings and system prompt stay in sync.
var (
	styleOptions  = []string{"precise", "balanced", "creative"}
	formatOptions = []string{"short", "structured", "detailed"}
	goalOptions   = []string{
		"code", "study", "creative", "analysis", "work",
		"research", "writing", "hobby", "learning", "other",
	}
	modeOptions = []string{config.ModeAgent, config.ModeSimple}
)

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.settingsMode {
	case "":
		return a.handleSettingsMainKey(msg)
	case "apikey":
		if msg.String() == "enter" {
			a.state.config.APIKey = a.state.apiKeyInput.Value()
			a.state.apiKeyInput.Reset()
			a.state.settingsMode = ""
			return a.saveAndReconnect()
		}
		return nil
	default:
		return a.handleSettingsListKey(msg)
	}
}

func (a *App) handleSettingsMainKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "p":
		a.enterSettingsList("provider")
	case "m":
		a.enterSettingsList("model")
	case "k":
		a.state.settingsMode = "apikey"
		a.state.apiKeyInput.Focus()
		return textinput.Blink
	case "o":
		a.enterSettingsList("mode")
	case "t":
		a.enterSettingsList("temperature")
	case "a":
		a.enterSettingsList("style")
	case "g":
		a.enterSettingsList("goals")
	case "f":
		a.enterSettingsList("format")
	}
	return nil
}

func (a *App) enterSettingsList(mode string) {
	a.state.settingsMode = mode
	a.state.settingsSelected = 0
}

func (a *App) handleSettingsListKey(msg tea.KeyMsg) tea.Cmd {
	items := a.settingsListLen()
	if items == 0 {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if a.state.settingsSelected > 0 {
			a.state.settingsSelected--
		}
	case "down", "j":
		if a.state.settingsSelected < items-1 {
			a.state.settingsSelected++
		}
	case " ":
		if a.state.settingsMode == "goals" {
			a.toggleGoal(goalOptions[a.state.settingsSelected])
		}
	case "enter":
		return a.applySettingsSelection()
	}
	return nil
}

func (a *App) settingsListLen() int {
	switch a.state.settingsMode {
	case "provider":
		return len(config.Providers)
	case "model":
		if p := config.GetProvider(a.state.config.Provider); p != nil {
			return len(p.Models)
		}
		return 0
	case "mode":
		return len(modeOptions)
	case "temperature":
		return len(config.TemperatureSteps)
	case "style":
		return len(styleOptions)
	case "goals":
		return len(goalOptions)
	case "format":
		return len(formatOptions)
	}
	return 0
}

func (a *App) applySettingsSelection() tea.Cmd {
	i := a.state.settingsSelected
	reconnect := false

	switch a.state.settingsMode {
	case "provider":
		p := config.Providers[i]
		a.state.config.Provider = p.ID
		a.state.config.Model = p.DefaultModel
		reconnect = true
	case "model":
		if p := config.GetProvider(a.state.config.Provider); p != nil && i < len(p.Models) {
			a.state.config.Model = p.Models[i]
		}
		reconnect = true
	case "mode":
		a.state.config.Mode = modeOptions[i]
	case "temperature":
		a.state.config.Temperature = config.TemperatureSteps[i]
	case "style":
		a.state.config.Preferences.Style = styleOptions[i]
	case "goals":
		// Goals are toggled with space; enter just closes the list.
	case "format":
		a.state.config.Preferences.Format = formatOptions[i]
	}

	a.state.settingsMode = ""
	if reconnect {
		return a.saveAndReconnect()
	}
	return a.saveConfig()
}

func (a *App) toggleGoal(goal string) {
	goals := a.state.config.Preferences.Goals
	for i, g := range goals {
		if g == goal {
			a.state.config.Preferences.Goals = append(goals[:i], goals[i+1:]...)
			return
		}
	}
	a.state.config.Preferences.Goals = append(goals, goal)
}

func (a *App) hasGoal(goal string) bool {
	for _, g := range a.state.config.Preferences.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

func (a *App) saveConfig() tea.Cmd {
	return func() tea.Msg {
		if err := a.state.config.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return nil
	}
}

// saveAndReconnect persists the config and re-resolves the provider, since
// provider, model, or key changed.
func (a *App) saveAndReconnect() tea.Cmd {
	a.state.providerReady = false
	return tea.Batch(a.saveConfig(), a.testProvider())
}
