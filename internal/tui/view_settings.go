package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/prompts"
)

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "provider":
		return a.renderSettingsList("Select Provider", providerNames(), a.currentProviderIndex())
	case "model":
		return a.renderSettingsModel()
	case "apikey":
		return a.renderSettingsAPIKey()
	case "mode":
		return a.renderSettingsList("Select Mode", []string{
			"agent - conversation, clarifying questions",
			"simple - one-shot rewrite",
		}, indexOf(modeOptions, a.state.config.Mode))
	case "temperature":
		return a.renderSettingsTemperature()
	case "style":
		return a.renderSettingsList("Answer Style", labeled(styleOptions, prompts.StyleLabels),
			indexOf(styleOptions, a.state.config.Preferences.Style))
	case "goals":
		return a.renderSettingsGoals()
	case "format":
		return a.renderSettingsList("Prompt Format", labeled(formatOptions, prompts.FormatLabels),
			indexOf(formatOptions, a.state.config.Preferences.Format))
	default:
		return a.renderSettingsMain()
	}
}

func (a *App) renderSettingsMain() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	provider := config.GetProvider(a.state.config.Provider)
	providerName := a.state.config.Provider
	if provider != nil {
		providerName = provider.Name
	}

	// Mask API key
	maskedKey := "Not set"
	if k := a.state.config.APIKey; k != "" {
		if len(k) > 8 {
			maskedKey = k[:4] + "****" + k[len(k)-4:]
		} else {
			maskedKey = "****"
		}
	}

	prefs := a.state.config.Preferences
	styleLabel := "not set"
	if prefs.Style != "" {
		styleLabel = prompts.StyleLabels[prefs.Style]
	}
	formatLabel := "not set"
	if prefs.Format != "" {
		formatLabel = prompts.FormatLabels[prefs.Format]
	}
	goalsLabel := "not set"
	if len(prefs.Goals) > 0 {
		goalsLabel = fmt.Sprintf("%d selected", len(prefs.Goals))
	}

	configLines := []string{
		fmt.Sprintf("  Provider:     %s", providerName),
		fmt.Sprintf("  Model:        %s", a.state.config.Model),
		fmt.Sprintf("  API Key:      %s", maskedKey),
		fmt.Sprintf("  Mode:         %s", a.state.config.Mode),
		fmt.Sprintf("  Temperature:  %.1f", a.state.config.Temperature),
		"",
		fmt.Sprintf("  Style:        %s", styleLabel),
		fmt.Sprintf("  Goals:        %s", goalsLabel),
		fmt.Sprintf("  Format:       %s", formatLabel),
	}

	configBox := styleBox.Width(50).Render(strings.Join(configLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, configBox))
	b.WriteString("\n\n")

	actions := []string{
		"  [p] Provider      [m] Model       [k] API key",
		"  [o] Mode          [t] Temperature",
		"  [a] Answer style  [g] Goals       [f] Format",
	}
	actionsBox := styleBox.Width(50).Render(strings.Join(actions, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, actionsBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

// renderSettingsList is the shared single-select picker. current marks the
// active value, -1 for none.
func (a *App) renderSettingsList(title string, items []string, current int) string {
	var b strings.Builder

	heading := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(title)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, heading))
	b.WriteString("\n\n")

	var lines []string
	for i, item := range items {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		marker := ""
		if i == current {
			marker = " (current)"
		}
		line := fmt.Sprintf("%s%s%s", cursor, item, marker)
		if i == a.state.settingsSelected {
			line = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.Width(50).Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsModel() string {
	provider := config.GetProvider(a.state.config.Provider)
	if provider == nil {
		return a.renderSettingsList("Select Model", nil, -1)
	}
	return a.renderSettingsList(
		fmt.Sprintf("Select Model (%s)", provider.Name),
		provider.Models,
		indexOf(provider.Models, a.state.config.Model),
	)
}

func (a *App) renderSettingsTemperature() string {
	items := make([]string, len(config.TemperatureSteps))
	current := -1
	for i, t := range config.TemperatureSteps {
		items[i] = fmt.Sprintf("%.1f", t)
		if t == a.state.config.Temperature {
			current = i
		}
	}
	return a.renderSettingsList("Temperature", items, current)
}

func (a *App) renderSettingsGoals() string {
	var b strings.Builder

	heading := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Usage Goals")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, heading))
	b.WriteString("\n\n")

	var lines []string
	for i, goal := range goalOptions {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		check := "[ ]"
		if a.hasGoal(goal) {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, check, prompts.GoalLabels[goal])
		if i == a.state.settingsSelected {
			line = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.Width(50).Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Space] Toggle  [Enter] Done  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderSettingsAPIKey() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Update API Key")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	desc := styleSubtitle.Render("Enter your new API key")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, desc))
	b.WriteString("\n\n")

	inputBox := styleBox.Width(50).
		BorderForeground(colorPrimary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Enter] Save  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) currentProviderIndex() int {
	for i, p := range config.Providers {
		if p.ID == a.state.config.Provider {
			return i
		}
	}
	return -1
}

func providerNames() []string {
	names := make([]string, len(config.Providers))
	for i, p := range config.Providers {
		names[i] = fmt.Sprintf("%-12s %s", p.Name, p.Description)
	}
	return names
}

func labeled(ids []string, labels map[string]string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = labels[id]
	}
	return out
}

func indexOf(items []string, value string) int {
	for i, item := range items {
		if item == value {
			return i
		}
	}
	return -1
}
