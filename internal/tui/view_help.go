package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	sections := []string{
		"  Describe the prompt you need in plain words.",
		"  The assistant returns a refined prompt, or asks a few",
		"  multiple-choice questions first when the task is broad.",
		"",
		"  Commands:",
		"    /accept, /a    use the delivered prompt, clear history",
		"    /new, /n       start a fresh conversation",
		"    /settings, /s  provider, model, mode, preferences",
		"    /help, /h      this screen",
		"    /quit, /q      exit",
		"",
		"  While answering questions:",
		"    j/k move, Space toggles, Tab switches question,",
		"    Enter sends answers, s skips them all.",
	}

	helpBox := styleBox.Width(58).Render(strings.Join(sections, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, helpBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
