package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderError() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	detail := "Unknown error"
	if a.state.lastError != nil {
		detail = a.state.lastError.Error()
	}

	advice := "The provider did not answer. Check your connection and try again."
	if a.state.lastErrorRegion {
		advice = "The model looks unavailable from your region or plan.\nTry a different provider in /settings."
	}

	lines := []string{
		wrapText(detail, 54),
		"",
		styleSubtitle.Render(wrapText(advice, 54)),
	}
	errBox := styleBox.Width(58).
		BorderForeground(colorError).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back to chat")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
