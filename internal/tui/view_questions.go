package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderQuestions is the multi-select clarification dialog. Several options
// per question may be picked; unanswered questions are sent as "not
// specified".
func (a *App) renderQuestions() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("A few questions first")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if a.state.questionIntro != "" {
		intro := styleSubtitle.Render(wrapText(a.state.questionIntro, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, intro))
		b.WriteString("\n\n")
	}

	var lines []string
	for qi, q := range a.state.session.Questions {
		marker := "  "
		if qi == a.state.questionIdx {
			marker = "> "
		}
		questionStyle := lipgloss.NewStyle().Foreground(colorWhite)
		if qi == a.state.questionIdx {
			questionStyle = questionStyle.Bold(true)
		}
		lines = append(lines, questionStyle.Render(fmt.Sprintf("%s%d. %s", marker, qi+1, q.Text)))

		for oi, opt := range q.Options {
			check := "[ ]"
			if a.state.session.Selected(qi, oi) {
				check = "[x]"
			}
			cursor := "   "
			if qi == a.state.questionIdx && oi == a.state.optionIdx {
				cursor = " > "
			}
			line := fmt.Sprintf("%s %s %s", cursor, check, opt)
			if qi == a.state.questionIdx && oi == a.state.optionIdx {
				line = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true).Render(line)
			} else {
				line = lipgloss.NewStyle().Foreground(colorMuted).Render(line)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	listBox := styleBox.Width(min(64, max(a.width-4, 30))).
		Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render(
		"[j/k] Move  [Space] Toggle  [Tab] Next question  [Enter] Done  [s] Skip all  [Esc] Dismiss")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
