package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/forge/internal/config"
	"github.com/sant0-9/forge/internal/llm"
)

// Loading messages shown while a turn is in flight
var loadingMessages = []string{
	"Refining...",
	"Thinking...",
	"Sharpening wording...",
	"Weighing options...",
	"Tightening structure...",
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

func (a *App) renderChat() string {
	boxWidth := min(72, max(a.width-4, 30))
	leftPad := (a.width - boxWidth) / 2
	if leftPad < 2 {
		leftPad = 2
	}
	indent := strings.Repeat(" ", leftPad)

	headerHeight := 3
	footerHeight := 4

	availableHeight := a.height - headerHeight - footerHeight
	if availableHeight < 5 {
		availableHeight = 5
	}

	// === HEADER ===
	var header strings.Builder
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Forge")
	header.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	header.WriteString("\n")

	modeLabel := "agent"
	if a.state.config.Mode == config.ModeSimple {
		modeLabel = "simple"
	}
	modelLine := lipgloss.NewStyle().
		Foreground(colorMuted).
		Render(fmt.Sprintf("%s via %s  [%s, t=%.1f]",
			a.state.config.Model, a.state.config.Provider, modeLabel, a.state.config.Temperature))
	header.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, modelLine))
	header.WriteString("\n\n")

	// === MESSAGE LINES ===
	var messageLines []string
	for _, entry := range a.state.entries {
		if entry.role == llm.RoleUser {
			content := wrapText(entry.text, boxWidth-4)
			for j, line := range strings.Split(content, "\n") {
				prefix := "> "
				if j > 0 {
					prefix = "  "
				}
				styled := lipgloss.NewStyle().
					Foreground(colorSecondary).
					Render(prefix + line)
				messageLines = append(messageLines, indent+styled)
			}
		} else if entry.deliver != nil {
			for _, line := range renderDeliver(entry.deliver, boxWidth) {
				messageLines = append(messageLines, indent+line)
			}
		} else {
			content := wrapText(entry.text, boxWidth-4)
			for _, line := range strings.Split(content, "\n") {
				styled := lipgloss.NewStyle().
					Foreground(colorWhite).
					Render("  " + line)
				messageLines = append(messageLines, indent+styled)
			}
		}
		messageLines = append(messageLines, "")
	}

	if a.state.pending {
		spinner := spinnerFrames[a.state.spinnerFrame%len(spinnerFrames)]
		msgIdx := (a.state.spinnerFrame / 8) % len(loadingMessages)
		loadingText := lipgloss.NewStyle().
			Foreground(colorPrimary).
			Render(fmt.Sprintf("%s %s", spinner, loadingMessages[msgIdx]))
		messageLines = append(messageLines, indent+loadingText)
	}

	// Show the tail of the conversation.
	start := len(messageLines) - availableHeight
	if start < 0 {
		start = 0
	}
	visibleLines := messageLines[start:]

	// === FOOTER ===
	var footer strings.Builder
	if !a.state.pending {
		inputBox := styleBox.Width(boxWidth).
			BorderForeground(colorMuted).
			Render(a.state.input.View())
		footer.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
		footer.WriteString("\n")
	}

	var statusParts []string
	if a.state.statusNote != "" {
		statusParts = append(statusParts, a.state.statusNote)
	}
	if a.state.pending {
		statusParts = append(statusParts, "[Esc] Quit")
	} else if lastDeliveredPrompt(a.state.entries) != nil {
		statusParts = append(statusParts, "[/accept] Use prompt  [/new] Start over  [/help] Commands")
	} else {
		statusParts = append(statusParts, "[/help] Commands  [Esc] Quit")
	}
	status := styleStatusBar.Render(strings.Join(statusParts, "  "))
	footer.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	// === COMBINE ===
	var messageArea strings.Builder
	for i, line := range visibleLines {
		messageArea.WriteString(line)
		if i < len(visibleLines)-1 {
			messageArea.WriteString("\n")
		}
	}

	padding := availableHeight - len(visibleLines)
	if padding > 0 {
		if len(visibleLines) > 0 {
			messageArea.WriteString("\n")
		}
		messageArea.WriteString(strings.Repeat("\n", padding-1))
	}

	return header.String() + messageArea.String() + "\n" + footer.String()
}
