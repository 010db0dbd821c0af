package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = `
 ███████╗ ██████╗ ██████╗  ██████╗ ███████╗
 ██╔════╝██╔═══██╗██╔══██╗██╔════╝ ██╔════╝
 █████╗  ██║   ██║██████╔╝██║  ███╗█████╗
 ██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══╝
 ██║     ╚██████╔╝██║  ██║╚██████╔╝███████╗
 ╚═╝      ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝
`

func (a *App) renderWelcome() string {
	logoRendered := styleLogo.Render(logo)
	subtitle := styleSubtitle.Render("Prompt Refinement Assistant")

	var status string
	switch {
	case a.state.providerError != nil:
		status = lipgloss.NewStyle().Foreground(colorError).
			Render("Provider unreachable: " + truncate(a.state.providerError.Error(), 60))
	case !a.state.providerReady:
		status = styleSubtitle.Render("Connecting to provider...")
	default:
		status = styleSubtitle.Render("Describe the prompt you need and press Enter")
	}

	inputBox := styleBox.Width(min(64, max(a.width-4, 20))).Render(a.state.input.View())

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		logoRendered,
		subtitle,
		"",
		status,
		"",
		inputBox,
	)

	mainArea := lipgloss.Place(
		a.width,
		a.height-2,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	statusBar := styleStatusBar.Render("[Enter] Send  [/help] Commands  [Esc] Quit")
	statusLine := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, mainArea, statusLine)
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
