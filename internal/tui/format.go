package tui

import (
	"strings"

	"github.com/sant0-9/forge/internal/agent"
)

// renderDeliver lays out a delivered prompt: intro commentary, the boxed
// prompt body, outro, then the quality annotation lines. Plain replies
// (empty body) render as bare text.
func renderDeliver(d *agent.Deliver, width int) []string {
	var lines []string

	if d.Intro != "" {
		for _, line := range strings.Split(wrapText(d.Intro, width), "\n") {
			lines = append(lines, "  "+line)
		}
	}

	if d.Body != "" {
		box := stylePromptBox.Width(width).Render(wrapText(d.Body, width-4))
		lines = append(lines, strings.Split(box, "\n")...)
	}

	if d.Outro != "" {
		for _, line := range strings.Split(wrapText(d.Outro, width), "\n") {
			lines = append(lines, "  "+line)
		}
	}

	for _, a := range d.Annotations {
		for _, line := range strings.Split(wrapText(a, width), "\n") {
			lines = append(lines, "  "+styleAnnotation.Render(line))
		}
	}

	return lines
}

// wrapText wraps text to fit within maxWidth, preserving words and
// existing line breaks.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 60
	}

	var result strings.Builder
	for i, paragraph := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(wrapLine(paragraph, maxWidth))
	}
	return result.String()
}

func wrapLine(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > maxWidth {
				result.WriteString("\n")
				lineLen = 0
			} else {
				result.WriteString(" ")
				lineLen++
			}
		}
		result.WriteString(word)
		lineLen += len(word)
	}

	return result.String()
}
