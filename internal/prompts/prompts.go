package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/sant0-9/forge/internal/config"
)

//go:embed assistant.md
var AssistantBase string

//go:embed refine.md
var RefineMeta string

//go:embed context.md
var RefineContext string

// Display labels for the stored preference ids.
var (
	StyleLabels = map[string]string{
		"precise":  "precise, to the point",
		"balanced": "balanced",
		"creative": "expansive with examples",
	}
	GoalLabels = map[string]string{
		"code":     "code and tech",
		"study":    "study and education",
		"creative": "texts and creative work",
		"analysis": "data analysis",
		"work":     "work and business",
		"research": "research",
		"writing":  "writing and editing",
		"hobby":    "hobbies and fun",
		"learning": "self-education",
		"other":    "everything else",
	}
	FormatLabels = map[string]string{
		"short":      "short and crisp",
		"structured": "structured",
		"detailed":   "detailed with instructions",
	}
)

// BuildAssistantSystem constructs the assistant-mode system prompt,
// prepending the user's preferences preamble when present.
func BuildAssistantSystem(prefs config.Preferences) string {
	return AssistantSystemWithPreamble(PreferencesPreamble(prefs))
}

// AssistantSystemWithPreamble builds the assistant system prompt from an
// already-rendered preferences preamble, so a dialog can be finished with
// the preferences it was opened under.
func AssistantSystemWithPreamble(preamble string) string {
	base := strings.TrimSpace(AssistantBase)
	if preamble == "" {
		return base
	}
	return preamble + "\n\n" + base
}

// BuildRefineSystem constructs the simple-mode system prompt.
func BuildRefineSystem(prefs config.Preferences) string {
	base := strings.TrimSpace(RefineContext)
	preamble := PreferencesPreamble(prefs)
	if preamble == "" {
		return base
	}
	return preamble + "\n\n" + base
}

// BuildRefineUser wraps the raw prompt in the refinement meta prompt.
func BuildRefineUser(userPrompt string) string {
	return fmt.Sprintf("%s\n\nPrompt to optimize:\n%s", strings.TrimSpace(RefineMeta), userPrompt)
}

// PreferencesPreamble renders stored preferences as a system-prompt
// preamble, or "" when nothing is set.
func PreferencesPreamble(prefs config.Preferences) string {
	if prefs.Empty() {
		return ""
	}
	var parts []string
	if prefs.Style != "" {
		parts = append(parts, fmt.Sprintf("Preferred answer style: %s.", label(StyleLabels, prefs.Style)))
	}
	if len(prefs.Goals) > 0 {
		labels := make([]string, 0, len(prefs.Goals))
		for _, g := range prefs.Goals {
			if g = strings.TrimSpace(g); g != "" {
				labels = append(labels, label(GoalLabels, g))
			}
		}
		if len(labels) > 0 {
			parts = append(parts, fmt.Sprintf("Main uses for AI: %s.", strings.Join(labels, ", ")))
		}
	}
	if prefs.Format != "" {
		parts = append(parts, fmt.Sprintf("Preferred prompt format: %s.", label(FormatLabels, prefs.Format)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "User preferences (respect them when improving prompts): " + strings.Join(parts, " ")
}

func label(m map[string]string, id string) string {
	if l, ok := m[id]; ok {
		return l
	}
	return id
}
