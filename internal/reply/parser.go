package reply

import (
	"regexp"
	"strings"
)

var questionLine = regexp.MustCompile(`^\d+\.\s*(.+)$`)

// Parse extracts a prompt directive from a raw model reply.
//
// The rules form a strict priority chain: a parsable [QUESTIONS] block wins
// over everything, so a reply carrying both blocks is a clarification
// request; then a matched [PROMPT]...[/PROMPT] pair; an unclosed [PROMPT]
// takes everything after it as the body; a triple-backtick code fence is the
// fallback; anything else degrades to plain text. Parse never fails on
// malformed input.
func Parse(raw string) Directive {
	if questions := ParseQuestions(raw); questions != nil {
		return Directive{
			Kind:      KindClarification,
			Intro:     QuestionsIntro(raw),
			Questions: questions,
		}
	}

	if strings.Contains(raw, PromptOpen) {
		before, rest, _ := strings.Cut(raw, PromptOpen)
		if body, after, ok := strings.Cut(rest, PromptClose); ok {
			return Directive{
				Kind:  KindFinishedPrompt,
				Intro: strings.TrimSpace(before),
				Body:  strings.TrimSpace(body),
				Outro: strings.TrimSpace(after),
			}
		}
		// Open marker without a close: the rest of the reply is the body.
		return Directive{
			Kind:  KindFinishedPrompt,
			Intro: strings.TrimSpace(before),
			Body:  strings.TrimSpace(rest),
		}
	}

	if parts := strings.SplitN(raw, "```", 3); len(parts) >= 3 {
		return Directive{
			Kind:  KindFinishedPrompt,
			Intro: strings.TrimSpace(parts[0]),
			Body:  stripFenceTag(parts[1]),
			Outro: strings.TrimSpace(parts[2]),
		}
	}

	return Directive{Kind: KindPlainText, Intro: strings.TrimSpace(raw)}
}

// stripFenceTag drops a leading "prompt" language tag from a fenced block.
func stripFenceTag(block string) string {
	s := strings.TrimLeft(block, " \t")
	if line, rest, ok := strings.Cut(s, "\n"); ok && strings.TrimSpace(line) == "prompt" {
		s = rest
	}
	return strings.TrimSpace(s)
}

// ParseQuestions extracts clarification questions from a
// [QUESTIONS]...[/QUESTIONS] block. It returns nil when either marker is
// missing, the block is blank, or no question lines parse. Lines that fit
// neither the numbered-question nor the option grammar are ignored.
func ParseQuestions(raw string) []Question {
	if !strings.Contains(raw, QuestionsOpen) || !strings.Contains(raw, QuestionsClose) {
		return nil
	}
	_, rest, _ := strings.Cut(raw, QuestionsOpen)
	block, _, _ := strings.Cut(rest, QuestionsClose)
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}

	var questions []Question
	var current *Question
	flush := func() {
		if current == nil {
			return
		}
		if len(current.Options) == 0 {
			current.Options = []string{SkipOption}
		}
		questions = append(questions, *current)
		current = nil
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := questionLine.FindStringSubmatch(line); m != nil {
			flush()
			current = &Question{Text: strings.TrimSpace(m[1])}
			continue
		}
		if (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")) && current != nil {
			opt := strings.TrimSpace(strings.TrimLeft(line, "-*"))
			if opt != "" {
				current.Options = append(current.Options, opt)
			}
		}
	}
	flush()

	if len(questions) == 0 {
		return nil
	}
	return questions
}

// QuestionsIntro returns the commentary before the questions block, if any.
func QuestionsIntro(raw string) string {
	before, _, ok := strings.Cut(raw, QuestionsOpen)
	if !ok {
		return ""
	}
	return strings.TrimSpace(before)
}
