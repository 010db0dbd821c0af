// Package quality computes cheap lexical heuristics that explain how a
// refined prompt relates to the text it was derived from. Everything here is
// pure arithmetic over the two strings; nothing affects control flow
// elsewhere.
package quality

import (
	"fmt"
	"strings"
)

// LineMetrics holds length deltas between an original and a candidate text.
type LineMetrics struct {
	OriginalChars  int
	CandidateChars int
	CharPct        float64
	OriginalWords  int
	CandidateWords int
}

// Metrics computes character and word deltas. It returns false when the
// candidate is blank, matching the "nothing to measure" case.
func Metrics(original, candidate string) (LineMetrics, bool) {
	if strings.TrimSpace(candidate) == "" {
		return LineMetrics{}, false
	}
	m := LineMetrics{
		OriginalChars:  len(original),
		CandidateChars: len(candidate),
		OriginalWords:  len(strings.Fields(original)),
		CandidateWords: len(strings.Fields(candidate)),
	}
	if m.OriginalChars > 0 {
		m.CharPct = float64(m.CandidateChars-m.OriginalChars) / float64(m.OriginalChars) * 100
	}
	return m, true
}

// String renders the metrics line shown under a delivered prompt.
func (m LineMetrics) String() string {
	return fmt.Sprintf("Length: %d -> %d chars (%+.1f%%) | Words: %d -> %d",
		m.OriginalChars, m.CandidateChars, m.CharPct, m.OriginalWords, m.CandidateWords)
}

// Score holds unigram and bigram F1 overlap between two texts.
type Score struct {
	Unigram float64
	Bigram  float64
}

// Similarity computes case-sensitive unigram and bigram F1 between the
// reference and candidate token sequences. It returns false when either
// text is blank.
func Similarity(reference, candidate string) (Score, bool) {
	if strings.TrimSpace(reference) == "" || strings.TrimSpace(candidate) == "" {
		return Score{}, false
	}
	refTokens := strings.Fields(reference)
	candTokens := strings.Fields(candidate)
	return Score{
		Unigram: overlapF1(refTokens, candTokens),
		Bigram:  overlapF1(bigrams(refTokens), bigrams(candTokens)),
	}, true
}

func bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// overlapF1 is the recall/precision F1 over multiset n-gram overlap.
func overlapF1(reference, candidate []string) float64 {
	if len(reference) == 0 || len(candidate) == 0 {
		return 0
	}
	counts := make(map[string]int, len(reference))
	for _, g := range reference {
		counts[g]++
	}
	matched := 0
	for _, g := range candidate {
		if counts[g] > 0 {
			counts[g]--
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	precision := float64(matched) / float64(len(candidate))
	recall := float64(matched) / float64(len(reference))
	return 2 * precision * recall / (precision + recall)
}

// Interpret maps a unigram F1 score onto a descriptive label.
func Interpret(unigram float64) string {
	switch {
	case unigram >= 0.6:
		return "meaning and phrasing preserved, careful refinement"
	case unigram >= 0.35:
		return "moderate rewording, structure added"
	default:
		return "substantial rewrite, new formulation"
	}
}

// SimilarityLine renders a labeled similarity summary, or "" when the
// scores cannot be computed.
func SimilarityLine(label, reference, candidate string) string {
	score, ok := Similarity(reference, candidate)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s: F1 %.2f / bigram %.2f - %s",
		label, score.Unigram, score.Bigram, Interpret(score.Unigram))
}

// structureMarkers are cue substrings that indicate role/task/format framing
// inside a prompt.
var structureMarkers = []string{
	"you are", "your task", "task:", "role:", "format:", "steps:",
	"constraints:", "respond in", "output", "1.", "2.", "3.", "- ", "* ",
}

func countStructureMarkers(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	lower := strings.ToLower(text)
	n := 0
	for _, m := range structureMarkers {
		if strings.Contains(lower, m) {
			n++
		}
	}
	return n
}

// Explain builds a one-line heuristic explanation of why the candidate may
// be an improvement over the original. unigram may be nil when no
// similarity score is available. The result is never blank.
func Explain(original, candidate string, unigram *float64) string {
	if strings.TrimSpace(candidate) == "" {
		return ""
	}
	origLen, candLen := len(original), len(candidate)
	origMarkers := countStructureMarkers(original)
	candMarkers := countStructureMarkers(candidate)

	var reasons []string
	if candMarkers > origMarkers {
		reasons = append(reasons, "added structure (role, task, format)")
	}
	if float64(candLen) > float64(origLen)*1.2 && candMarkers >= origMarkers {
		reasons = append(reasons, "more detailed instructions")
	} else if float64(candLen) < float64(origLen)*0.8 && (unigram == nil || *unigram >= 0.4) {
		reasons = append(reasons, "condensed without losing meaning")
	}
	if unigram != nil && *unigram >= 0.5 {
		reasons = append(reasons, "preserved original wording")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "rephrased to work better with the model")
	}
	return "Why it may be better: " + strings.Join(reasons, ", ") + "."
}
