package schedule

import (
	"regexp"
	"strings"
)

var (
	reNum  = regexp.MustCompile(`\b\d+(?:[\.,]\d+)?\b`)
	reHook = regexp.MustCompile(`(?i)\b(important|key|secret|mistake|never|always|here\s+is\s+why|remember)\b`)
	reHow  = regexp.MustCompile(`(?i)\b(how\s+to|step\s+\d+|first|second|third|do\s+this)\b`)
)

// heuristicScore rates a transcript window in [0..10]. Deliberately cheap
// and deterministic: it only has to rank fallback windows when the AI
// analyzer gave us nothing usable.
func heuristicScore(text string, speechRate float64) float64 {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}
	lower := strings.ToLower(t)

	score := float64(len(reNum.FindAllStringIndex(t, -1))) * 0.4
	score += float64(len(reHook.FindAllStringIndex(lower, -1))) * 0.9
	if reHow.MatchString(lower) {
		score += 1.2
	}
	score += float64(strings.Count(t, "?")) * 0.7
	score += float64(strings.Count(t, "!")) * 0.3

	// Dense speech retains viewers better than gaps; ~2.5 words/sec is
	// typical conversational pace.
	score += clamp(speechRate/2.5, 0, 1.5)

	return clamp(score, 0, 10)
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
