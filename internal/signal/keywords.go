// Package signal implements the purely local conversation analyzers:
// goal-keyword drift detection, action-item pattern extraction, highlight
// detection, and momentum estimation. Nothing in this package performs a
// network call.
package signal

import (
	"strings"
	"unicode"

	"goalkeep/internal/transcript"
)

// stopWords are excluded from goal keyword extraction: articles, auxiliary
// verbs, pronouns, prepositions, and goal-statement boilerplate verbs that
// carry no topical content ("want", "help", "learn").
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "him": {}, "his": {},
	"how": {}, "its": {}, "may": {}, "new": {}, "now": {}, "old": {},
	"see": {}, "two": {}, "way": {}, "who": {}, "did": {}, "get": {},
	"let": {}, "say": {}, "she": {}, "too": {}, "use": {}, "that": {},
	"with": {}, "have": {}, "this": {}, "will": {}, "your": {}, "from": {},
	"they": {}, "know": {}, "been": {}, "good": {}, "much": {}, "some": {},
	"time": {}, "very": {}, "when": {}, "come": {}, "here": {}, "just": {},
	"like": {}, "long": {}, "make": {}, "many": {}, "more": {}, "only": {},
	"over": {}, "such": {}, "take": {}, "than": {}, "them": {}, "well": {},
	"were": {}, "what": {}, "into": {}, "also": {}, "then": {}, "each": {},
	"about": {}, "would": {}, "there": {}, "their": {}, "which": {},
	"could": {}, "should": {}, "these": {}, "those": {}, "being": {},
	"doing": {}, "going": {}, "really": {}, "something": {}, "things": {},
	// goal-statement boilerplate
	"want": {}, "need": {}, "help": {}, "learn": {}, "trying": {},
	"working": {},
}

// minKeywordLen is the shortest token kept by ExtractKeywords; shorter
// tokens are almost never topical.
const minKeywordLen = 3

// ExtractKeywords tokenizes a goal string into its content keywords:
// lowercased, punctuation stripped, whitespace split, stop words and
// tokens shorter than minKeywordLen removed. Duplicates collapse.
func ExtractKeywords(goal string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(goal)) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(token) < minKeywordLen {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		keywords[token] = struct{}{}
	}
	return keywords
}

// DriftAssessment is the result of a heuristic drift check. Ephemeral:
// recomputed per check, never persisted.
type DriftAssessment struct {
	IsDrifting bool
	MatchRatio float64
}

// DriftOptions carries the tuned constants of the heuristic drift check.
// The calling layer adjusts the effective threshold per user, so these are
// parameters rather than package constants.
type DriftOptions struct {
	Threshold   float64 // matchRatio below this means drifting
	MinMessages int     // below this the check is vacuously aligned
	Window      int     // recent messages scanned for keyword overlap
}

// DefaultDriftOptions mirrors config.AnalysisConfig's drift defaults.
func DefaultDriftOptions() DriftOptions {
	return DriftOptions{Threshold: 0.15, MinMessages: 6, Window: 4}
}

// CheckDrift measures lexical overlap between the goal keywords and the
// recent conversation window. Short conversations and empty keyword sets
// report vacuous alignment (ratio 1, not drifting) to avoid false
// positives before there is anything to measure.
func CheckDrift(messages []transcript.Message, keywords map[string]struct{}, opts DriftOptions) DriftAssessment {
	if len(messages) < opts.MinMessages || len(keywords) == 0 {
		return DriftAssessment{IsDrifting: false, MatchRatio: 1}
	}

	window := messages
	if opts.Window > 0 && len(messages) > opts.Window {
		window = messages[len(messages)-opts.Window:]
	}
	var b strings.Builder
	for _, m := range window {
		b.WriteString(strings.ToLower(m.Text))
		b.WriteString(" ")
	}
	recent := b.String()

	matched := 0
	for kw := range keywords {
		if strings.Contains(recent, kw) {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(keywords))
	return DriftAssessment{
		IsDrifting: ratio < opts.Threshold,
		MatchRatio: ratio,
	}
}
