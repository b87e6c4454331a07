package signal

import (
	"regexp"
	"strings"
	"unicode"

	"goalkeep/internal/transcript"
)

// actionPattern pairs a matcher with the priority assigned to its captures.
// Patterns are evaluated independently and in order; a message can yield one
// item per pattern. Deduplication is the caller's job (ActionList.Merge).
type actionPattern struct {
	re       *regexp.Regexp
	priority transcript.Priority
}

var actionPatterns = []actionPattern{
	{regexp.MustCompile(`(?i)\bneeds? to ([^.!?\n]+)`), transcript.PriorityHigh},
	{regexp.MustCompile(`(?i)\b(?:you|we) (?:should|must) ([^.!?\n]+)`), transcript.PriorityHigh},
	{regexp.MustCompile(`(?i)\bmake sure (?:to |that )?([^.!?\n]+)`), transcript.PriorityHigh},
	{regexp.MustCompile(`(?i)\blet'?s ([^.!?\n]+)`), transcript.PriorityMedium},
	{regexp.MustCompile(`(?i)\b(?:the )?next step(?: is)?(?: to)? ([^.!?\n]+)`), transcript.PriorityMedium},
	{regexp.MustCompile(`(?i)\bdon'?t forget (?:to )?([^.!?\n]+)`), transcript.PriorityMedium},
	{regexp.MustCompile(`(?i)\bi(?:'d| would) (?:recommend|suggest) ([^.!?\n]+)`), transcript.PriorityLow},
	{regexp.MustCompile(`(?i)\bit (?:might|may|could) be worth ([^.!?\n]+)`), transcript.PriorityLow},
}

// highlightKeywords flag a message as a highlight on any case-insensitive
// substring match.
var highlightKeywords = []string{
	"breakthrough", "aha", "eureka", "root cause", "key insight",
	"that's it", "makes sense", "now i understand", "finally understand",
	"figured out", "it clicked", "crucial", "realization", "i realize",
	"turning point", "game changer", "connects to", "the connection",
	"crystal clear",
}

// ExtractorOptions bounds accepted action item text, half-open [MinLen, MaxLen).
type ExtractorOptions struct {
	MinLen int
	MaxLen int
}

// DefaultExtractorOptions mirrors config.AnalysisConfig's action text bounds.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{MinLen: 5, MaxLen: 200}
}

// Extractor scans assistant messages for action-item phrases. It remembers
// which message ids it has processed so re-analysis on a repaint is a no-op.
type Extractor struct {
	opts      ExtractorOptions
	processed map[string]struct{}
}

// NewExtractor creates an extractor with the given bounds.
func NewExtractor(opts ExtractorOptions) *Extractor {
	return &Extractor{
		opts:      opts,
		processed: make(map[string]struct{}),
	}
}

// AnalyzeMessage extracts action item candidates from an assistant message.
// User messages are never scanned. A message id already processed yields
// nothing regardless of content.
func (e *Extractor) AnalyzeMessage(m transcript.Message) []transcript.ActionItem {
	if m.Role != transcript.RoleAssistant {
		return nil
	}
	if _, done := e.processed[m.ID]; done {
		return nil
	}
	e.processed[m.ID] = struct{}{}

	var items []transcript.ActionItem
	for _, p := range actionPatterns {
		match := p.re.FindStringSubmatch(m.Text)
		if match == nil {
			continue
		}
		text := strings.TrimSpace(match[1])
		if len(text) < e.opts.MinLen || len(text) >= e.opts.MaxLen {
			continue
		}
		items = append(items, transcript.ActionItem{
			Text:            capitalize(text),
			Priority:        p.priority,
			SourceMessageID: m.ID,
		})
	}
	return items
}

// CheckForHighlight reports whether the message contains any highlight
// keyword. A single match flags the whole message.
func CheckForHighlight(m transcript.Message) bool {
	text := strings.ToLower(m.Text)
	for _, kw := range highlightKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
