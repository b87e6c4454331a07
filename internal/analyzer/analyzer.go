// Package analyzer implements the LLM-backed conversation analyzers:
// drift, insight, action-item, and the unified single-call variant.
//
// Every analyzer follows the same discipline: a session-count throttle
// decides whether the external service is consulted at all, a boolean
// in-flight guard drops (never queues) overlapping calls, and a parse
// failure is treated as absence of signal rather than an error. Only
// transport failures propagate to the caller.
package analyzer

import (
	"sync"
	"sync/atomic"

	"goalkeep/internal/config"
	"goalkeep/internal/transcript"
)

// Config carries the analyzer tuning constants. Built from
// config.AnalysisConfig so every threshold has exactly one home.
type Config struct {
	DriftInterval   int
	InsightInterval int
	ActionInterval  int
	UnifiedInterval int

	// The single-analyzer and unified insight gates intentionally differ.
	InsightConfidenceMin        float64
	UnifiedInsightConfidenceMin float64

	ActionTextMinLen int
	ActionTextMaxLen int

	PromptWindowMessages int
	PromptMessageMaxLen  int
}

// FromAnalysis builds an analyzer Config from the global analysis config.
func FromAnalysis(a config.AnalysisConfig) Config {
	return Config{
		DriftInterval:               a.DriftCheckInterval,
		InsightInterval:             a.InsightCheckInterval,
		ActionInterval:              a.ActionCheckInterval,
		UnifiedInterval:             a.UnifiedCheckInterval,
		InsightConfidenceMin:        a.InsightConfidenceMin,
		UnifiedInsightConfidenceMin: a.UnifiedInsightConfidenceMin,
		ActionTextMinLen:            a.ActionTextMinLen,
		ActionTextMaxLen:            a.ActionTextMaxLen,
		PromptWindowMessages:        a.PromptWindowMessages,
		PromptMessageMaxLen:         a.PromptMessageMaxLen,
	}
}

// DefaultConfig mirrors config.DefaultConfig().Analysis.
func DefaultConfig() Config {
	return FromAnalysis(config.DefaultConfig().Analysis)
}

// throttle is a pull-based per-analyzer rate limit: the external service
// is re-consulted only after the user message count has advanced by at
// least interval since the last accepted call. There is no timer; the
// check runs synchronously when messages arrive.
type throttle struct {
	interval int

	mu        sync.Mutex
	lastCount int
	primed    bool

	inFlight atomic.Bool
}

// tryAcquire reports whether a call may proceed at the given user message
// count, acquiring the in-flight slot when it does. A call arriving while
// another is outstanding is dropped, not queued.
func (t *throttle) tryAcquire(userCount int) bool {
	t.mu.Lock()
	if t.primed && userCount-t.lastCount < t.interval {
		t.mu.Unlock()
		return false
	}
	t.mu.Unlock()

	if !t.inFlight.CompareAndSwap(false, true) {
		return false
	}

	t.mu.Lock()
	t.lastCount = userCount
	t.primed = true
	t.mu.Unlock()
	return true
}

// release clears the in-flight slot. Always called via defer so a failed
// call can never permanently block the analyzer.
func (t *throttle) release() {
	t.inFlight.Store(false)
}

// window renders the prompt excerpt for a transcript under this config.
func (c Config) window(t *transcript.Transcript) string {
	return t.Window(c.PromptWindowMessages, c.PromptMessageMaxLen)
}

// windowIDs lists the ids of the messages the prompt window covers, so a
// detected insight can point back at the exchange it came from.
func (c Config) windowIDs(t *transcript.Transcript) []string {
	tail := t.Tail(c.PromptWindowMessages)
	ids := make([]string, 0, len(tail))
	for _, m := range tail {
		ids = append(ids, m.ID)
	}
	return ids
}

// actionTextOK applies the accepted length bounds, half-open [min, max).
func (c Config) actionTextOK(text string) bool {
	return len(text) >= c.ActionTextMinLen && len(text) < c.ActionTextMaxLen
}
