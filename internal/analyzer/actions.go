package analyzer

import (
	"context"
	"encoding/json"
	"strings"

	"goalkeep/internal/llm"
	"goalkeep/internal/logging"
	"goalkeep/internal/transcript"
)

// actionEnvelope is the JSON shape the action prompts ask for.
type actionEnvelope struct {
	ActionItems []actionCandidate `json:"actionItems"`
}

type actionCandidate struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// toItems filters candidates to the accepted length bounds and normalizes
// priorities. Dedup against the running list is the caller's merge step.
func (e *actionEnvelope) toItems(cfg Config) []transcript.ActionItem {
	var items []transcript.ActionItem
	for _, c := range e.ActionItems {
		text := strings.TrimSpace(c.Text)
		if !cfg.actionTextOK(text) {
			continue
		}
		items = append(items, transcript.ActionItem{
			Text:     text,
			Priority: normalizePriority(c.Priority),
		})
	}
	return items
}

func normalizePriority(p string) transcript.Priority {
	switch transcript.Priority(strings.ToLower(p)) {
	case transcript.PriorityHigh:
		return transcript.PriorityHigh
	case transcript.PriorityLow:
		return transcript.PriorityLow
	default:
		return transcript.PriorityMedium
	}
}

// ActionAnalyzer extracts action items via the completion service, used
// when the local pattern extractor comes up empty.
type ActionAnalyzer struct {
	client   llm.Client
	cfg      Config
	throttle throttle
}

// NewActionAnalyzer creates an action-item analyzer.
func NewActionAnalyzer(client llm.Client, cfg Config) *ActionAnalyzer {
	return &ActionAnalyzer{
		client:   client,
		cfg:      cfg,
		throttle: throttle{interval: cfg.ActionInterval},
	}
}

// Analyze runs action extraction if the throttle allows it.
func (a *ActionAnalyzer) Analyze(ctx context.Context, t *transcript.Transcript) ([]transcript.ActionItem, error) {
	log := logging.Get(logging.CategoryActions)

	if !a.throttle.tryAcquire(t.UserMessageCount()) {
		log.Debug("action check skipped (throttled or in flight)")
		return nil, nil
	}
	defer a.throttle.release()

	prompt := buildPrompt(actionPromptTemplate, "", a.cfg.window(t))
	resp, err := a.client.CompleteWithSystem(ctx, systemPromptJSON, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSONObject(resp)
	if !ok {
		log.Warn("action response contained no JSON object")
		return nil, nil
	}
	var env actionEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Warn("action response failed to parse: %v", err)
		return nil, nil
	}

	items := env.toItems(a.cfg)
	log.Info("action extraction: %d candidates accepted", len(items))
	return items, nil
}
