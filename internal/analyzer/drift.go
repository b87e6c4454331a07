package analyzer

import (
	"context"
	"encoding/json"
	"strings"

	"goalkeep/internal/llm"
	"goalkeep/internal/logging"
	"goalkeep/internal/transcript"
)

// DriftSignal is the LLM's judgement on goal drift. Nil means no signal
// (throttled, dropped, or unparseable response).
type DriftSignal struct {
	IsDrifting bool   `json:"isDrifting"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

// DriftAnalyzer consults the completion service when heuristic drift
// signals are inconclusive.
type DriftAnalyzer struct {
	client   llm.Client
	cfg      Config
	throttle throttle
}

// NewDriftAnalyzer creates a drift analyzer.
func NewDriftAnalyzer(client llm.Client, cfg Config) *DriftAnalyzer {
	return &DriftAnalyzer{
		client:   client,
		cfg:      cfg,
		throttle: throttle{interval: cfg.DriftInterval},
	}
}

// Analyze runs a drift check if the throttle allows it. Returns nil with a
// nil error when the call is skipped or the response carries no signal;
// only transport failures are returned as errors.
func (a *DriftAnalyzer) Analyze(ctx context.Context, t *transcript.Transcript, goal string) (*DriftSignal, error) {
	log := logging.Get(logging.CategoryDrift)

	if strings.TrimSpace(goal) == "" {
		return nil, nil // no goal, nothing to drift from
	}
	if !a.throttle.tryAcquire(t.UserMessageCount()) {
		log.Debug("drift check skipped (throttled or in flight)")
		return nil, nil
	}
	defer a.throttle.release()

	prompt := buildPrompt(driftPromptTemplate, goal, a.cfg.window(t))
	resp, err := a.client.CompleteWithSystem(ctx, systemPromptJSON, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSONObject(resp)
	if !ok {
		log.Warn("drift response contained no JSON object")
		return nil, nil
	}
	var sig DriftSignal
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		log.Warn("drift response failed to parse: %v", err)
		return nil, nil
	}
	log.Info("drift check: drifting=%v reason=%q", sig.IsDrifting, sig.Reason)
	return &sig, nil
}
