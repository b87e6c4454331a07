package analyzer

import (
	"context"
	"encoding/json"
	"strings"

	"goalkeep/internal/llm"
	"goalkeep/internal/logging"
	"goalkeep/internal/transcript"
)

// UnifiedResult destructures one combined response into the three
// independent result shapes. Acceptance semantics are identical to the
// single-purpose analyzers except for the stricter insight gate.
type UnifiedResult struct {
	Drift   *DriftSignal
	Insight *transcript.Insight
	Actions []transcript.ActionItem
}

// unifiedEnvelope is the JSON shape of the combined prompt.
type unifiedEnvelope struct {
	Drift       *DriftSignal      `json:"drift"`
	Insight     *insightEnvelope  `json:"insight"`
	ActionItems []actionCandidate `json:"actionItems"`
}

// UnifiedAnalyzer requests drift, insight, and action items in a single
// completion call to minimize external traffic.
type UnifiedAnalyzer struct {
	client   llm.Client
	cfg      Config
	throttle throttle
}

// NewUnifiedAnalyzer creates a unified analyzer.
func NewUnifiedAnalyzer(client llm.Client, cfg Config) *UnifiedAnalyzer {
	return &UnifiedAnalyzer{
		client:   client,
		cfg:      cfg,
		throttle: throttle{interval: cfg.UnifiedInterval},
	}
}

// Analyze runs the combined analysis if the throttle allows it. A nil
// result with nil error means the call was skipped or unparseable.
func (a *UnifiedAnalyzer) Analyze(ctx context.Context, t *transcript.Transcript, goal string) (*UnifiedResult, error) {
	log := logging.Get(logging.CategoryAPI)

	if strings.TrimSpace(goal) == "" {
		return nil, nil
	}
	if !a.throttle.tryAcquire(t.UserMessageCount()) {
		log.Debug("unified check skipped (throttled or in flight)")
		return nil, nil
	}
	defer a.throttle.release()

	prompt := buildPrompt(unifiedPromptTemplate, goal, a.cfg.window(t))
	resp, err := a.client.CompleteWithSystem(ctx, systemPromptJSON, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSONObject(resp)
	if !ok {
		log.Warn("unified response contained no JSON object")
		return nil, nil
	}
	var env unifiedEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Warn("unified response failed to parse: %v", err)
		return nil, nil
	}

	result := &UnifiedResult{Drift: env.Drift}
	if env.Insight != nil {
		// Stricter gate than the single-analyzer path.
		result.Insight = env.Insight.toInsight(a.cfg.UnifiedInsightConfidenceMin)
		if result.Insight != nil {
			result.Insight.RelatedMessageIDs = a.cfg.windowIDs(t)
		}
	}
	if len(env.ActionItems) > 0 {
		actions := actionEnvelope{ActionItems: env.ActionItems}
		result.Actions = actions.toItems(a.cfg)
	}
	log.Info("unified analysis: drift=%v insight=%v actions=%d",
		result.Drift != nil && result.Drift.IsDrifting, result.Insight != nil, len(result.Actions))
	return result, nil
}
