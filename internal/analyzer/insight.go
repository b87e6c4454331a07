package analyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"goalkeep/internal/llm"
	"goalkeep/internal/logging"
	"goalkeep/internal/transcript"
)

// insightEnvelope is the JSON shape the insight prompts ask for.
type insightEnvelope struct {
	HasInsight       bool     `json:"hasInsight"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Confidence       float64  `json:"confidence"`
	Crystallization  float64  `json:"crystallization"`
	SuggestedActions []string `json:"suggestedActions"`
}

var validInsightTypes = map[transcript.InsightType]bool{
	transcript.InsightConvergence:   true,
	transcript.InsightBreakthrough:  true,
	transcript.InsightConnection:    true,
	transcript.InsightClarification: true,
	transcript.InsightPivot:         true,
}

// toInsight converts an envelope into a domain insight, applying the
// strict confidence gate. Returns nil when the envelope is below
// threshold or malformed; below-threshold results are discarded silently,
// never surfaced partially.
func (e *insightEnvelope) toInsight(confidenceMin float64) *transcript.Insight {
	if !e.HasInsight || e.Confidence <= confidenceMin {
		return nil
	}
	typ := transcript.InsightType(e.Type)
	if !validInsightTypes[typ] {
		typ = transcript.InsightConnection
	}
	if e.Title == "" {
		return nil
	}
	return &transcript.Insight{
		ID:               uuid.NewString(),
		Type:             typ,
		Title:            e.Title,
		Description:      e.Description,
		Confidence:       e.Confidence,
		Crystallization:  clamp01(e.Crystallization),
		SuggestedActions: e.SuggestedActions,
		Timestamp:        time.Now(),
	}
}

// InsightAnalyzer detects emerging insights via the completion service.
type InsightAnalyzer struct {
	client   llm.Client
	cfg      Config
	throttle throttle
}

// NewInsightAnalyzer creates an insight analyzer.
func NewInsightAnalyzer(client llm.Client, cfg Config) *InsightAnalyzer {
	return &InsightAnalyzer{
		client:   client,
		cfg:      cfg,
		throttle: throttle{interval: cfg.InsightInterval},
	}
}

// Analyze runs insight detection if the throttle allows it. Nil result
// with nil error means skipped, no insight, or below the confidence gate.
func (a *InsightAnalyzer) Analyze(ctx context.Context, t *transcript.Transcript, goal string) (*transcript.Insight, error) {
	log := logging.Get(logging.CategoryInsight)

	if !a.throttle.tryAcquire(t.UserMessageCount()) {
		log.Debug("insight check skipped (throttled or in flight)")
		return nil, nil
	}
	defer a.throttle.release()

	prompt := buildPrompt(insightPromptTemplate, goal, a.cfg.window(t))
	resp, err := a.client.CompleteWithSystem(ctx, systemPromptJSON, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := llm.ExtractJSONObject(resp)
	if !ok {
		log.Warn("insight response contained no JSON object")
		return nil, nil
	}
	var env insightEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Warn("insight response failed to parse: %v", err)
		return nil, nil
	}

	in := env.toInsight(a.cfg.InsightConfidenceMin)
	if in == nil {
		log.Debug("insight discarded (hasInsight=%v confidence=%.2f)", env.HasInsight, env.Confidence)
		return nil, nil
	}
	in.RelatedMessageIDs = a.cfg.windowIDs(t)
	log.Info("insight detected: type=%s title=%q confidence=%.2f", in.Type, in.Title, in.Confidence)
	return in, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
