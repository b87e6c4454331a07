// Package behavior infers work-style traits from accumulated interaction
// counters and surfaces observations the user can confirm or deny.
package behavior

import (
	"time"
)

// Metrics are the raw interaction counters behind trait inference.
// They only ever increase, except by explicit reset.
type Metrics struct {
	TangentCount         int            `json:"tangentCount"`
	SelfCorrectionCount  int            `json:"selfCorrectionCount"`
	QuestionBeforeAction int            `json:"questionBeforeAction"`
	QuickDecision        int            `json:"quickDecision"`
	InsightsAccepted     int            `json:"insightsAccepted"`
	InsightsDismissed    int            `json:"insightsDismissed"`
	ActionClips          int            `json:"actionClips"`
	IdeaClips            int            `json:"ideaClips"`
	ClipsByCategory      map[string]int `json:"clipsByCategory,omitempty"`
	ActionItemsCreated   int            `json:"actionItemsCreated"`
	ActionItemsCompleted int            `json:"actionItemsCompleted"`
}

// Stable trait ids. Recomputation replaces the trait list wholesale and
// relies on these ids to carry confirmation state across passes.
const (
	TraitExploration        = "exploration-tendency"
	TraitDecisionStyle      = "decision-style"
	TraitInsightReceptivity = "insight-receptivity"
	TraitCaptureStyle       = "capture-style"
)

// InferredTrait is one behaviorally-inferred axis. Confidence is derived
// purely from sample volume, never from variance, so it cannot decrease
// while the counters stand.
type InferredTrait struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"` // 0..1
	Value       float64   `json:"value"`      // 0..1
	// Nil until the user answers an observation; true=confirmed, false=denied.
	ConfirmedByUser *bool     `json:"confirmedByUser"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// ObservationResponse is the user's answer to an observation.
type ObservationResponse string

const (
	RespondConfirm ObservationResponse = "confirm"
	RespondDeny    ObservationResponse = "deny"
	RespondDismiss ObservationResponse = "dismiss"
)

// PendingObservation is a system-generated question about an inferred
// trait. TraitID is empty for rules that bypass the trait machinery
// (action pile-up).
type PendingObservation struct {
	ID        string    `json:"id"`
	TraitID   string    `json:"traitId,omitempty"`
	Message   string    `json:"message"`
	Question  string    `json:"question"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	Dismissed bool      `json:"dismissed"`
}

// Profile is the long-lived behavioral state: one instance per user,
// loaded at session start and saved through the profile repository.
type Profile struct {
	Metrics      Metrics              `json:"metrics"`
	Traits       []InferredTrait      `json:"traits"`
	Observations []PendingObservation `json:"observations"`
	LastAnalyzed time.Time            `json:"lastAnalyzed"`
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{
		Metrics: Metrics{ClipsByCategory: make(map[string]int)},
	}
}

// RecordTangent notes a conversational tangent.
func (p *Profile) RecordTangent() { p.Metrics.TangentCount++ }

// RecordSelfCorrection notes the user steering themselves back.
func (p *Profile) RecordSelfCorrection() { p.Metrics.SelfCorrectionCount++ }

// RecordQuestionBeforeAction notes a deliberative decision.
func (p *Profile) RecordQuestionBeforeAction() { p.Metrics.QuestionBeforeAction++ }

// RecordQuickDecision notes a fast decision.
func (p *Profile) RecordQuickDecision() { p.Metrics.QuickDecision++ }

// RecordInsightAccepted notes the user keeping a surfaced insight.
func (p *Profile) RecordInsightAccepted() { p.Metrics.InsightsAccepted++ }

// RecordInsightDismissed notes the user dismissing a surfaced insight.
func (p *Profile) RecordInsightDismissed() { p.Metrics.InsightsDismissed++ }

// RecordClip notes a saved clip. Categories named "action" or "task" count
// toward the action side of captureStyle; everything else counts as ideas.
func (p *Profile) RecordClip(category string) {
	if p.Metrics.ClipsByCategory == nil {
		p.Metrics.ClipsByCategory = make(map[string]int)
	}
	p.Metrics.ClipsByCategory[category]++
	switch category {
	case "action", "task", "todo":
		p.Metrics.ActionClips++
	default:
		p.Metrics.IdeaClips++
	}
}

// RecordActionItemCreated notes a new action item entering the list.
func (p *Profile) RecordActionItemCreated() { p.Metrics.ActionItemsCreated++ }

// RecordActionItemCompleted notes a completed action item.
func (p *Profile) RecordActionItemCompleted() { p.Metrics.ActionItemsCompleted++ }

// Trait returns the trait with the given id, or nil.
func (p *Profile) Trait(id string) *InferredTrait {
	for i := range p.Traits {
		if p.Traits[i].ID == id {
			return &p.Traits[i]
		}
	}
	return nil
}

// TraitValue returns the trait's computed value, or a neutral 0.5 when the
// trait is absent or the user denied it. Denied traits must never drive
// personalization even if their confidence remains high.
func (p *Profile) TraitValue(id string) float64 {
	t := p.Trait(id)
	if t == nil {
		return 0.5
	}
	if t.ConfirmedByUser != nil && !*t.ConfirmedByUser {
		return 0.5
	}
	return t.Value
}
