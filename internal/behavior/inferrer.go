package behavior

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"goalkeep/internal/logging"
)

// InferrerConfig carries the inference constants.
type InferrerConfig struct {
	MinSamples          int           // samples before a trait goes active
	ObservationCooldown time.Duration // global cooldown across all observations
	HintConfidenceMin   float64       // confidence gate for personalization hints
}

// DefaultInferrerConfig mirrors config.AnalysisConfig's behavior defaults.
func DefaultInferrerConfig() InferrerConfig {
	return InferrerConfig{
		MinSamples:          5,
		ObservationCooldown: 30 * time.Minute,
		HintConfidenceMin:   0.3,
	}
}

// traitSpec defines one trait's derivation from the metrics. The
// normalizer sets how many samples reach full confidence.
type traitSpec struct {
	id          string
	name        string
	description string
	normalizer  float64
	samples     func(m Metrics) int
	value       func(m Metrics) float64
}

var traitSpecs = []traitSpec{
	{
		id:          TraitExploration,
		name:        "Exploration tendency",
		description: "How freely you follow tangents versus steering yourself back.",
		normalizer:  15,
		samples:     func(m Metrics) int { return m.TangentCount + m.SelfCorrectionCount },
		value: func(m Metrics) float64 {
			total := m.TangentCount + m.SelfCorrectionCount
			return 1 - float64(m.SelfCorrectionCount)/float64(total)
		},
	},
	{
		id:          TraitDecisionStyle,
		name:        "Decision style",
		description: "Whether you ask questions before acting or decide quickly.",
		normalizer:  20,
		samples:     func(m Metrics) int { return m.QuestionBeforeAction + m.QuickDecision },
		value: func(m Metrics) float64 {
			total := m.QuestionBeforeAction + m.QuickDecision
			return float64(m.QuestionBeforeAction) / float64(total)
		},
	},
	{
		id:          TraitInsightReceptivity,
		name:        "Insight receptivity",
		description: "How often you keep the insights the system surfaces.",
		normalizer:  15,
		samples:     func(m Metrics) int { return m.InsightsAccepted + m.InsightsDismissed },
		value: func(m Metrics) float64 {
			total := m.InsightsAccepted + m.InsightsDismissed
			return float64(m.InsightsAccepted) / float64(total)
		},
	},
	{
		id:          TraitCaptureStyle,
		name:        "Capture style",
		description: "Whether you clip ideas to explore or actions to execute.",
		normalizer:  15,
		samples:     func(m Metrics) int { return m.ActionClips + m.IdeaClips },
		value: func(m Metrics) float64 {
			total := m.ActionClips + m.IdeaClips
			return 1 - float64(m.ActionClips)/float64(total)
		},
	},
}

// Inferrer recomputes traits and generates observations over a profile.
type Inferrer struct {
	cfg InferrerConfig
	now func() time.Time
}

// NewInferrer creates an inferrer.
func NewInferrer(cfg InferrerConfig) *Inferrer {
	return &Inferrer{cfg: cfg, now: time.Now}
}

// Analyze recomputes the trait list wholesale from the current metrics.
// Confirmation state survives recomputation by id lookup; everything else
// is derived fresh. Traits without enough samples stay off the list.
func (inf *Inferrer) Analyze(p *Profile) {
	log := logging.Get(logging.CategoryBehavior)
	prior := make(map[string]*bool, len(p.Traits))
	for _, t := range p.Traits {
		prior[t.ID] = t.ConfirmedByUser
	}

	now := inf.now()
	traits := make([]InferredTrait, 0, len(traitSpecs))
	for _, spec := range traitSpecs {
		n := spec.samples(p.Metrics)
		if n < inf.cfg.MinSamples {
			continue // insufficient data
		}
		confidence := float64(n) / spec.normalizer
		if confidence > 1 {
			confidence = 1
		}
		traits = append(traits, InferredTrait{
			ID:              spec.id,
			Name:            spec.name,
			Description:     spec.description,
			Confidence:      confidence,
			Value:           spec.value(p.Metrics),
			ConfirmedByUser: prior[spec.id],
			LastUpdated:     now,
		})
	}
	p.Traits = traits
	p.LastAnalyzed = now
	log.Debug("trait analysis: %d active traits", len(traits))
}

// Observation generation thresholds: a trait qualifies when its value is
// pronounced in either direction and its confidence has built up.
const (
	obsValueHigh     = 0.7
	obsValueLow      = 0.3
	obsConfidenceMin = 0.5
)

// Action pile-up rule constants. This rule reads raw counters directly
// and deliberately bypasses the trait machinery.
const (
	pileUpMinCreated      = 5
	pileUpCompletionBelow = 0.3
)

// GenerateObservations emits at most ONE new observation per pass, no
// matter how many conditions qualify; remaining candidates wait for a
// later pass. Generation is skipped entirely while any undismissed
// observation younger than the cooldown exists - the cooldown is global,
// not per trait. Traits that already have an outstanding undismissed
// observation, or whose confirmation is already answered, never re-emit.
func (inf *Inferrer) GenerateObservations(p *Profile) []PendingObservation {
	now := inf.now()

	outstanding := make(map[string]bool)
	for _, o := range p.Observations {
		if o.Dismissed {
			continue
		}
		outstanding[o.TraitID] = true
		if now.Sub(o.CreatedAt) < inf.cfg.ObservationCooldown {
			return nil // a fresh observation is still unresolved
		}
	}

	var created []PendingObservation
	for _, t := range p.Traits {
		if t.Confidence <= obsConfidenceMin {
			continue
		}
		if t.Value <= obsValueHigh && t.Value >= obsValueLow {
			continue
		}
		if outstanding[t.ID] || t.ConfirmedByUser != nil {
			continue
		}
		created = append(created, PendingObservation{
			ID:        uuid.NewString(),
			TraitID:   t.ID,
			Message:   observationMessage(t),
			Question:  "Does that sound right?",
			Priority:  "medium",
			CreatedAt: now,
		})
		break // one fresh observation at a time
	}

	// Parallel non-trait rule: action items piling up uncompleted. Subject
	// to the same one-per-pass cap as the trait rules.
	if len(created) == 0 && p.Metrics.ActionItemsCreated >= pileUpMinCreated && !outstanding[""] {
		ratio := float64(p.Metrics.ActionItemsCompleted) / float64(p.Metrics.ActionItemsCreated)
		if ratio < pileUpCompletionBelow {
			created = append(created, PendingObservation{
				ID:        uuid.NewString(),
				Message:   fmt.Sprintf("You've collected %d action items but completed few of them.", p.Metrics.ActionItemsCreated),
				Question:  "Want to review and prune the list?",
				Priority:  "high",
				CreatedAt: now,
			})
		}
	}

	p.Observations = append(p.Observations, created...)
	if len(created) > 0 {
		logging.Get(logging.CategoryBehavior).Info("generated %d observation(s)", len(created))
	}
	return created
}

func observationMessage(t InferredTrait) string {
	high := t.Value > obsValueHigh
	switch t.ID {
	case TraitExploration:
		if high {
			return "You seem to enjoy following tangents before circling back."
		}
		return "You seem to keep conversations tightly on track."
	case TraitDecisionStyle:
		if high {
			return "You tend to ask clarifying questions before committing to a direction."
		}
		return "You tend to make decisions quickly and adjust later."
	case TraitInsightReceptivity:
		if high {
			return "You usually keep the insights the system surfaces."
		}
		return "You usually dismiss the insights the system surfaces."
	case TraitCaptureStyle:
		if high {
			return "You mostly clip ideas to explore rather than tasks to execute."
		}
		return "You mostly clip concrete actions rather than open ideas."
	}
	return "A pattern is emerging in how you work."
}

// Respond records the user's answer to an observation. Confirm and deny
// write through to the associated trait; dismiss touches only the
// observation. Unknown ids are ignored and reported false.
func (inf *Inferrer) Respond(p *Profile, observationID string, resp ObservationResponse) bool {
	for i := range p.Observations {
		o := &p.Observations[i]
		if o.ID != observationID || o.Dismissed {
			continue
		}
		o.Dismissed = true
		if o.TraitID != "" && (resp == RespondConfirm || resp == RespondDeny) {
			if t := p.Trait(o.TraitID); t != nil {
				v := resp == RespondConfirm
				t.ConfirmedByUser = &v
			}
		}
		return true
	}
	return false
}

// Sensitivity grades a personalization hint.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Hints are the personalization outputs derived from confident traits.
// Zero values mean the hint is absent - low-confidence traits contribute
// nothing rather than a silent default.
type Hints struct {
	DriftSensitivity      Sensitivity
	PromptForAlternatives *bool
	InsightFrequency      Sensitivity
}

// PersonalizationHints derives hints from the current traits. Pure
// function of the profile: only traits with sufficient confidence and no
// user denial contribute.
func (inf *Inferrer) PersonalizationHints(p *Profile) Hints {
	var h Hints
	for _, t := range p.Traits {
		if t.Confidence < inf.cfg.HintConfidenceMin {
			continue
		}
		if t.ConfirmedByUser != nil && !*t.ConfirmedByUser {
			continue // denied traits never personalize
		}
		switch t.ID {
		case TraitExploration:
			// Strong explorers get a looser drift tripwire.
			switch {
			case t.Value > obsValueHigh:
				h.DriftSensitivity = SensitivityLow
			case t.Value < obsValueLow:
				h.DriftSensitivity = SensitivityHigh
			default:
				h.DriftSensitivity = SensitivityMedium
			}
		case TraitDecisionStyle:
			v := t.Value >= 0.5
			h.PromptForAlternatives = &v
		case TraitInsightReceptivity:
			switch {
			case t.Value > obsValueHigh:
				h.InsightFrequency = SensitivityHigh
			case t.Value < obsValueLow:
				h.InsightFrequency = SensitivityLow
			default:
				h.InsightFrequency = SensitivityMedium
			}
		}
	}
	return h
}
