package session

import (
	"goalkeep/internal/analyzer"
	"goalkeep/internal/behavior"
	"goalkeep/internal/signal"
)

// DriftPolicy combines the heuristic drift assessment, the optional LLM
// drift signal, and the user's personalization hints into the final
// alert decision.
//
// Low sensitivity widens the escape hatch: both the LLM flag and the
// base ratio must agree before alerting. High sensitivity alerts on a
// looser ratio or the LLM flag alone. Without a hint, either signal on
// its own trips the alert at the base threshold.
type DriftPolicy struct {
	BaseThreshold float64 // ratio below this is heuristic drift (0.15)
	HighThreshold float64 // loosened ratio for high sensitivity (0.35)
}

// ShouldAlert decides whether to surface a drift alert.
func (p DriftPolicy) ShouldAlert(heur signal.DriftAssessment, sig *analyzer.DriftSignal, hints behavior.Hints) bool {
	llmDrift := sig != nil && sig.IsDrifting

	switch hints.DriftSensitivity {
	case behavior.SensitivityLow:
		return llmDrift && heur.MatchRatio < p.BaseThreshold
	case behavior.SensitivityHigh:
		return heur.MatchRatio < p.HighThreshold || llmDrift
	default:
		return heur.IsDrifting || llmDrift
	}
}
