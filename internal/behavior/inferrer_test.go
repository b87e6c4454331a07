package behavior

import (
	"testing"
	"time"
)

func newTestInferrer(at time.Time) *Inferrer {
	inf := NewInferrer(DefaultInferrerConfig())
	inf.now = func() time.Time { return at }
	return inf
}

// =============================================================================
// TRAIT ANALYSIS TESTS
// =============================================================================

func TestAnalyze_BelowMinSamplesStaysInactive(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	p.Metrics.TangentCount = 2
	p.Metrics.SelfCorrectionCount = 2 // 4 samples, minimum is 5

	newTestInferrer(time.Now()).Analyze(p)

	if len(p.Traits) != 0 {
		t.Errorf("expected no active traits, got %+v", p.Traits)
	}
}

func TestAnalyze_TraitValues(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	p.Metrics.TangentCount = 8
	p.Metrics.SelfCorrectionCount = 2
	p.Metrics.QuestionBeforeAction = 15
	p.Metrics.QuickDecision = 5
	p.Metrics.InsightsAccepted = 3
	p.Metrics.InsightsDismissed = 9
	p.Metrics.IdeaClips = 1
	p.Metrics.ActionClips = 4

	newTestInferrer(time.Now()).Analyze(p)

	tests := []struct {
		id         string
		value      float64
		confidence float64
	}{
		{TraitExploration, 0.8, 10.0 / 15},         // 1 - 2/10
		{TraitDecisionStyle, 0.75, 1},              // 15/20, confidence 20/20
		{TraitInsightReceptivity, 0.25, 12.0 / 15}, // 3/12
		{TraitCaptureStyle, 0.2, 5.0 / 15},         // 1 - 4/5
	}
	for _, tc := range tests {
		tr := p.Trait(tc.id)
		if tr == nil {
			t.Errorf("%s: trait missing", tc.id)
			continue
		}
		if !approx(tr.Value, tc.value) {
			t.Errorf("%s: value %v, want %v", tc.id, tr.Value, tc.value)
		}
		if !approx(tr.Confidence, tc.confidence) {
			t.Errorf("%s: confidence %v, want %v", tc.id, tr.Confidence, tc.confidence)
		}
	}
}

func TestAnalyze_ConfidenceCapsAtOne(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	p.Metrics.TangentCount = 100

	newTestInferrer(time.Now()).Analyze(p)

	if tr := p.Trait(TraitExploration); tr == nil || tr.Confidence != 1 {
		t.Errorf("expected confidence capped at 1, got %+v", tr)
	}
}

func TestAnalyze_PreservesConfirmation(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	p.Metrics.TangentCount = 10
	inf := newTestInferrer(time.Now())
	inf.Analyze(p)

	confirmed := true
	p.Trait(TraitExploration).ConfirmedByUser = &confirmed

	p.Metrics.TangentCount = 20
	inf.Analyze(p)

	tr := p.Trait(TraitExploration)
	if tr.ConfirmedByUser == nil || !*tr.ConfirmedByUser {
		t.Error("confirmation state must survive recomputation")
	}
}

func TestTraitValue_DeniedReadsNeutral(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	p.Metrics.TangentCount = 10
	newTestInferrer(time.Now()).Analyze(p)

	if v := p.TraitValue(TraitExploration); v != 1 {
		t.Fatalf("precondition: expected value 1, got %v", v)
	}

	denied := false
	p.Trait(TraitExploration).ConfirmedByUser = &denied

	if v := p.TraitValue(TraitExploration); v != 0.5 {
		t.Errorf("denied trait must read 0.5, got %v", v)
	}
	if v := p.TraitValue("no-such-trait"); v != 0.5 {
		t.Errorf("absent trait must read 0.5, got %v", v)
	}
}

// =============================================================================
// OBSERVATION GENERATION TESTS
// =============================================================================

// strongExplorer returns a profile whose exploration trait qualifies for
// an observation: pronounced value, confidence above the gate.
func strongExplorer(inf *Inferrer) *Profile {
	p := NewProfile()
	p.Metrics.TangentCount = 9
	p.Metrics.SelfCorrectionCount = 1 // value 0.9, confidence 10/15
	inf.Analyze(p)
	return p
}

func TestGenerateObservations_QualifyingTrait(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := strongExplorer(inf)

	obs := inf.GenerateObservations(p)

	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %+v", obs)
	}
	if obs[0].TraitID != TraitExploration {
		t.Errorf("unexpected trait id %q", obs[0].TraitID)
	}
	if len(p.Observations) != 1 {
		t.Error("observation not recorded on the profile")
	}
}

func TestGenerateObservations_MiddlingValueSkipped(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := NewProfile()
	p.Metrics.TangentCount = 5
	p.Metrics.SelfCorrectionCount = 5 // value 0.5, well inside the band
	inf.Analyze(p)

	if obs := inf.GenerateObservations(p); obs != nil {
		t.Errorf("middling trait should not generate observations, got %+v", obs)
	}
}

func TestGenerateObservations_LowConfidenceSkipped(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := NewProfile()
	p.Metrics.TangentCount = 6 // value 1 but confidence 6/15 = 0.4
	inf.Analyze(p)

	if obs := inf.GenerateObservations(p); obs != nil {
		t.Errorf("low-confidence trait should not generate observations, got %+v", obs)
	}
}

func TestGenerateObservations_GlobalCooldown(t *testing.T) {
	t.Parallel()

	start := time.Now()
	inf := newTestInferrer(start)
	p := strongExplorer(inf)

	if obs := inf.GenerateObservations(p); len(obs) != 1 {
		t.Fatalf("expected the first observation, got %+v", obs)
	}

	// A different trait becomes pronounced 10 minutes later; still inside
	// the 30-minute global cooldown, so nothing new appears.
	p.Metrics.InsightsAccepted = 9
	p.Metrics.InsightsDismissed = 1
	inf.now = func() time.Time { return start.Add(10 * time.Minute) }
	inf.Analyze(p)
	if obs := inf.GenerateObservations(p); obs != nil {
		t.Errorf("cooldown must suppress all generation, got %+v", obs)
	}

	// After the cooldown the second trait may speak, but the first one
	// still has an outstanding observation and stays quiet.
	inf.now = func() time.Time { return start.Add(31 * time.Minute) }
	obs := inf.GenerateObservations(p)
	if len(obs) != 1 || obs[0].TraitID != TraitInsightReceptivity {
		t.Errorf("expected one observation for the new trait, got %+v", obs)
	}
}

func TestGenerateObservations_OnePerPass(t *testing.T) {
	t.Parallel()

	start := time.Now()
	inf := newTestInferrer(start)
	p := NewProfile()
	p.Metrics.TangentCount = 9
	p.Metrics.SelfCorrectionCount = 1 // exploration 0.9, confidence 10/15
	p.Metrics.InsightsAccepted = 1
	p.Metrics.InsightsDismissed = 9 // receptivity 0.1, confidence 10/15
	p.Metrics.ActionItemsCreated = 10
	p.Metrics.ActionItemsCompleted = 1 // pile-up rule qualifies too
	inf.Analyze(p)

	obs := inf.GenerateObservations(p)
	if len(obs) != 1 {
		t.Fatalf("one pass must emit at most one observation, got %+v", obs)
	}

	// The remaining candidates surface one at a time on later passes.
	inf.now = func() time.Time { return start.Add(31 * time.Minute) }
	if obs := inf.GenerateObservations(p); len(obs) != 1 {
		t.Fatalf("expected exactly one more observation, got %+v", obs)
	}
	inf.now = func() time.Time { return start.Add(62 * time.Minute) }
	if obs := inf.GenerateObservations(p); len(obs) != 1 {
		t.Fatalf("expected the third candidate alone, got %+v", obs)
	}
	if len(p.Observations) != 3 {
		t.Errorf("expected 3 recorded observations, got %d", len(p.Observations))
	}
}

func TestGenerateObservations_AnsweredTraitStaysQuiet(t *testing.T) {
	t.Parallel()

	start := time.Now()
	inf := newTestInferrer(start)
	p := strongExplorer(inf)
	obs := inf.GenerateObservations(p)

	if !inf.Respond(p, obs[0].ID, RespondConfirm) {
		t.Fatal("respond failed")
	}

	inf.now = func() time.Time { return start.Add(time.Hour) }
	if again := inf.GenerateObservations(p); again != nil {
		t.Errorf("answered trait must not re-emit, got %+v", again)
	}
}

func TestGenerateObservations_ActionPileUp(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := NewProfile()
	p.Metrics.ActionItemsCreated = 10
	p.Metrics.ActionItemsCompleted = 2 // ratio 0.2, below 0.3

	obs := inf.GenerateObservations(p)
	if len(obs) != 1 {
		t.Fatalf("expected the pile-up observation, got %+v", obs)
	}
	if obs[0].TraitID != "" {
		t.Errorf("pile-up observation must not bind a trait, got %q", obs[0].TraitID)
	}
	if obs[0].Priority != "high" {
		t.Errorf("expected high priority, got %q", obs[0].Priority)
	}
}

func TestGenerateObservations_HealthyCompletionNoPileUp(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := NewProfile()
	p.Metrics.ActionItemsCreated = 10
	p.Metrics.ActionItemsCompleted = 4 // ratio 0.4

	if obs := inf.GenerateObservations(p); obs != nil {
		t.Errorf("healthy completion ratio should not trigger, got %+v", obs)
	}
}

// =============================================================================
// RESPONSE TESTS
// =============================================================================

func TestRespond(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := strongExplorer(inf)
	obs := inf.GenerateObservations(p)

	if !inf.Respond(p, obs[0].ID, RespondDeny) {
		t.Fatal("respond failed")
	}
	tr := p.Trait(TraitExploration)
	if tr.ConfirmedByUser == nil || *tr.ConfirmedByUser {
		t.Error("deny must mark the trait denied")
	}
	if !p.Observations[0].Dismissed {
		t.Error("observation must be dismissed after a response")
	}
	if inf.Respond(p, obs[0].ID, RespondConfirm) {
		t.Error("already-dismissed observation must not accept a second answer")
	}
	if inf.Respond(p, "unknown", RespondConfirm) {
		t.Error("unknown observation id must report false")
	}
}

func TestRespond_DismissLeavesTraitUntouched(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := strongExplorer(inf)
	obs := inf.GenerateObservations(p)

	if !inf.Respond(p, obs[0].ID, RespondDismiss) {
		t.Fatal("respond failed")
	}
	if p.Trait(TraitExploration).ConfirmedByUser != nil {
		t.Error("dismiss must not write confirmation state")
	}
}

// =============================================================================
// PERSONALIZATION HINT TESTS
// =============================================================================

func TestPersonalizationHints(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := NewProfile()
	p.Metrics.TangentCount = 9
	p.Metrics.SelfCorrectionCount = 1 // exploration 0.9 -> low drift sensitivity
	p.Metrics.QuestionBeforeAction = 8
	p.Metrics.QuickDecision = 2 // decision 0.8 -> prompt for alternatives
	p.Metrics.InsightsAccepted = 1
	p.Metrics.InsightsDismissed = 9 // receptivity 0.1 -> low insight frequency
	inf.Analyze(p)

	h := inf.PersonalizationHints(p)

	if h.DriftSensitivity != SensitivityLow {
		t.Errorf("DriftSensitivity = %s, want low", h.DriftSensitivity)
	}
	if h.PromptForAlternatives == nil || !*h.PromptForAlternatives {
		t.Error("expected PromptForAlternatives true")
	}
	if h.InsightFrequency != SensitivityLow {
		t.Errorf("InsightFrequency = %s, want low", h.InsightFrequency)
	}
}

func TestPersonalizationHints_DeniedTraitContributesNothing(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	p := strongExplorer(inf)

	denied := false
	p.Trait(TraitExploration).ConfirmedByUser = &denied

	if h := inf.PersonalizationHints(p); h.DriftSensitivity != "" {
		t.Errorf("denied trait must not set a hint, got %s", h.DriftSensitivity)
	}
}

func TestPersonalizationHints_EmptyProfile(t *testing.T) {
	t.Parallel()

	inf := newTestInferrer(time.Now())
	h := inf.PersonalizationHints(NewProfile())

	if h.DriftSensitivity != "" || h.InsightFrequency != "" || h.PromptForAlternatives != nil {
		t.Errorf("expected zero hints, got %+v", h)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
