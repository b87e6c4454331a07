package signal

import (
	"strings"

	"goalkeep/internal/transcript"
)

// Trend classifies the direction of conversational momentum.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendStable  Trend = "stable"
	TrendFalling Trend = "falling"
)

// Momentum is the smoothed engagement estimate for a conversation.
type Momentum struct {
	Level float64 `json:"level"` // 0..1 smoothed engagement
	Trend Trend   `json:"trend"`
	Depth float64 `json:"depth"` // 0..1, grows with total message count
}

// MomentumOptions carries the estimator's tuned constants.
type MomentumOptions struct {
	Window         int     // messages considered per update
	BaselineDelta  float64 // ms; reference cadence and default when <2 deltas
	LengthScale    float64 // chars at which the length score saturates
	PaceWeight     float64
	LengthWeight   float64
	QuestionWeight float64
	SmoothingKeep  float64 // weight on the previous level
	SmoothingBlend float64 // weight on the instantaneous value
	Hysteresis     float64 // band around the previous level for trend
	DepthScale     float64 // total messages at which depth reaches 1
}

// DefaultMomentumOptions mirrors config.AnalysisConfig. SmoothingKeep and
// SmoothingBlend are the same shared pair the cognitive blender uses.
func DefaultMomentumOptions() MomentumOptions {
	return MomentumOptions{
		Window:         6,
		BaselineDelta:  60000,
		LengthScale:    500,
		PaceWeight:     0.3,
		LengthWeight:   0.4,
		QuestionWeight: 0.3,
		SmoothingKeep:  0.7,
		SmoothingBlend: 0.3,
		Hysteresis:     0.1,
		DepthScale:     20,
	}
}

// MomentumEstimator maintains the smoothed momentum state across updates.
type MomentumEstimator struct {
	opts    MomentumOptions
	current Momentum
}

// NewMomentumEstimator creates an estimator starting from a neutral state.
func NewMomentumEstimator(opts MomentumOptions) *MomentumEstimator {
	return &MomentumEstimator{
		opts:    opts,
		current: Momentum{Level: 0, Trend: TrendStable, Depth: 0},
	}
}

// Current returns the latest momentum estimate.
func (e *MomentumEstimator) Current() Momentum {
	return e.current
}

// Restore replaces the estimator state, used when resuming a saved session.
func (e *MomentumEstimator) Restore(m Momentum) {
	e.current = m
}

// Update recomputes momentum from the transcript. Fewer than 3 messages is
// a no-op and the previous state is retained.
func (e *MomentumEstimator) Update(messages []transcript.Message) Momentum {
	if len(messages) < 3 {
		return e.current
	}

	window := messages
	if len(messages) > e.opts.Window {
		window = messages[len(messages)-e.opts.Window:]
	}

	totalLen := 0
	questions := 0
	for _, m := range window {
		totalLen += len(m.Text)
		if strings.Contains(m.Text, "?") {
			questions++
		}
	}
	avgLen := float64(totalLen) / float64(len(window))

	avgDelta := e.opts.BaselineDelta
	if len(window) >= 3 {
		var sum float64
		deltas := 0
		for i := 1; i < len(window); i++ {
			sum += float64(window[i].Timestamp.Sub(window[i-1].Timestamp).Milliseconds())
			deltas++
		}
		if deltas > 1 && sum > 0 {
			avgDelta = sum / float64(deltas)
		}
	}

	pace := min1(e.opts.BaselineDelta / avgDelta)
	length := min1(avgLen / e.opts.LengthScale)
	question := float64(questions) / float64(e.opts.Window)

	instant := e.opts.PaceWeight*pace + e.opts.LengthWeight*length + e.opts.QuestionWeight*question

	prev := e.current.Level
	level := prev*e.opts.SmoothingKeep + instant*e.opts.SmoothingBlend

	trend := TrendStable
	switch {
	case instant > prev+e.opts.Hysteresis:
		trend = TrendRising
	case instant < prev-e.opts.Hysteresis:
		trend = TrendFalling
	}

	e.current = Momentum{
		Level: level,
		Trend: trend,
		Depth: min1(float64(len(messages)) / e.opts.DepthScale),
	}
	return e.current
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
