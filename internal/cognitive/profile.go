// Package cognitive maintains the long-lived cognitive profile: thinking
// style axes, recurring patterns, and an evolving mental model of the
// user's concepts. One-shot LLM estimates are folded in by exponential
// blending rather than replacement.
package cognitive

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ThinkingStyleAxes are the eight independent style axes. They do not sum
// to any fixed total.
var ThinkingStyleAxes = []string{
	"analytical",
	"intuitive",
	"visual",
	"verbal",
	"sequential",
	"holistic",
	"concrete",
	"abstract",
}

// PatternAxes are the five recurring-pattern axes.
var PatternAxes = []string{
	"divergence",
	"convergence",
	"iteration",
	"synthesis",
	"questioning",
}

// Preferences are overwritten outright when observed, never blended.
type Preferences struct {
	BriefVsDetailed      string `json:"briefVsDetailed,omitempty"`
	StructuredVsFreeform string `json:"structuredVsFreeform,omitempty"`
	PacePreference       string `json:"pacePreference,omitempty"`
}

// Concept is a node in the mental model.
type Concept struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Importance float64 `json:"importance"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Connection links two concepts. Identity is the (FromID, ToID) pair.
type Connection struct {
	ID       string  `json:"id"`
	FromID   string  `json:"fromId"`
	ToID     string  `json:"toId"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

// MentalModel is a concept graph with a reinforcement-count confidence:
// +0.1 per merge pass, capped at 1. It measures rounds of reinforcement,
// not statistical quality.
type MentalModel struct {
	ID          string       `json:"id"`
	Concepts    []Concept    `json:"concepts"`
	Connections []Connection `json:"connections"`
	Confidence  float64      `json:"confidence"`
}

// Profile is the persistent cognitive profile.
type Profile struct {
	ThinkingStyles map[string]float64 `json:"thinkingStyles"`
	Patterns       map[string]float64 `json:"patterns"`
	MentalModels   []MentalModel      `json:"mentalModels"`
	Preferences    Preferences        `json:"preferences"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// NewProfile returns a profile with all axes at a neutral 0.5.
func NewProfile() *Profile {
	p := &Profile{
		ThinkingStyles: make(map[string]float64, len(ThinkingStyleAxes)),
		Patterns:       make(map[string]float64, len(PatternAxes)),
	}
	for _, axis := range ThinkingStyleAxes {
		p.ThinkingStyles[axis] = 0.5
	}
	for _, axis := range PatternAxes {
		p.Patterns[axis] = 0.5
	}
	return p
}

// Update is a one-shot observation from the LLM. Only the fields present
// are applied; absent axes leave the profile untouched.
type Update struct {
	ThinkingStyles map[string]float64 `json:"thinkingStyles,omitempty"`
	Patterns       map[string]float64 `json:"patterns,omitempty"`
	Preferences    Preferences        `json:"preferences,omitempty"`
	Concepts       []Concept          `json:"concepts,omitempty"`
	Connections    []Connection       `json:"connections,omitempty"`
}

// concept placement bounds for newly observed concepts
const placementSpan = 800.0

func randomPlacement() (float64, float64) {
	return rand.Float64() * placementSpan, rand.Float64() * placementSpan
}

func newConceptID() string {
	return uuid.NewString()
}
