package cognitive

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMerge_BlendsPresentAxesOnly(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{
		ThinkingStyles: map[string]float64{"analytical": 1.0},
		Patterns:       map[string]float64{"iteration": 0.0},
	})

	// 0.5*0.7 + 1.0*0.3
	if got := p.ThinkingStyles["analytical"]; math.Abs(got-0.65) > 1e-9 {
		t.Errorf("analytical = %v, want 0.65", got)
	}
	// 0.5*0.7 + 0.0*0.3
	if got := p.Patterns["iteration"]; math.Abs(got-0.35) > 1e-9 {
		t.Errorf("iteration = %v, want 0.35", got)
	}
	// Absent axes keep their neutral value.
	if got := p.ThinkingStyles["visual"]; got != 0.5 {
		t.Errorf("visual = %v, want untouched 0.5", got)
	}
}

func TestMerge_UnknownAxisIgnored(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{ThinkingStyles: map[string]float64{"telepathic": 1.0}})

	if _, ok := p.ThinkingStyles["telepathic"]; ok {
		t.Error("unknown axis must not be added to the profile")
	}
}

func TestMerge_NeutralObservationIsFixedPoint(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()
	before := map[string]float64{}
	for k, v := range p.ThinkingStyles {
		before[k] = v
	}

	// Observing exactly the current values changes nothing.
	b.Merge(p, Update{ThinkingStyles: before})

	if diff := cmp.Diff(before, p.ThinkingStyles, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("neutral merge changed axes (-want +got):\n%s", diff)
	}
}

func TestMerge_PreferencesOverwriteWhenPresent(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()
	p.Preferences = Preferences{BriefVsDetailed: "detailed", PacePreference: "fast"}

	b.Merge(p, Update{Preferences: Preferences{BriefVsDetailed: "brief"}})

	want := Preferences{BriefVsDetailed: "brief", PacePreference: "fast"}
	if diff := cmp.Diff(want, p.Preferences); diff != "" {
		t.Errorf("preferences (-want +got):\n%s", diff)
	}
}

func TestMergeModel_CreatesModelAndConcepts(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{Concepts: []Concept{
		{Label: "Caching", Importance: 0.4},
		{Label: "Sharding", Importance: 0.6},
	}})

	if len(p.MentalModels) != 1 {
		t.Fatalf("expected one mental model, got %d", len(p.MentalModels))
	}
	model := p.MentalModels[0]
	if len(model.Concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %+v", model.Concepts)
	}
	for _, c := range model.Concepts {
		if c.ID == "" {
			t.Errorf("concept missing id: %+v", c)
		}
		if c.X < 0 || c.X > 800 || c.Y < 0 || c.Y > 800 {
			t.Errorf("concept placed outside bounds: %+v", c)
		}
	}
	if math.Abs(model.Confidence-0.1) > 1e-9 {
		t.Errorf("confidence = %v, want 0.1 after one merge", model.Confidence)
	}
}

func TestMergeModel_ImportanceOnlyRises(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{Concepts: []Concept{{Label: "Caching", Importance: 0.8}}})
	b.Merge(p, Update{Concepts: []Concept{{Label: "caching", Importance: 0.3}}})

	model := p.MentalModels[0]
	if len(model.Concepts) != 1 {
		t.Fatalf("case-insensitive label should match, got %+v", model.Concepts)
	}
	if model.Concepts[0].Importance != 0.8 {
		t.Errorf("importance lowered to %v", model.Concepts[0].Importance)
	}

	b.Merge(p, Update{Concepts: []Concept{{Label: "CACHING", Importance: 0.9}}})
	if p.MentalModels[0].Concepts[0].Importance != 0.9 {
		t.Error("importance should rise on a stronger observation")
	}
}

func TestMergeModel_ImportanceRiseAfterAppendInSamePass(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{Concepts: []Concept{{Label: "Caching", Importance: 0.2}}})

	// A new concept ahead of the raise grows the concept slice; the
	// raise must still land on the existing entry.
	b.Merge(p, Update{Concepts: []Concept{
		{Label: "Sharding", Importance: 0.5},
		{Label: "Caching", Importance: 0.9},
	}})

	model := p.MentalModels[0]
	if len(model.Concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %+v", model.Concepts)
	}
	for _, c := range model.Concepts {
		if c.Label == "Caching" && c.Importance != 0.9 {
			t.Errorf("Caching importance = %v, want 0.9", c.Importance)
		}
	}
}

func TestMergeModel_ConnectionsByLabelOrID(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{
		Concepts: []Concept{
			{Label: "Caching", Importance: 0.5},
			{Label: "Latency", Importance: 0.5},
		},
		Connections: []Connection{
			{FromID: "caching", ToID: "Latency", Type: "reduces", Strength: 0.9},
		},
	})

	model := p.MentalModels[0]
	if len(model.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %+v", model.Connections)
	}
	conn := model.Connections[0]
	if conn.FromID == "caching" || conn.ToID == "Latency" {
		t.Error("label endpoints must resolve to concept ids")
	}

	// Same logical pair again, this time by id: deduplicated.
	b.Merge(p, Update{Connections: []Connection{
		{FromID: conn.FromID, ToID: conn.ToID, Type: "reduces", Strength: 0.2},
	}})
	if got := len(p.MentalModels[0].Connections); got != 1 {
		t.Errorf("expected dedup by endpoint pair, got %d connections", got)
	}
}

func TestMergeModel_UnknownEndpointDropped(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	b.Merge(p, Update{
		Concepts: []Concept{{Label: "Caching", Importance: 0.5}},
		Connections: []Connection{
			{FromID: "Caching", ToID: "Nonexistent", Type: "relates"},
		},
	})

	if got := len(p.MentalModels[0].Connections); got != 0 {
		t.Errorf("connection with an unknown endpoint must be dropped, got %d", got)
	}
}

func TestMergeModel_ConfidenceCaps(t *testing.T) {
	t.Parallel()

	b := NewBlender(DefaultBlenderConfig())
	p := NewProfile()

	for i := 0; i < 15; i++ {
		b.Merge(p, Update{Concepts: []Concept{{Label: "Caching", Importance: 0.5}}})
	}
	if got := p.MentalModels[0].Confidence; got != 1 {
		t.Errorf("confidence = %v, want capped at 1", got)
	}
}
