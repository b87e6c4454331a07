package cognitive

import (
	"strings"
	"time"

	"goalkeep/internal/logging"
)

// BlenderConfig carries the blend weights. These are the same shared
// smoothing pair the momentum estimator uses; keep them sourced from
// config.AnalysisConfig rather than re-deriving locally.
type BlenderConfig struct {
	Keep  float64 // weight on the existing value
	Blend float64 // weight on the observation
}

// DefaultBlenderConfig mirrors config.AnalysisConfig's smoothing pair.
func DefaultBlenderConfig() BlenderConfig {
	return BlenderConfig{Keep: 0.7, Blend: 0.3}
}

// Blender folds one-shot observations into the persistent profile.
type Blender struct {
	cfg BlenderConfig
}

// NewBlender creates a blender.
func NewBlender(cfg BlenderConfig) *Blender {
	return &Blender{cfg: cfg}
}

// Merge applies an observed update to the profile in place. Style and
// pattern axes blend exponentially per field present; unknown axis names
// are ignored. Preferences overwrite outright. Concepts and connections
// merge into the first mental model, creating one if none exists.
func (b *Blender) Merge(p *Profile, u Update) {
	log := logging.Get(logging.CategoryCognitive)

	for axis, observed := range u.ThinkingStyles {
		if current, known := p.ThinkingStyles[axis]; known {
			p.ThinkingStyles[axis] = current*b.cfg.Keep + observed*b.cfg.Blend
		}
	}
	for axis, observed := range u.Patterns {
		if current, known := p.Patterns[axis]; known {
			p.Patterns[axis] = current*b.cfg.Keep + observed*b.cfg.Blend
		}
	}

	if u.Preferences.BriefVsDetailed != "" {
		p.Preferences.BriefVsDetailed = u.Preferences.BriefVsDetailed
	}
	if u.Preferences.StructuredVsFreeform != "" {
		p.Preferences.StructuredVsFreeform = u.Preferences.StructuredVsFreeform
	}
	if u.Preferences.PacePreference != "" {
		p.Preferences.PacePreference = u.Preferences.PacePreference
	}

	if len(u.Concepts) > 0 || len(u.Connections) > 0 {
		b.mergeModel(p, u)
	}

	p.UpdatedAt = time.Now()
	log.Debug("cognitive profile merged: %d style axes, %d pattern axes, %d concepts",
		len(u.ThinkingStyles), len(u.Patterns), len(u.Concepts))
}

func (b *Blender) mergeModel(p *Profile, u Update) {
	if len(p.MentalModels) == 0 {
		p.MentalModels = append(p.MentalModels, MentalModel{ID: newConceptID()})
	}
	model := &p.MentalModels[0]

	// Concepts match by case-insensitive label. Importance only ever rises.
	// Index by position, not by element pointer: appends below may grow the
	// slice and a cached pointer would write into the old backing array.
	byLabel := make(map[string]int, len(model.Concepts))
	for i := range model.Concepts {
		byLabel[strings.ToLower(model.Concepts[i].Label)] = i
	}
	for _, c := range u.Concepts {
		key := strings.ToLower(c.Label)
		if i, ok := byLabel[key]; ok {
			if c.Importance > model.Concepts[i].Importance {
				model.Concepts[i].Importance = c.Importance
			}
			continue
		}
		x, y := randomPlacement()
		nc := Concept{
			ID:         newConceptID(),
			Label:      c.Label,
			Importance: c.Importance,
			X:          x,
			Y:          y,
		}
		model.Concepts = append(model.Concepts, nc)
		byLabel[key] = len(model.Concepts) - 1
	}

	// Connections match by (from, to). Observed endpoints may arrive as
	// concept ids or labels; either resolves. A connection referencing a
	// concept the model does not have is dropped silently.
	resolve := func(ref string) (string, bool) {
		for i := range model.Concepts {
			if model.Concepts[i].ID == ref {
				return ref, true
			}
		}
		if i, ok := byLabel[strings.ToLower(ref)]; ok {
			return model.Concepts[i].ID, true
		}
		return "", false
	}
	havePair := make(map[[2]string]bool, len(model.Connections))
	for _, conn := range model.Connections {
		havePair[[2]string{conn.FromID, conn.ToID}] = true
	}
	for _, conn := range u.Connections {
		from, okFrom := resolve(conn.FromID)
		to, okTo := resolve(conn.ToID)
		if !okFrom || !okTo {
			continue
		}
		pair := [2]string{from, to}
		if havePair[pair] {
			continue
		}
		model.Connections = append(model.Connections, Connection{
			ID:       newConceptID(),
			FromID:   from,
			ToID:     to,
			Type:     conn.Type,
			Strength: conn.Strength,
		})
		havePair[pair] = true
	}

	model.Confidence += 0.1
	if model.Confidence > 1 {
		model.Confidence = 1
	}
}
