package store

import (
	"encoding/json"

	"goalkeep/internal/behavior"
	"goalkeep/internal/cognitive"
	"goalkeep/internal/logging"
	"goalkeep/internal/transcript"
)

// Fixed keys. Every persisted object lives under one of these (sessions
// additionally under a "session:<id>" key per session).
const (
	KeySessions          = "sessions"
	KeySettings          = "settings"
	KeyClips             = "clips"
	KeyClipCategories    = "clip_categories"
	KeyCognitiveProfile  = "cognitive_profile"
	KeyBehavioralProfile = "behavioral_profile"
	KeyInsightHistory    = "insight_history"
)

// loadJSON reads key into out. A missing key or malformed JSON leaves out
// untouched and reports false; persistence problems never propagate as
// errors to analyzer code, they degrade to defaults.
func loadJSON(kv KV, key string, out interface{}) bool {
	raw, found, err := kv.Get(key)
	if err != nil || !found {
		if err != nil {
			logging.Get(logging.CategoryStore).Error("load %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logging.Get(logging.CategoryStore).Warn("load %s: malformed JSON, using default: %v", key, err)
		return false
	}
	return true
}

func saveJSON(kv KV, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(key, string(data))
}

// BehaviorRepository persists the behavioral profile.
type BehaviorRepository struct {
	kv KV
}

// NewBehaviorRepository creates a repository on the given KV.
func NewBehaviorRepository(kv KV) *BehaviorRepository {
	return &BehaviorRepository{kv: kv}
}

// Load returns the stored profile, or a fresh one when absent or unreadable.
func (r *BehaviorRepository) Load() *behavior.Profile {
	p := behavior.NewProfile()
	loadJSON(r.kv, KeyBehavioralProfile, p)
	return p
}

// Save persists the profile.
func (r *BehaviorRepository) Save(p *behavior.Profile) error {
	return saveJSON(r.kv, KeyBehavioralProfile, p)
}

// CognitiveRepository persists the cognitive profile.
type CognitiveRepository struct {
	kv KV
}

// NewCognitiveRepository creates a repository on the given KV.
func NewCognitiveRepository(kv KV) *CognitiveRepository {
	return &CognitiveRepository{kv: kv}
}

// Load returns the stored profile, or a fresh neutral one.
func (r *CognitiveRepository) Load() *cognitive.Profile {
	p := cognitive.NewProfile()
	loadJSON(r.kv, KeyCognitiveProfile, p)
	return p
}

// Save persists the profile.
func (r *CognitiveRepository) Save(p *cognitive.Profile) error {
	return saveJSON(r.kv, KeyCognitiveProfile, p)
}

// InsightRepository persists the bounded insight history.
type InsightRepository struct {
	kv  KV
	max int
}

// NewInsightRepository creates a repository keeping at most max insights.
func NewInsightRepository(kv KV, max int) *InsightRepository {
	return &InsightRepository{kv: kv, max: max}
}

// Load returns the stored history, or an empty one.
func (r *InsightRepository) Load() *transcript.InsightHistory {
	h := &transcript.InsightHistory{Max: r.max}
	loadJSON(r.kv, KeyInsightHistory, h)
	h.Max = r.max
	return h
}

// Save persists the history.
func (r *InsightRepository) Save(h *transcript.InsightHistory) error {
	return saveJSON(r.kv, KeyInsightHistory, h)
}

// ClipRepository persists clips and the user-defined category list.
type ClipRepository struct {
	kv KV
}

// NewClipRepository creates a repository on the given KV.
func NewClipRepository(kv KV) *ClipRepository {
	return &ClipRepository{kv: kv}
}

// LoadClips returns stored clips, or none.
func (r *ClipRepository) LoadClips() []transcript.Clip {
	var clips []transcript.Clip
	loadJSON(r.kv, KeyClips, &clips)
	return clips
}

// SaveClips persists the clip list.
func (r *ClipRepository) SaveClips(clips []transcript.Clip) error {
	return saveJSON(r.kv, KeyClips, clips)
}

// LoadCategories returns the stored category names, defaulting to the
// built-in pair when absent.
func (r *ClipRepository) LoadCategories() []string {
	var cats []string
	if !loadJSON(r.kv, KeyClipCategories, &cats) || len(cats) == 0 {
		return []string{"idea", "action"}
	}
	return cats
}

// SaveCategories persists the category names.
func (r *ClipRepository) SaveCategories(cats []string) error {
	return saveJSON(r.kv, KeyClipCategories, cats)
}
