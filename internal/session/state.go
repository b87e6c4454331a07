// Package session ties the signal engine together: it owns the live
// conversation state, runs the local analyzers synchronously and the
// LLM-backed analyzers asynchronously as messages arrive, and persists
// everything through explicit repository calls at session boundaries.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goalkeep/internal/logging"
	"goalkeep/internal/signal"
	"goalkeep/internal/store"
	"goalkeep/internal/transcript"
)

// State is the persisted form of one conversation session.
type State struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Goal       string                `json:"goal"`
	Transcript transcript.Transcript `json:"transcript"`
	Momentum   signal.Momentum       `json:"momentum"`
	Actions    transcript.ActionList `json:"actions"`
	// Derived annotations referencing messages by id; messages themselves
	// stay immutable.
	Pinned    map[string]bool   `json:"pinned,omitempty"`
	Summaries map[string]string `json:"summaries,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewState creates an empty session for a goal.
func NewState(title, goal string) *State {
	now := time.Now()
	return &State{
		ID:        uuid.NewString(),
		Title:     title,
		Goal:      goal,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Summary is the index entry for a session, used for listing and
// read-only cross-session context surfacing.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Goal      string    `json:"goal"`
	Messages  int       `json:"messages"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository persists sessions in the KV store: an index under the
// sessions key plus one payload key per session.
type Repository struct {
	kv store.KV
}

// NewRepository creates a session repository.
func NewRepository(kv store.KV) *Repository {
	return &Repository{kv: kv}
}

func sessionKey(id string) string {
	return "session:" + id
}

// List returns the session index, newest first. Missing or malformed
// index data yields an empty list.
func (r *Repository) List() []Summary {
	raw, found, err := r.kv.Get(store.KeySessions)
	if err != nil || !found {
		return nil
	}
	var idx []Summary
	if err := json.Unmarshal([]byte(raw), &idx); err != nil {
		logging.Get(logging.CategorySession).Warn("session index malformed, starting empty: %v", err)
		return nil
	}
	return idx
}

// Load reads a session by id.
func (r *Repository) Load(id string) (*State, error) {
	raw, found, err := r.kv.Get(sessionKey(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("session %s not found", id)
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("session %s malformed: %w", id, err)
	}
	return &st, nil
}

// Save writes the session payload and refreshes the index entry.
func (r *Repository) Save(st *State) error {
	st.UpdatedAt = time.Now()

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := r.kv.Set(sessionKey(st.ID), string(data)); err != nil {
		return err
	}

	idx := r.List()
	entry := Summary{
		ID:        st.ID,
		Title:     st.Title,
		Goal:      st.Goal,
		Messages:  st.Transcript.Len(),
		UpdatedAt: st.UpdatedAt,
	}
	replaced := false
	for i := range idx {
		if idx[i].ID == st.ID {
			idx[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		idx = append([]Summary{entry}, idx...)
	}
	idxData, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return r.kv.Set(store.KeySessions, string(idxData))
}

// Delete removes a session payload and its index entry.
func (r *Repository) Delete(id string) error {
	type deleter interface{ Delete(key string) error }
	if d, ok := r.kv.(deleter); ok {
		if err := d.Delete(sessionKey(id)); err != nil {
			return err
		}
	}
	idx := r.List()
	for i := range idx {
		if idx[i].ID == id {
			idx = append(idx[:i], idx[i+1:]...)
			break
		}
	}
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return r.kv.Set(store.KeySessions, string(data))
}
