package transcript

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InsightType classifies a detected insight.
type InsightType string

const (
	InsightConvergence   InsightType = "convergence"
	InsightBreakthrough  InsightType = "breakthrough"
	InsightConnection    InsightType = "connection"
	InsightClarification InsightType = "clarification"
	InsightPivot         InsightType = "pivot"
)

// Insight is a detected moment in the conversation. Immutable after
// creation except for removal from the history.
type Insight struct {
	ID                string      `json:"id"`
	Type              InsightType `json:"type"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Confidence        float64     `json:"confidence"`      // how sure the detector is
	Crystallization   float64     `json:"crystallization"` // how formed the idea itself is
	RelatedMessageIDs []string    `json:"relatedMessageIds,omitempty"`
	SuggestedActions  []string    `json:"suggestedActions,omitempty"`
	Timestamp         time.Time   `json:"timestamp"`
}

// InsightHistory is a bounded, newest-first list of insights.
type InsightHistory struct {
	Insights []Insight `json:"insights"`
	Max      int       `json:"-"`
}

// Add prepends an insight, trimming the history to Max entries.
func (h *InsightHistory) Add(in Insight) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	h.Insights = append([]Insight{in}, h.Insights...)
	if h.Max > 0 && len(h.Insights) > h.Max {
		h.Insights = h.Insights[:h.Max]
	}
}

// Remove deletes an insight by id. Unknown ids are ignored.
func (h *InsightHistory) Remove(id string) {
	for i, in := range h.Insights {
		if in.ID == id {
			h.Insights = append(h.Insights[:i], h.Insights[i+1:]...)
			return
		}
	}
}

// Priority ranks an action item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ActionItem is a task surfaced from the conversation. Mutated only via
// the completed/dismissed toggles; never auto-deleted.
type ActionItem struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Completed       bool     `json:"completed"`
	Dismissed       bool     `json:"dismissed"`
	SourceMessageID string   `json:"sourceMessageId,omitempty"`
	Priority        Priority `json:"priority"`
}

// ActionList holds the running action items for a session.
type ActionList struct {
	Items []ActionItem `json:"items"`
}

// Merge inserts candidates that are not already present, comparing by
// case-insensitive text equality. Returns the number actually added.
// Dedup lives here, not in extraction; the two stages test independently.
func (l *ActionList) Merge(candidates []ActionItem) int {
	added := 0
	for _, c := range candidates {
		if l.contains(c.Text) {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		l.Items = append(l.Items, c)
		added++
	}
	return added
}

func (l *ActionList) contains(text string) bool {
	for _, it := range l.Items {
		if strings.EqualFold(it.Text, text) {
			return true
		}
	}
	return false
}

// Complete toggles an item's completed flag. Returns false for unknown ids.
func (l *ActionList) Complete(id string) bool {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items[i].Completed = !l.Items[i].Completed
			return true
		}
	}
	return false
}

// Dismiss marks an item dismissed. Returns false for unknown ids.
func (l *ActionList) Dismiss(id string) bool {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items[i].Dismissed = true
			return true
		}
	}
	return false
}

// Clip is a user-saved excerpt of conversation text.
type Clip struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	Category        string    `json:"category"`
	SourceMessageID string    `json:"sourceMessageId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewClip creates a clip with a fresh ID and the current time.
func NewClip(text, category, sourceMessageID string) Clip {
	return Clip{
		ID:              uuid.NewString(),
		Text:            text,
		Category:        category,
		SourceMessageID: sourceMessageID,
		CreatedAt:       time.Now(),
	}
}
