// Package transcript defines the conversation data model: messages,
// insights, action items, and clips, plus the windowing helpers the
// analyzers use to bound prompt size.
package transcript

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation. Messages are immutable once
// appended; derived annotations (pins, summaries) live outside the message
// and reference it by ID.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	Attachments []string  `json:"attachments,omitempty"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Transcript is an ordered, append-only sequence of messages.
type Transcript struct {
	Messages []Message `json:"messages"`
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.Messages = append(t.Messages, m)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// UserMessageCount returns the number of user-authored messages.
// The analyzer throttles advance on this count, not on total messages.
func (t *Transcript) UserMessageCount() int {
	n := 0
	for _, m := range t.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Tail returns the last n messages (all of them if fewer exist).
func (t *Transcript) Tail(n int) []Message {
	if n <= 0 || len(t.Messages) == 0 {
		return nil
	}
	if n >= len(t.Messages) {
		return t.Messages
	}
	return t.Messages[len(t.Messages)-n:]
}

// Window renders the last n messages as a prompt excerpt, truncating each
// message body to maxChars to bound token cost. maxChars <= 0 disables
// per-message truncation.
func (t *Transcript) Window(n, maxChars int) string {
	var b strings.Builder
	for _, m := range t.Tail(n) {
		text := m.Text
		if maxChars > 0 && len(text) > maxChars {
			text = text[:maxChars] + "..."
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
