package signal

import (
	"strings"
	"testing"

	"goalkeep/internal/transcript"
)

func assistantMsg(id, text string) transcript.Message {
	return transcript.Message{ID: id, Role: transcript.RoleAssistant, Text: text}
}

// =============================================================================
// ACTION EXTRACTION TESTS
// =============================================================================

func TestExtractor_TwoPatternsOneMessage(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorOptions())
	items := e.AnalyzeMessage(assistantMsg("m1",
		"I need to refactor the auth module. Let's also consider adding tests."))

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Text != "Refactor the auth module" {
		t.Errorf("unexpected first item text: %q", items[0].Text)
	}
	if items[0].Priority != transcript.PriorityHigh {
		t.Errorf("expected high priority, got %s", items[0].Priority)
	}
	if items[1].Text != "Also consider adding tests" {
		t.Errorf("unexpected second item text: %q", items[1].Text)
	}
	if items[1].Priority != transcript.PriorityMedium {
		t.Errorf("expected medium priority, got %s", items[1].Priority)
	}
	for _, it := range items {
		if it.SourceMessageID != "m1" {
			t.Errorf("source message id not set: %+v", it)
		}
	}
}

func TestExtractor_UserMessagesIgnored(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorOptions())
	items := e.AnalyzeMessage(transcript.Message{
		ID:   "u1",
		Role: transcript.RoleUser,
		Text: "We should deploy on Friday.",
	})

	if items != nil {
		t.Errorf("expected nothing from a user message, got %+v", items)
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorOptions())
	m := assistantMsg("m1", "Don't forget to update the changelog.")

	first := e.AnalyzeMessage(m)
	if len(first) != 1 {
		t.Fatalf("expected 1 item on first pass, got %d", len(first))
	}
	if second := e.AnalyzeMessage(m); second != nil {
		t.Errorf("re-analysis of the same id must be a no-op, got %+v", second)
	}
}

func TestExtractor_LengthBounds(t *testing.T) {
	t.Parallel()

	e := NewExtractor(ExtractorOptions{MinLen: 5, MaxLen: 200})

	// 4 chars after the trigger: below the accepted minimum.
	if items := e.AnalyzeMessage(assistantMsg("m1", "You need to rest")); items != nil {
		t.Errorf("expected short capture rejected, got %+v", items)
	}

	// Exactly at MaxLen is rejected; the bound is half-open.
	long := strings.Repeat("x", 200)
	if items := e.AnalyzeMessage(assistantMsg("m2", "make sure "+long)); items != nil {
		t.Errorf("expected 200-char capture rejected, got %+v", items)
	}
	if items := e.AnalyzeMessage(assistantMsg("m3", "make sure "+long[:199])); len(items) != 1 {
		t.Errorf("expected 199-char capture accepted, got %+v", items)
	}
}

func TestExtractor_PriorityTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		priority transcript.Priority
	}{
		{"You should review the error handling.", transcript.PriorityHigh},
		{"Make sure that the migration is reversible.", transcript.PriorityHigh},
		{"The next step is to wire up the repository.", transcript.PriorityMedium},
		{"I'd recommend splitting that function.", transcript.PriorityLow},
		{"It might be worth caching the result.", transcript.PriorityLow},
	}
	for i, tc := range tests {
		e := NewExtractor(DefaultExtractorOptions())
		items := e.AnalyzeMessage(assistantMsg(string(rune('a'+i)), tc.text))
		if len(items) != 1 {
			t.Errorf("%q: expected 1 item, got %d", tc.text, len(items))
			continue
		}
		if items[0].Priority != tc.priority {
			t.Errorf("%q: expected %s, got %s", tc.text, tc.priority, items[0].Priority)
		}
	}
}

func TestExtractor_CapturesStopAtSentenceEnd(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultExtractorOptions())
	items := e.AnalyzeMessage(assistantMsg("m1", "Let's ship it today! Then we celebrate."))

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Text != "Ship it today" {
		t.Errorf("capture should stop at punctuation, got %q", items[0].Text)
	}
}

// =============================================================================
// HIGHLIGHT TESTS
// =============================================================================

func TestCheckForHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"That was the breakthrough we needed.", true},
		{"Aha, the ROOT CAUSE was the stale cache.", true},
		{"And then it clicked for me.", true},
		{"Just a regular reply about nothing.", false},
		{"", false},
	}
	for _, tc := range tests {
		m := transcript.Message{ID: "x", Role: transcript.RoleAssistant, Text: tc.text}
		if got := CheckForHighlight(m); got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.text, tc.want, got)
		}
	}
}
