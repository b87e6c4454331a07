package signal

import (
	"testing"
	"time"

	"goalkeep/internal/transcript"
)

// =============================================================================
// KEYWORD EXTRACTION TESTS
// =============================================================================

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("Build a REST API for the todo app")

	want := []string{"build", "rest", "api", "todo", "app"}
	if len(got) != len(want) {
		t.Fatalf("expected %d keywords, got %d: %v", len(want), len(got), got)
	}
	for _, kw := range want {
		if _, ok := got[kw]; !ok {
			t.Errorf("missing keyword %q", kw)
		}
	}
}

func TestExtractKeywords_StopWordsAndShortTokens(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("I want to learn about the AI")

	if len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}

func TestExtractKeywords_StripsPunctuationAndDedupes(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("Refactor, refactor, REFACTOR! (auth)")

	if len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %v", got)
	}
	if _, ok := got["refactor"]; !ok {
		t.Error("missing keyword \"refactor\"")
	}
	if _, ok := got["auth"]; !ok {
		t.Error("missing keyword \"auth\"")
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	t.Parallel()

	if got := ExtractKeywords(""); len(got) != 0 {
		t.Errorf("expected empty set, got %v", got)
	}
}

// =============================================================================
// DRIFT CHECK TESTS
// =============================================================================

func msgs(texts ...string) []transcript.Message {
	out := make([]transcript.Message, len(texts))
	base := time.Now()
	for i, text := range texts {
		out[i] = transcript.Message{
			ID:        string(rune('a' + i)),
			Role:      transcript.RoleUser,
			Text:      text,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestCheckDrift_TooFewMessages(t *testing.T) {
	t.Parallel()

	kw := ExtractKeywords("build a rest api")
	got := CheckDrift(msgs("one", "two", "three", "four", "five"), kw, DefaultDriftOptions())

	if got.IsDrifting {
		t.Error("expected vacuous alignment below the message minimum")
	}
	if got.MatchRatio != 1 {
		t.Errorf("expected ratio 1, got %v", got.MatchRatio)
	}
}

func TestCheckDrift_EmptyKeywords(t *testing.T) {
	t.Parallel()

	got := CheckDrift(msgs("a", "b", "c", "d", "e", "f"), nil, DefaultDriftOptions())

	if got.IsDrifting || got.MatchRatio != 1 {
		t.Errorf("expected vacuous alignment with no keywords, got %+v", got)
	}
}

func TestCheckDrift_OnTopic(t *testing.T) {
	t.Parallel()

	kw := ExtractKeywords("Build a REST API for the todo app")
	conversation := msgs(
		"old stuff", "old stuff",
		"Let's design the API endpoints",
		"The todo model needs a due date",
		"Should the REST routes be versioned?",
		"Yes, and the app config should carry the prefix",
	)

	got := CheckDrift(conversation, kw, DefaultDriftOptions())

	if got.IsDrifting {
		t.Errorf("expected aligned, got ratio %v", got.MatchRatio)
	}
	if got.MatchRatio < 0.5 {
		t.Errorf("expected a high match ratio, got %v", got.MatchRatio)
	}
}

func TestCheckDrift_OffTopic(t *testing.T) {
	t.Parallel()

	kw := ExtractKeywords("Build a REST API for the todo app")
	conversation := msgs(
		"Let's design the API endpoints",
		"The todo model needs a due date",
		"By the way, what's a good pasta recipe?",
		"Carbonara is hard to beat",
		"Do you add cream?",
		"Never, just eggs and pecorino",
	)

	got := CheckDrift(conversation, kw, DefaultDriftOptions())

	if !got.IsDrifting {
		t.Errorf("expected drifting, got ratio %v", got.MatchRatio)
	}
	if got.MatchRatio != 0 {
		t.Errorf("expected ratio 0 in the recent window, got %v", got.MatchRatio)
	}
}

func TestCheckDrift_WindowLimitsScan(t *testing.T) {
	t.Parallel()

	kw := ExtractKeywords("kubernetes deployment")
	// On-topic text exists but only outside the 4-message window.
	conversation := msgs(
		"the kubernetes deployment is ready",
		"great, the deployment worked",
		"unrelated one", "unrelated two", "unrelated three", "unrelated four",
	)

	got := CheckDrift(conversation, kw, DefaultDriftOptions())

	if !got.IsDrifting {
		t.Errorf("expected drift when topical text ages out of the window, got %+v", got)
	}
}

func TestCheckDrift_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	kw := map[string]struct{}{"alpha": {}, "beta": {}, "gamma": {}, "delta": {}}
	conversation := msgs("x", "x", "x", "x", "x", "talking about alpha here")

	// 1 of 4 keywords matched: ratio 0.25, above the 0.15 default.
	got := CheckDrift(conversation, kw, DefaultDriftOptions())
	if got.IsDrifting {
		t.Errorf("ratio %v should not trip the 0.15 threshold", got.MatchRatio)
	}

	// Same conversation under a high-sensitivity threshold trips.
	opts := DefaultDriftOptions()
	opts.Threshold = 0.35
	got = CheckDrift(conversation, kw, opts)
	if !got.IsDrifting {
		t.Errorf("ratio %v should trip the 0.35 threshold", got.MatchRatio)
	}
}
