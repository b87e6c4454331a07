package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClientWithConfig(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  hello there  "}},
			},
		})
	})

	got, err := client.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "hello there" {
		t.Errorf("expected trimmed content, got %q", got)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("expected a single user message, got %+v", gotReq.Messages)
	}
}

func TestOpenAIClient_CompleteWithSystem(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	})

	if _, err := client.CompleteWithSystem(context.Background(), "be terse", "hi"); err != nil {
		t.Fatalf("CompleteWithSystem error: %v", err)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %+v", gotReq.Messages)
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "be terse" {
		t.Errorf("system message not first: %+v", gotReq.Messages[0])
	}
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	t.Parallel()

	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected an error for a non-200 status")
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	t.Parallel()

	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected an error when no choices are returned")
	}
}

func TestOpenAIClient_MissingKey(t *testing.T) {
	t.Parallel()

	client := NewOpenAIClient("")
	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected an error without an API key")
	}
}
