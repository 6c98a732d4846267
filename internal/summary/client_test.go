package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sseBody(tokens ...string) string {
	var b strings.Builder
	for _, token := range tokens {
		frame, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"delta": map[string]string{"content": token}},
			},
		})
		b.WriteString("data: ")
		b.Write(frame)
		b.WriteString("\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func TestClientStream(t *testing.T) {
	t.Run("streams tokens from first model", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("unexpected authorization header %q", got)
			}
			w.Header().Set("Content-Type", "text/event-stream")
			w.Write([]byte(sseBody("Alice owes ", "Bob $30.")))
		}))
		defer server.Close()

		client := NewClient(Config{
			BaseURL: server.URL,
			APIKey:  "test-key",
			Models:  []string{"model-a"},
			Timeout: 5 * time.Second,
		})

		var tokens []string
		model, text, err := client.Stream(context.Background(), "summarize", func(token string) error {
			tokens = append(tokens, token)
			return nil
		})
		if err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		if model != "model-a" {
			t.Errorf("expected model-a, got %s", model)
		}
		if text != "Alice owes Bob $30." {
			t.Errorf("unexpected accumulated text %q", text)
		}
		if len(tokens) != 2 {
			t.Errorf("expected 2 deltas, got %d", len(tokens))
		}
	})

	t.Run("falls back to next model on upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Model string `json:"model"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Model == "model-a" {
				http.Error(w, "model overloaded", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(sseBody("All settled up.")))
		}))
		defer server.Close()

		client := NewClient(Config{
			BaseURL: server.URL,
			Models:  []string{"model-a", "model-b"},
		})

		model, text, err := client.Stream(context.Background(), "summarize", func(string) error { return nil })
		if err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		if model != "model-b" {
			t.Errorf("expected fallback to model-b, got %s", model)
		}
		if text != "All settled up." {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("all models failing returns ErrNoModels", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(Config{
			BaseURL: server.URL,
			Models:  []string{"model-a", "model-b"},
		})

		_, _, err := client.Stream(context.Background(), "summarize", func(string) error { return nil })
		if !errors.Is(err, ErrNoModels) {
			t.Errorf("expected ErrNoModels, got %v", err)
		}
	})

	t.Run("delta callback error stops the stream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sseBody("first", "second", "third")))
		}))
		defer server.Close()

		client := NewClient(Config{
			BaseURL: server.URL,
			Models:  []string{"model-a"},
		})

		stop := errors.New("client disconnected")
		calls := 0
		_, text, err := client.Stream(context.Background(), "summarize", func(string) error {
			calls++
			if calls == 2 {
				return stop
			}
			return nil
		})
		if !errors.Is(err, stop) {
			t.Fatalf("expected callback error, got %v", err)
		}
		if text != "firstsecond" {
			t.Errorf("unexpected partial text %q", text)
		}
	})
}
