// Package summary proxies settlement summaries from an OpenAI-compatible
// text-generation service. It streams tokens as they arrive and falls back
// through a configured model list when a model is unavailable.
package summary

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/You2499/settleease/internal/logger"
)

// Config holds the upstream connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Models  []string
	Timeout time.Duration
}

// Client streams chat completions from the configured upstream.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client for the given upstream configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ErrNoModels is returned when every configured model failed before any
// token was produced.
var ErrNoModels = errors.New("all summary models failed")

const systemPrompt = "You are a concise assistant for a group expense app. " +
	"Summarize the settlement state in plain language: who owes whom, who is settled, " +
	"and the suggested payments. Keep it short and friendly."

// Stream sends the prompt to each configured model in order until one
// starts producing tokens, invoking onDelta for every content fragment.
// It returns the model that answered and the accumulated text. Once a model
// has produced output there is no further fallback: a mid-stream failure is
// returned as an error because partial tokens were already delivered.
func (c *Client) Stream(ctx context.Context, prompt string, onDelta func(token string) error) (string, string, error) {
	var lastErr error
	for _, model := range c.cfg.Models {
		text, started, err := c.streamModel(ctx, model, prompt, onDelta)
		if err == nil {
			return model, text, nil
		}
		if started {
			return model, text, err
		}
		logger.Get().Warnw("summary model failed, trying next",
			"model", model,
			"error", err.Error(),
		)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrNoModels
	}
	return "", "", fmt.Errorf("%w: %v", ErrNoModels, lastErr)
}

// chatChunk is the shape of one streamed chat/completions SSE frame.
type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *Client) streamModel(ctx context.Context, model, prompt string, onDelta func(string) error) (string, bool, error) {
	body, err := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"stream":      true,
		"temperature": 0.3,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(detail))
	}

	var text strings.Builder
	started := false
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				// Some compatible upstreams never send [DONE]; EOF ends the stream.
				return text.String(), started, nil
			}
			return text.String(), started, fmt.Errorf("stream read failed: %w", err)
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || !bytes.HasPrefix(line, []byte("data: ")) {
			continue
		}
		data := bytes.TrimPrefix(line, []byte("data: "))
		if string(data) == "[DONE]" {
			return text.String(), started, nil
		}

		var chunk chatChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip unparseable frames rather than aborting the stream.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}

		started = true
		text.WriteString(token)
		if err := onDelta(token); err != nil {
			return text.String(), started, err
		}
	}
}
