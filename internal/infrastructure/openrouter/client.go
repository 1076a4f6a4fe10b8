// Package openrouter implements the validation model against an
// OpenRouter-compatible chat-completion endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"NewsAnalyzer/internal/ports"
	"NewsAnalyzer/internal/retry"
)

const (
	defaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel    = "mistralai/mistral-7b-instruct"

	temperature = 0.3
	maxTokens   = 500
)

// Client posts validation prompts as single-message chat completions.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

var _ ports.ChatCompleter = (*Client)(nil)

// NewClient builds a client from endpoint, model and key; empty endpoint
// or model select the OpenRouter defaults.
func NewClient(endpoint, model, apiKey string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the first choice's content.
// Failures are classified for the retrying caller: rate limits keep the
// exponential backoff, other statuses retry after 1s, timeouts and
// network errors after 2s.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", retry.Fixed(2*time.Second, fmt.Errorf("request timeout: %w", err))
		}
		return "", retry.Fixed(2*time.Second, fmt.Errorf("network error: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("rate limit exceeded (%s)", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", retry.Fixed(time.Second,
			fmt.Errorf("api error %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", retry.Fixed(2*time.Second, fmt.Errorf("decode response: %w", err))
	}
	if len(payload.Choices) == 0 {
		return "", retry.Fixed(2*time.Second, fmt.Errorf("empty response from API"))
	}

	return payload.Choices[0].Message.Content, nil
}

// Model reports the configured model name for bookkeeping fields.
func (c *Client) Model() string {
	return c.model
}
