// Package gemini adapts the Google Gemini SDK to the analysis-model port.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"NewsAnalyzer/internal/ports"
)

const defaultModel = "gemini-2.5-flash"

// Client generates analysis text with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

var _ ports.Generator = (*Client)(nil)

// NewClient builds a Gemini-backed generator. Model defaults to
// gemini-2.5-flash.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Generate runs one inference. An empty reply is returned as-is; the
// calling stage decides whether that is retryable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

// Model reports the configured model name for bookkeeping fields.
func (c *Client) Model() string {
	return c.model
}
