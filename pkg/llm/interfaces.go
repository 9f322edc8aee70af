// Package llm provides clients for remote completion services.
package llm

import "context"

// Client is the minimal completion capability the engine needs. Use this
// interface for dependency injection to enable mocking in tests.
type Client interface {
	// Complete sends a single-turn prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure implementations satisfy Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
