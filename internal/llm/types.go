// Package llm abstracts the text-generation backend behind a narrow
// completion interface. One implementation speaks the OpenAI-compatible chat
// completions API; one returns canned, schema-valid payloads for
// deterministic offline testing. Neither retries: retry policy belongs to
// callers wrapping the whole pipeline.
package llm

import (
	"context"
	"time"
)

// CompletionRequest carries one prompt to the backend.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// TokenUsage reports backend-side token accounting when available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the backend's freeform text plus call metadata.
type CompletionResponse struct {
	Content    string
	StopReason string
	Usage      TokenUsage
	RequestID  string
}

// Client is the generation backend adapter. Implementations must honor
// context cancellation at the call boundary and must not retry internally.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// Config configures the live backend client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// HasKey reports whether an authentication credential is present. The key's
// storage mechanism is the key-configuration collaborator's concern.
func (c Config) HasKey() bool {
	return c.APIKey != ""
}
