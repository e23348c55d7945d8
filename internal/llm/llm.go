// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model roles and providers.
package llm

import (
	"context"
	"fmt"
)

// Role identifies the cost/quality slot a request should run against.
// The pipeline is agnostic to which concrete model backs each role.
type Role string

const (
	// RolePrimary is the high-quality correction model (default: GPT-4).
	RolePrimary Role = "primary"
	// RoleCheap is the low-cost model used for the security sentinel,
	// verification and language detection (default: GPT-3.5-turbo).
	RoleCheap Role = "cheap"
)

// Request carries everything a chat-completion call needs.
type Request struct {
	// Role selects the model slot to run against.
	Role Role

	// SystemPrompt is the system-role content for the call.
	SystemPrompt string

	// UserContent is the user-role content. For correction requests this
	// is the (sanitized) text being corrected.
	UserContent string

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling randomness. The pipeline always runs
	// at or near 0 for format stability.
	Temperature float64
}

// Client is an abstraction over chat-completion providers.
type Client interface {
	// Complete sends the request and returns the raw text of the reply.
	Complete(ctx context.Context, req Request) (string, error)
	// Model returns the concrete model name backing a role.
	Model(role Role) string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a new LLM client based on configuration.
func NewClient(ctx context.Context, cfg *Config, apiKey string) (Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
