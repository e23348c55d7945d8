package llm

import "time"

// Provider represents an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderOpenAI is the OpenAI provider (default).
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application.
type Config struct {
	Provider Provider
	Models   map[Role]string

	// RequestTimeout is the hard deadline applied around every outbound
	// model call. A call that exceeds it fails as a transient error.
	RequestTimeout time.Duration
}

// DefaultRequestTimeout bounds a single model call. The upstream API
// enforces no useful deadline of its own.
const DefaultRequestTimeout = 60 * time.Second

// DefaultConfig returns the default configuration (currently OpenAI).
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default OpenAI configuration.
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[Role]string{
			RolePrimary: "gpt-4",
			RoleCheap:   "gpt-3.5-turbo",
		},
		RequestTimeout: DefaultRequestTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[Role]string{
			RolePrimary: "gemini-2.5-pro",
			RoleCheap:   "gemini-2.5-flash-lite",
		},
		RequestTimeout: DefaultRequestTimeout,
	}
}

// GetModel returns the model name for a given role.
func (c *Config) GetModel(role Role) string {
	if model, ok := c.Models[role]; ok {
		return model
	}
	// Fall back to the primary slot when a role is unconfigured.
	if model, ok := c.Models[RolePrimary]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a role.
func (c *Config) WithModel(role Role, model string) *Config {
	newConfig := &Config{
		Provider:       c.Provider,
		Models:         make(map[Role]string),
		RequestTimeout: c.RequestTimeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[role] = model
	return newConfig
}

// timeout returns the configured request timeout, defaulting when unset.
func (c *Config) timeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return DefaultRequestTimeout
}
