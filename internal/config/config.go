// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zalint/text-corrector/internal/llm"
)

// AppConfig is the full runtime configuration, loaded from environment
// variables. Call Load once at startup.
type AppConfig struct {
	// Port is the HTTP listen port.
	Port int

	// DatabaseURL is the PostgreSQL connection string. Empty disables
	// persistence: the API still corrects, but nothing is saved.
	DatabaseURL string

	// Provider selects the model backend ("openai" or "gemini").
	Provider llm.Provider

	// APIKey authenticates against the selected provider.
	APIKey string

	// PrimaryModel and CheapModel override the provider defaults.
	PrimaryModel string
	CheapModel   string

	// RedisAddr enables the shared Redis cache when set; otherwise the
	// in-process cache is used.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CacheMaxEntries bounds the in-process cache.
	CacheMaxEntries int

	// CacheTTL is how long cached corrections stay valid.
	CacheTTL time.Duration

	// LLMTimeout bounds every individual model call.
	LLMTimeout time.Duration

	// SentinelEnabled toggles the security screening model call.
	SentinelEnabled bool
}

// Load reads the application configuration from the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            3000,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Provider:        llm.Provider(envDefault("LLM_PROVIDER", string(llm.ProviderOpenAI))),
		PrimaryModel:    os.Getenv("PRIMARY_MODEL"),
		CheapModel:      os.Getenv("CHEAP_MODEL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CacheMaxEntries: 1000,
		CacheTTL:        time.Hour,
		LLMTimeout:      llm.DefaultRequestTimeout,
		SentinelEnabled: os.Getenv("SENTINEL_DISABLED") != "true",
	}

	switch cfg.Provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	case llm.ProviderGemini:
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %q", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key set for provider %q", cfg.Provider)
	}

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = envInt("CACHE_MAX_ENTRIES", cfg.CacheMaxEntries); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = envSeconds("CACHE_TTL_SECONDS", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = envSeconds("LLM_TIMEOUT_SECONDS", cfg.LLMTimeout); err != nil {
		return nil, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.CacheMaxEntries < 1 {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got: %d", cfg.CacheMaxEntries)
	}

	return cfg, nil
}

// LLMConfig builds the model-layer configuration for the selected
// provider, applying any model overrides.
func (c *AppConfig) LLMConfig() *llm.Config {
	var lc *llm.Config
	if c.Provider == llm.ProviderGemini {
		lc = llm.DefaultGeminiConfig()
	} else {
		lc = llm.DefaultOpenAIConfig()
	}
	if c.PrimaryModel != "" {
		lc = lc.WithModel(llm.RolePrimary, c.PrimaryModel)
	}
	if c.CheapModel != "" {
		lc = lc.WithModel(llm.RoleCheap, c.CheapModel)
	}
	lc.RequestTimeout = c.LLMTimeout
	return lc
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func envSeconds(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1 second, got: %d", key, n)
	}
	return time.Duration(n) * time.Second, nil
}
