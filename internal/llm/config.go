package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all provider configuration.
type Config struct {
	// Provider selects the backend.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single report request including retries.
	Timeout time.Duration `yaml:"timeout"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Any OpenAI-compatible endpoint.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// apiKeyEnv names the environment variable holding each provider's key.
var apiKeyEnv = map[string]string{
	"gemini":     "GEMINI_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// APIKeyEnv returns the environment variable that holds the API key for
// provider, or "" for providers that need none.
func APIKeyEnv(provider string) string {
	return apiKeyEnv[provider]
}

// DefaultConfig returns a Config using Gemini with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ApplyEnv overlays API keys and AQUASAFE_* overrides onto cfg.
//
// When AQUASAFE_LLM_PROVIDER is unset and the configured provider has no
// key, the first provider whose standard key variable is set is selected
// (Gemini, OpenAI, Anthropic, OpenRouter).
func ApplyEnv(cfg Config) Config {
	cfg.Gemini.APIKey = firstNonEmpty(os.Getenv("AQUASAFE_GEMINI_API_KEY"), os.Getenv("GEMINI_API_KEY"), cfg.Gemini.APIKey)
	cfg.OpenAI.APIKey = firstNonEmpty(os.Getenv("AQUASAFE_OPENAI_API_KEY"), os.Getenv("OPENAI_API_KEY"), cfg.OpenAI.APIKey)
	cfg.Anthropic.APIKey = firstNonEmpty(os.Getenv("AQUASAFE_ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_API_KEY"), cfg.Anthropic.APIKey)
	cfg.OpenRouter.APIKey = firstNonEmpty(os.Getenv("AQUASAFE_OPENROUTER_API_KEY"), os.Getenv("OPENROUTER_API_KEY"), cfg.OpenRouter.APIKey)

	if p := os.Getenv("AQUASAFE_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	} else if !cfg.hasKey(cfg.Provider) {
		for _, p := range []string{"gemini", "openai", "anthropic", "openrouter"} {
			if cfg.hasKey(p) {
				cfg.Provider = p
				break
			}
		}
	}

	if m := os.Getenv("AQUASAFE_LLM_MODEL"); m != "" {
		switch cfg.Provider {
		case "gemini":
			cfg.Gemini.Model = m
		case "openai":
			cfg.OpenAI.Model = m
		case "anthropic":
			cfg.Anthropic.Model = m
		case "openrouter":
			cfg.OpenRouter.Model = m
		}
	}
	if u := os.Getenv("AQUASAFE_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	return cfg
}

func (c Config) hasKey(provider string) bool {
	switch provider {
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "openrouter":
		if !c.hasKey(c.Provider) {
			return fmt.Errorf("%s is required for the %s provider", apiKeyEnv[c.Provider], c.Provider)
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
