package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// EnvPrefix prefixes every explicit LLM setting, e.g. COURSEFORGE_LLM_PROVIDER.
const EnvPrefix = "COURSEFORGE_"

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig drives WithRetry. MaxAttempts <= 1 disables retrying.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOpenAI,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-3.5-turbo"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// envBindings lists the COURSEFORGE_* variables understood by ConfigFromEnv.
func envBindings(cfg *Config) map[string]*string {
	return map[string]*string{
		"LLM_PROVIDER":        &cfg.Provider,
		"ANTHROPIC_API_KEY":   &cfg.Anthropic.APIKey,
		"ANTHROPIC_MODEL":     &cfg.Anthropic.Model,
		"OPENAI_API_KEY":      &cfg.OpenAI.APIKey,
		"OPENAI_MODEL":        &cfg.OpenAI.Model,
		"OPENAI_BASE_URL":     &cfg.OpenAI.BaseURL,
		"GEMINI_API_KEY":      &cfg.Gemini.APIKey,
		"GEMINI_MODEL":        &cfg.Gemini.Model,
		"OPENROUTER_API_KEY":  &cfg.OpenRouter.APIKey,
		"OPENROUTER_MODEL":    &cfg.OpenRouter.Model,
		"OPENROUTER_BASE_URL": &cfg.OpenRouter.BaseURL,
	}
}

// ConfigFromEnv overlays the COURSEFORGE_* variables found by getenv on
// DefaultConfig. A nil getenv reads the process environment.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	for key, dst := range envBindings(&cfg) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	return cfg
}

// DiscoverConfig looks for a plain vendor API key (OPENAI_API_KEY first,
// then Anthropic, Gemini and OpenRouter) and selects the first provider
// that has one.
func DiscoverConfig(getenv func(string) string) (Config, bool) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	candidates := []struct {
		provider string
		env      string
		dst      *string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{ProviderGemini, "GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
	}
	for _, c := range candidates {
		if k := getenv(c.env); k != "" {
			cfg.Provider = c.provider
			*c.dst = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers an explicitly configured provider with a credential
// and falls back to DiscoverConfig. The bool is false when no usable
// credential exists anywhere.
func ResolveConfig(getenv func(string) string) (Config, bool) {
	cfg := ConfigFromEnv(getenv)
	if cfg.Validate() == nil {
		return cfg, true
	}
	return DiscoverConfig(getenv)
}

// Validate checks that the selected provider has its credential.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
