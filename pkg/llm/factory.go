package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderNone      = ""
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds configuration for creating an LLM client.
// Provider is "", "openai" or "anthropic"; empty disables hints.
// Endpoint is the API base URL and is required for openai.
type Config struct {
	Provider  string `yaml:"provider" env:"HINT_PROVIDER" env-default:""`
	Endpoint  string `yaml:"endpoint" env:"HINT_ENDPOINT" env-default:""`
	Model     string `yaml:"model" env:"HINT_MODEL" env-default:""`
	APIKey    string `yaml:"-" env:"HINT_API_KEY"`
	MaxTokens int    `yaml:"max_tokens" env:"HINT_MAX_TOKENS" env-default:"1024"`
}

// Enabled reports whether a provider is configured.
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.Provider) != ProviderNone
}

// NewFromConfig creates the client for the configured provider.
// Returns nil and no error when no provider is configured.
func NewFromConfig(cfg *Config, logger *zap.Logger) (LLMClient, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		return NewClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
