// Package llm holds the outbound text-generation clients. The packaging core
// never touches this package; it only consumes the single completion string a
// client returns.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and configures a provider client. Timeout is applied per
// call; the packaging core never interprets it.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// Client produces one text completion for a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New creates the client for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
