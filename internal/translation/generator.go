package translation

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces text for a prompt using a remote model
type Generator interface {
	// Generate returns the model's text for prompt
	Generate(ctx context.Context, model, prompt string) (string, error)

	// Name returns the provider name
	Name() string
}

// ModelInfo describes a model offered by a provider
type ModelInfo struct {
	ID          string
	Description string
}

// ModelLister is implemented by generators that can enumerate their models
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// Provider names a remote generation service
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// DefaultModel returns the model used when none is configured
func DefaultModel(provider Provider) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// ParseProvider validates a provider name
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(s)) {
	case ProviderGemini, "":
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s (use gemini or openai)", s)
	}
}

// NewGenerator creates the generator for provider
func NewGenerator(ctx context.Context, provider Provider, apiKey, baseURL string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(apiKey, baseURL), nil
	case ProviderGemini, "":
		return NewGeminiGenerator(ctx, apiKey, baseURL)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
