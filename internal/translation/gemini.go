package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used when none is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini API through the genai SDK
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini API generator. baseURL overrides the
// API endpoint and is empty in normal use.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client}, nil
}

// Name returns the provider name
func (g *GeminiGenerator) Name() string {
	return string(ProviderGemini)
}

// Generate sends prompt to model and returns the primary text of the response
func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}

// ListModels returns the models that support content generation
func (g *GeminiGenerator) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for model, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		if !supportsGenerate(model.SupportedActions) {
			continue
		}
		models = append(models, ModelInfo{
			ID:          strings.TrimPrefix(model.Name, "models/"),
			Description: model.DisplayName,
		})
	}
	return models, nil
}

func supportsGenerate(actions []string) bool {
	if len(actions) == 0 {
		return true
	}
	for _, action := range actions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}
