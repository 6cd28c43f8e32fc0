package translation

import (
	"context"
	"fmt"
	"sort"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the chat model used when none is configured
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIGenerator calls an OpenAI-compatible chat completions API
type OpenAIGenerator struct {
	client *openai.Client
}

// NewOpenAIGenerator creates an OpenAI generator; baseURL may point at any
// compatible endpoint and defaults to api.openai.com
func NewOpenAIGenerator(apiKey, baseURL string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg)}
}

// Name returns the provider name
func (g *OpenAIGenerator) Name() string {
	return string(ProviderOpenAI)
}

// Generate sends prompt as a single user message and returns the first choice
func (g *OpenAIGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the model ids visible to the API key
func (g *OpenAIGenerator) ListModels(ctx context.Context) ([]ModelInfo, error) {
	list, err := g.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, 0, len(list.Models))
	for _, model := range list.Models {
		models = append(models, ModelInfo{ID: model.ID, Description: model.OwnedBy})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}
