package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/coopco/treant/internal/blizzard"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIAnalyst judges gear with OpenAI or any OpenAI-compatible API.
type OpenAIAnalyst struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyst(apiKey, baseURL, model string) *OpenAIAnalyst {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIAnalyst{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (a *OpenAIAnalyst) Analyze(ctx context.Context, characterName string, items []blizzard.EquippedItem) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(characterName, items)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: openai analysis failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
