package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/coopco/treant/internal/blizzard"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	analysisMaxTokens     = 1024
)

// AnthropicAnalyst judges gear with the Anthropic Messages API.
type AnthropicAnalyst struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicAnalyst(apiKey, model string) *AnthropicAnalyst {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicAnalyst{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicAnalyst) Analyze(ctx context.Context, characterName string, items []blizzard.EquippedItem) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: analysisMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(characterName, items))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: anthropic analysis failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("ai: empty analysis response")
	}
	return text, nil
}
