package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/coopco/treant/internal/blizzard"
	"github.com/coopco/treant/internal/config"
)

// Analyst produces a gear judgment for a character's equipped items.
type Analyst interface {
	Analyze(ctx context.Context, characterName string, items []blizzard.EquippedItem) (string, error)
}

// New selects an Analyst implementation from config.
func New(cfg config.AnalystConfig) (Analyst, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIAnalyst(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "anthropic":
		return NewAnthropicAnalyst(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("ai: unknown analyst provider %q", cfg.Provider)
	}
}

// buildPrompt renders the judgment prompt shared by all implementations.
func buildPrompt(characterName string, items []blizzard.EquippedItem) string {
	var list strings.Builder
	for _, item := range items {
		fmt.Fprintf(&list, "- [%s]: %s (%s)\n", item.Slot.Name, item.Name, item.Quality.Name)
	}

	return fmt.Sprintf(`You are a World of Warcraft Classic expert. Analyze the gear for a character named %q.
Here is their equipped gear:
%s
Please provide a concise analysis in the following format:
**Estimated Avg Item Level**: [rough average item level based on WoW Classic item knowledge]
**Analysis**: Brief summary of their gear quality (e.g., leveling greens, pre-raid BIS, raid gear).
**Suggestions**: a few specific recommendations for upgrades or missing slot optimizations as bullet points

Keep the tone constructive but slightly judgmental like a raid leader. You are an ancient treant. Old and wise, but still a raid leader.

IMPORTANT: Your response must be strictly under 1000 characters. Be concise.`,
		characterName, list.String())
}
