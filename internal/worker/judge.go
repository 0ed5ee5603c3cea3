package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coopco/treant/internal/blizzard"
	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

// maxMessageLen is the platform's hard message size limit.
const maxMessageLen = 2000

const truncationMarker = "… *(truncated)*"

const analysisPlaceholder = "_The treant ponders in silence. (AI analysis unavailable.)_"

// EquipmentSource fetches a character's equipped items.
type EquipmentSource interface {
	CharacterEquipment(ctx context.Context, realmSlug, characterName string) (*blizzard.CharacterEquipment, error)
}

// Analyst produces the judgment text for an item list.
type Analyst interface {
	Analyze(ctx context.Context, characterName string, items []blizzard.EquippedItem) (string, error)
}

// JudgeProcessor answers a deferred gear judgment: fetch equipment,
// ask the model for a verdict, and edit the original reply exactly once.
type JudgeProcessor struct {
	equipment      EquipmentSource
	analyst        Analyst
	editor         Editor
	defaultRealm   string
	analystTimeout time.Duration
}

type JudgeConfig struct {
	Equipment      EquipmentSource
	Analyst        Analyst
	Editor         Editor
	DefaultRealm   string
	AnalystTimeout time.Duration
}

func NewJudgeProcessor(cfg JudgeConfig) *JudgeProcessor {
	timeout := cfg.AnalystTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &JudgeProcessor{
		equipment:      cfg.Equipment,
		analyst:        cfg.Analyst,
		editor:         cfg.Editor,
		defaultRealm:   cfg.DefaultRealm,
		analystTimeout: timeout,
	}
}

func (p *JudgeProcessor) Process(ctx context.Context, payload queue.CommandPayload) {
	character, ok := payload.StringOption("character")
	if !ok || character == "" {
		// dispatch validates this; a bare work item is malformed
		slog.Error("worker: judge work item missing character")
		p.edit(ctx, payload, "❌ **Error:** Please provide a character name.")
		return
	}
	realm := p.defaultRealm
	if r, ok := payload.StringOption("realm"); ok && r != "" {
		realm = r
	}

	equipment, err := p.equipment.CharacterEquipment(ctx, realm, character)
	if err != nil {
		slog.Error("worker: equipment fetch failed", "character", character, "realm", realm, "error", err)
		if errors.Is(err, blizzard.ErrCharacterNotFound) {
			p.edit(ctx, payload, fmt.Sprintf("❌ **Error:** Character %q not found on %s.", character, realm))
		} else {
			p.edit(ctx, payload, fmt.Sprintf("❌ **Error:** Failed to fetch character equipment: %v", err))
		}
		return
	}

	var list strings.Builder
	for _, item := range equipment.EquippedItems {
		fmt.Fprintf(&list, "**%s:** %s\n", item.Slot.Name, item.Name)
	}

	analysisCtx, cancel := context.WithTimeout(ctx, p.analystTimeout)
	analysis, err := p.analyst.Analyze(analysisCtx, character, equipment.EquippedItems)
	cancel()
	if err != nil {
		slog.Error("worker: gear analysis failed", "character", character, "error", err)
		analysis = analysisPlaceholder
	}

	header := fmt.Sprintf("⚖️ **Judgment for %s (%s):**\n\n", character, realm)
	p.edit(ctx, payload, assembleJudgment(header, list.String(), analysis))
}

func (p *JudgeProcessor) edit(ctx context.Context, payload queue.CommandPayload, content string) {
	err := p.editor.EditOriginal(ctx, payload.ApplicationID, payload.InteractionToken,
		discord.WebhookEdit{Content: content})
	if err != nil {
		slog.Error("worker: failed to edit original reply", "error", err)
	}
}

// assembleJudgment joins the sections, truncating only the analysis when
// the whole message would exceed the platform limit. The header and item
// list are never cut while room remains.
func assembleJudgment(header, itemList, analysis string) string {
	msg := header + itemList + "\n" + analysis
	if utf8.RuneCountInString(msg) <= maxMessageLen {
		return msg
	}

	base := header + itemList + "\n"
	budget := maxMessageLen - utf8.RuneCountInString(base) - utf8.RuneCountInString(truncationMarker)
	if budget < 0 {
		budget = 0
	}
	runes := []rune(analysis)
	if budget < len(runes) {
		runes = runes[:budget]
	}
	return base + string(runes) + truncationMarker
}
