package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/pricing"
	"github.com/coopco/treant/internal/queue"
)

const defaultGoldAmount = 1000

// PriceSource fetches the current gold unit price.
type PriceSource interface {
	UnitPrice(ctx context.Context) (float64, error)
}

// SampleRecorder writes rate-limited price samples.
type SampleRecorder interface {
	Record(ctx context.Context, price float64) error
}

// GoldProcessor answers a deferred gold price lookup: fetch the price,
// record a sample, chart recent history, and edit the original reply.
type GoldProcessor struct {
	prices       PriceSource
	recorder     SampleRecorder
	store        pricing.Store
	voiceQueue   Enqueuer
	editor       Editor
	historyLimit int
}

type GoldConfig struct {
	Prices       PriceSource
	Recorder     SampleRecorder
	Store        pricing.Store
	VoiceQueue   Enqueuer
	Editor       Editor
	HistoryLimit int
}

func NewGoldProcessor(cfg GoldConfig) *GoldProcessor {
	limit := cfg.HistoryLimit
	if limit == 0 {
		limit = 24
	}
	return &GoldProcessor{
		prices:       cfg.Prices,
		recorder:     cfg.Recorder,
		store:        cfg.Store,
		voiceQueue:   cfg.VoiceQueue,
		editor:       cfg.Editor,
		historyLimit: limit,
	}
}

func (p *GoldProcessor) Process(ctx context.Context, payload queue.CommandPayload) {
	amount := payload.IntOption("amount", defaultGoldAmount)

	unitPrice, err := p.prices.UnitPrice(ctx)
	if err != nil {
		slog.Error("worker: gold price fetch failed", "error", err)
		p.edit(ctx, payload, discord.WebhookEdit{
			Content: "❌ **Error:** Failed to fetch gold price.",
		})
		return
	}

	total := unitPrice * float64(amount)
	totalStr := strconv.FormatFloat(total, 'f', 2, 64)

	// stats are best-effort; the user still gets their price
	if err := p.recorder.Record(ctx, unitPrice); err != nil {
		slog.Error("worker: failed to record price sample", "error", err)
	}

	history, err := p.store.History(ctx, p.historyLimit)
	if err != nil {
		slog.Error("worker: failed to read price history", "error", err)
	}
	chartURL := pricing.ChartURL(history, amount)

	if payload.GuildID != "" && payload.UserID != "" {
		voiceText := fmt.Sprintf(
			"The current gold price is %.4f per gold. For %s gold, it will cost %s dollars.",
			unitPrice, groupDigits(amount), totalStr)
		if err := p.voiceQueue.Send(ctx, queue.VoicePayload{
			GuildID: payload.GuildID,
			UserID:  payload.UserID,
			Text:    voiceText,
		}); err != nil {
			slog.Error("worker: failed to send gold voice summary", "error", err)
		}
	}

	p.edit(ctx, payload, discord.WebhookEdit{
		Content: fmt.Sprintf("💰 **Gold Price:** $%s for %s gold ($%.4f/gold)",
			totalStr, groupDigits(amount), unitPrice),
		Embeds: []discord.Embed{{Image: &discord.EmbedImage{URL: chartURL}}},
	})
}

// edit delivers the final reply; failures are logged only, there is no
// further delivery channel.
func (p *GoldProcessor) edit(ctx context.Context, payload queue.CommandPayload, edit discord.WebhookEdit) {
	if err := p.editor.EditOriginal(ctx, payload.ApplicationID, payload.InteractionToken, edit); err != nil {
		slog.Error("worker: failed to edit original reply", "error", err)
	}
}

// groupDigits renders n with thousands separators, e.g. 1000000 -> "1,000,000".
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
