package voice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coopco/treant/internal/queue"
)

const (
	pollWait     = 20 * time.Second
	errorBackoff = time.Second
)

// Receiver is the queue surface the worker consumes from.
type Receiver interface {
	Receive(ctx context.Context, max int32, wait time.Duration) ([]queue.Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Resolver locates the voice channel a user occupies.
type Resolver interface {
	ChannelFor(guildID, userID string) (string, bool)
}

// Speaker plays text in a voice channel.
type Speaker interface {
	Play(ctx context.Context, guildID, channelID, text string) error
}

// Worker consumes speak requests one at a time. Playback is serial so
// overlapping requests never talk over each other.
type Worker struct {
	queue    Receiver
	resolver Resolver
	player   Speaker
}

func NewWorker(q Receiver, resolver Resolver, player Speaker) *Worker {
	return &Worker{queue: q, resolver: resolver, player: player}
}

// Run long-polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("voice: worker started")
	for {
		if ctx.Err() != nil {
			slog.Info("voice: worker stopping")
			return
		}
		msgs, err := w.queue.Receive(ctx, 1, pollWait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("voice: receive failed", "error", err)
			time.Sleep(errorBackoff)
			continue
		}
		w.ProcessBatch(ctx, msgs)
	}
}

// ProcessBatch handles each request and deletes it regardless of
// outcome. A request that could not be played is dropped, not retried.
func (w *Worker) ProcessBatch(ctx context.Context, msgs []queue.Message) {
	for _, msg := range msgs {
		w.processOne(ctx, msg)
		if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			slog.Error("voice: failed to delete message", "error", err)
		}
	}
}

func (w *Worker) processOne(ctx context.Context, msg queue.Message) {
	var payload queue.VoicePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		slog.Error("voice: malformed speak request", "error", err)
		return
	}
	if payload.GuildID == "" || payload.UserID == "" || payload.Text == "" {
		slog.Error("voice: incomplete speak request", "guild", payload.GuildID, "user", payload.UserID)
		return
	}

	channelID, ok := w.resolver.ChannelFor(payload.GuildID, payload.UserID)
	if !ok {
		slog.Info("voice: user not in a voice channel, skipping",
			"guild", payload.GuildID, "user", payload.UserID)
		return
	}

	slog.Info("voice: playing speak request", "guild", payload.GuildID, "channel", channelID)
	if err := w.player.Play(ctx, payload.GuildID, channelID, payload.Text); err != nil {
		slog.Error("voice: playback failed", "guild", payload.GuildID, "error", err)
	}
}
