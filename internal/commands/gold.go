package commands

import (
	"context"
	"log/slog"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

// handleGold defers the price lookup: acknowledge now, let the worker
// deliver the real answer via an edit.
func (r *Router) handleGold(ctx context.Context, sub discord.CommandOption, in *discord.Interaction) *discord.Response {
	payload := queue.CommandPayload{
		Command:          queue.CommandGold,
		ApplicationID:    in.ApplicationID,
		InteractionToken: in.Token,
		GuildID:          in.GuildID,
		UserID:           in.UserID(),
		Options:          payloadOptions(sub.Options),
	}

	if err := r.cmdQueue.Send(ctx, payload); err != nil {
		slog.Error("commands: failed to queue gold command", "error", err)
		return discord.ErrorResponse("Failed to queue gold command.")
	}
	return discord.DeferredResponse()
}
