package commands

import (
	"context"
	"log/slog"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

// handleJudge validates and defers the gear judgment. The equipment
// fetch and the model call are far too slow for the webhook budget.
func (r *Router) handleJudge(ctx context.Context, sub discord.CommandOption, in *discord.Interaction) *discord.Response {
	if name, ok := sub.Options.String("character"); !ok || name == "" {
		return discord.ErrorResponse("Please provide a character name.")
	}

	payload := queue.CommandPayload{
		Command:          queue.CommandJudge,
		ApplicationID:    in.ApplicationID,
		InteractionToken: in.Token,
		GuildID:          in.GuildID,
		UserID:           in.UserID(),
		Options:          payloadOptions(sub.Options),
	}

	if err := r.cmdQueue.Send(ctx, payload); err != nil {
		slog.Error("commands: failed to queue judge command", "error", err)
		return discord.ErrorResponse("Failed to queue judge command.")
	}
	return discord.DeferredResponse()
}
