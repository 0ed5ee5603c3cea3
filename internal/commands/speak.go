package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

// handleSpeak enqueues a line for the voice worker and confirms
// immediately; nothing waits on playback.
func (r *Router) handleSpeak(ctx context.Context, sub discord.CommandOption, in *discord.Interaction) *discord.Response {
	text, _ := sub.Options.String("text")
	guildID := in.GuildID
	userID := in.UserID()

	if text == "" || guildID == "" || userID == "" {
		return discord.ErrorResponse(fmt.Sprintf(
			"Missing required information (text: %t, guild: %t, user: %t)",
			text != "", guildID != "", userID != ""))
	}

	if err := r.voiceQueue.Send(ctx, queue.VoicePayload{
		GuildID: guildID,
		UserID:  userID,
		Text:    text,
	}); err != nil {
		slog.Error("commands: failed to queue voice command", "error", err)
		return discord.ErrorResponse("Failed to queue voice command.")
	}

	return discord.MessageResponse(fmt.Sprintf("🗣️ **Treant says:** %q (queued for voice worker)", text))
}
