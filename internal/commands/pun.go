package commands

import (
	"context"
	"math/rand"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

var treeQuotes = []string{
	"I'm rooting for you.",
	"You must have me confused with someone elm.",
	"Be-leaf in yourself.",
	"The forest remembers, even when the raid log doesn't.",
	"Stand still long enough and the moss does the work.",
	"I've seen saplings with better positioning.",
	"Time is a flat ring. Ask my trunk.",
	"Patience. Oaks were acorns once, and so were you.",
	"Wood you kindly stop standing in the fire?",
	"My bark is worse than my blight.",
}

// handlePun is the fast path: an immediate quote, with a best-effort
// voice enqueue when we know where to speak it.
func (r *Router) handlePun(ctx context.Context, in *discord.Interaction) *discord.Response {
	quote := treeQuotes[rand.Intn(len(treeQuotes))]

	if in.GuildID != "" && in.UserID() != "" {
		enqueueBestEffort(ctx, r.voiceQueue, queue.VoicePayload{
			GuildID: in.GuildID,
			UserID:  in.UserID(),
			Text:    quote,
		}, "pun voice line")
	}

	return discord.MessageResponse("🌲 **Treant says:** " + quote)
}
