package commands

import (
	"context"
	"log/slog"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

// Enqueuer sends one JSON message onto a durable queue.
type Enqueuer interface {
	Send(ctx context.Context, v any) error
}

// Router maps verified interactions to the closed set of command
// handlers. Routing is a static table: the top-level command name must
// match, and the first sub-option selects the handler. Nothing deeper
// is inspected here; option parsing belongs to the handlers.
type Router struct {
	command    string
	cmdQueue   Enqueuer
	voiceQueue Enqueuer
}

func NewRouter(command string, cmdQueue, voiceQueue Enqueuer) *Router {
	return &Router{
		command:    command,
		cmdQueue:   cmdQueue,
		voiceQueue: voiceQueue,
	}
}

// Dispatch routes an interaction to its handler. A nil result means the
// command is unrecognized; the boundary turns that into a 400.
func (r *Router) Dispatch(ctx context.Context, in *discord.Interaction) *discord.Response {
	if in.Type != discord.InteractionApplicationCommand {
		return nil
	}
	if in.Data.Name != r.command {
		return nil
	}

	sub, ok := in.Data.Options.Sub()
	if !ok || sub.Name == "pun" {
		return r.handlePun(ctx, in)
	}

	switch sub.Name {
	case "gold":
		return r.handleGold(ctx, sub, in)
	case "speak":
		return r.handleSpeak(ctx, sub, in)
	case "judge":
		return r.handleJudge(ctx, sub, in)
	}
	return nil
}

// enqueueBestEffort sends v and swallows any error. Fire-and-forget
// side effects inside a synchronous handler must never block or fail
// the primary reply.
func enqueueBestEffort(ctx context.Context, q Enqueuer, v any, what string) {
	if err := q.Send(ctx, v); err != nil {
		slog.Error("commands: best-effort enqueue failed", "what", what, "error", err)
	}
}

// payloadOptions flattens interaction options for the work item.
func payloadOptions(opts discord.Options) []queue.PayloadOption {
	out := make([]queue.PayloadOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, queue.PayloadOption{Name: o.Name, Value: o.Value})
	}
	return out
}
