package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

const (
	maxBatch     = 10
	pollWait     = 20 * time.Second
	errorBackoff = time.Second
)

// Receiver is the queue surface the worker consumes from.
type Receiver interface {
	Receive(ctx context.Context, max int32, wait time.Duration) ([]queue.Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Enqueuer sends one JSON message onto a durable queue.
type Enqueuer interface {
	Send(ctx context.Context, v any) error
}

// Editor delivers a final reply by editing the original deferred message.
type Editor interface {
	EditOriginal(ctx context.Context, applicationID, token string, edit discord.WebhookEdit) error
}

// Processor handles one parsed work item. Processors report failures to
// the user through the Editor and never to the queue: an attempted item
// is done, successful or not.
type Processor interface {
	Process(ctx context.Context, payload queue.CommandPayload)
}

// Worker consumes command work items and dispatches them by tag.
type Worker struct {
	queue      Receiver
	processors map[string]Processor
}

func New(q Receiver, processors map[string]Processor) *Worker {
	return &Worker{queue: q, processors: processors}
}

// Run long-polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("worker: started")
	for {
		if ctx.Err() != nil {
			slog.Info("worker: stopping")
			return
		}
		msgs, err := w.queue.Receive(ctx, maxBatch, pollWait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("worker: receive failed", "error", err)
			time.Sleep(errorBackoff)
			continue
		}
		w.ProcessBatch(ctx, msgs)
	}
}

// ProcessBatch handles each message independently: one item's failure
// never blocks its siblings, and every received message is deleted
// after the attempt to avoid redelivery of already-attempted work.
func (w *Worker) ProcessBatch(ctx context.Context, msgs []queue.Message) {
	for _, msg := range msgs {
		w.processOne(ctx, msg)
		if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			slog.Error("worker: failed to delete message", "error", err)
		}
	}
}

func (w *Worker) processOne(ctx context.Context, msg queue.Message) {
	var payload queue.CommandPayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		slog.Error("worker: malformed work item", "error", err)
		return
	}

	proc, ok := w.processors[payload.Command]
	if !ok {
		slog.Error("worker: no processor for command", "command", payload.Command)
		return
	}

	slog.Info("worker: processing work item", "command", payload.Command)
	proc.Process(ctx, payload)
}
