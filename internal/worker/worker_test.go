package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

type fakeReceiver struct {
	deleted   []string
	deleteErr error
}

func (f *fakeReceiver) Receive(ctx context.Context, max int32, wait time.Duration) ([]queue.Message, error) {
	return nil, nil
}

func (f *fakeReceiver) Delete(ctx context.Context, receiptHandle string) error {
	f.deleted = append(f.deleted, receiptHandle)
	return f.deleteErr
}

type spyProcessor struct {
	payloads []queue.CommandPayload
}

func (s *spyProcessor) Process(ctx context.Context, payload queue.CommandPayload) {
	s.payloads = append(s.payloads, payload)
}

type fakeEditor struct {
	edits []recordedEdit
	err   error
}

type recordedEdit struct {
	applicationID string
	token         string
	edit          discord.WebhookEdit
}

func (f *fakeEditor) EditOriginal(ctx context.Context, applicationID, token string, edit discord.WebhookEdit) error {
	f.edits = append(f.edits, recordedEdit{applicationID, token, edit})
	return f.err
}

type fakeEnqueuer struct {
	sent []any
	err  error
}

func (f *fakeEnqueuer) Send(ctx context.Context, v any) error {
	f.sent = append(f.sent, v)
	return f.err
}

func TestProcessBatchDispatchesByCommand(t *testing.T) {
	receiver := &fakeReceiver{}
	gold := &spyProcessor{}
	judge := &spyProcessor{}
	w := New(receiver, map[string]Processor{
		queue.CommandGold:  gold,
		queue.CommandJudge: judge,
	})

	w.ProcessBatch(context.Background(), []queue.Message{
		{Body: `{"command":"gold","applicationId":"app","interactionToken":"tok"}`, ReceiptHandle: "r1"},
		{Body: `{"command":"judge","applicationId":"app","interactionToken":"tok"}`, ReceiptHandle: "r2"},
	})

	if len(gold.payloads) != 1 || gold.payloads[0].Command != queue.CommandGold {
		t.Fatalf("gold processor payloads = %+v", gold.payloads)
	}
	if len(judge.payloads) != 1 || judge.payloads[0].Command != queue.CommandJudge {
		t.Fatalf("judge processor payloads = %+v", judge.payloads)
	}
	if len(receiver.deleted) != 2 {
		t.Fatalf("deleted = %v, want both receipts", receiver.deleted)
	}
}

func TestProcessBatchDeletesMalformedAndUnknownMessages(t *testing.T) {
	receiver := &fakeReceiver{}
	gold := &spyProcessor{}
	w := New(receiver, map[string]Processor{queue.CommandGold: gold})

	w.ProcessBatch(context.Background(), []queue.Message{
		{Body: `not json`, ReceiptHandle: "r1"},
		{Body: `{"command":"unknown"}`, ReceiptHandle: "r2"},
		{Body: `{"command":"gold"}`, ReceiptHandle: "r3"},
	})

	if len(gold.payloads) != 1 {
		t.Fatalf("gold processor called %d times, want 1", len(gold.payloads))
	}
	want := []string{"r1", "r2", "r3"}
	if len(receiver.deleted) != len(want) {
		t.Fatalf("deleted = %v, want %v", receiver.deleted, want)
	}
	for i, r := range want {
		if receiver.deleted[i] != r {
			t.Errorf("deleted[%d] = %q, want %q", i, receiver.deleted[i], r)
		}
	}
}

func TestProcessBatchDeleteFailureDoesNotBlockSiblings(t *testing.T) {
	receiver := &fakeReceiver{deleteErr: errors.New("gone")}
	gold := &spyProcessor{}
	w := New(receiver, map[string]Processor{queue.CommandGold: gold})

	w.ProcessBatch(context.Background(), []queue.Message{
		{Body: `{"command":"gold"}`, ReceiptHandle: "r1"},
		{Body: `{"command":"gold"}`, ReceiptHandle: "r2"},
	})

	if len(gold.payloads) != 2 {
		t.Fatalf("gold processor called %d times, want 2", len(gold.payloads))
	}
}
