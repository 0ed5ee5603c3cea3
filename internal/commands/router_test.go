package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/queue"
)

type fakeQueue struct {
	sent []any
	err  error
}

func (f *fakeQueue) Send(ctx context.Context, v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, v)
	return nil
}

func interaction(sub string, opts discord.Options) *discord.Interaction {
	var data discord.InteractionData
	data.Name = "treant"
	if sub != "" {
		data.Options = discord.Options{{Name: sub, Type: discord.OptionSubCommand, Options: opts}}
	}
	return &discord.Interaction{
		ID:            "i1",
		ApplicationID: "app",
		Type:          discord.InteractionApplicationCommand,
		Data:          data,
		GuildID:       "g1",
		Member:        &discord.Member{User: &discord.User{ID: "u1"}},
		Token:         "tok",
	}
}

func TestDispatchRoutingTable(t *testing.T) {
	tests := []struct {
		name     string
		in       *discord.Interaction
		wantType discord.ResponseType
		wantNil  bool
	}{
		{"pun fast path", interaction("pun", nil), discord.ResponseChannelMessage, false},
		{"no subcommand defaults to pun", interaction("", nil), discord.ResponseChannelMessage, false},
		{"gold defers", interaction("gold", discord.Options{{Name: "amount", Type: discord.OptionInteger, Value: float64(500)}}), discord.ResponseDeferredMessage, false},
		{"judge defers", interaction("judge", discord.Options{{Name: "character", Type: discord.OptionString, Value: "Leeroy"}}), discord.ResponseDeferredMessage, false},
		{"speak replies inline", interaction("speak", discord.Options{{Name: "text", Type: discord.OptionString, Value: "hello"}}), discord.ResponseChannelMessage, false},
		{"unknown subcommand", interaction("dance", nil), 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRouter("treant", &fakeQueue{}, &fakeQueue{})
			resp := r.Dispatch(context.Background(), tc.in)
			if tc.wantNil {
				if resp != nil {
					t.Fatalf("expected nil response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("expected a response, got nil")
			}
			if resp.Type != tc.wantType {
				t.Errorf("response type = %d, want %d", resp.Type, tc.wantType)
			}
		})
	}
}

func TestDispatchRejectsForeignCommand(t *testing.T) {
	r := NewRouter("treant", &fakeQueue{}, &fakeQueue{})
	in := interaction("pun", nil)
	in.Data.Name = "otherbot"
	if resp := r.Dispatch(context.Background(), in); resp != nil {
		t.Fatalf("expected nil for foreign command, got %+v", resp)
	}
}

func TestDispatchIgnoresNonCommandTypes(t *testing.T) {
	r := NewRouter("treant", &fakeQueue{}, &fakeQueue{})
	in := interaction("pun", nil)
	in.Type = discord.InteractionPing
	if resp := r.Dispatch(context.Background(), in); resp != nil {
		t.Fatalf("router must not handle handshakes, got %+v", resp)
	}
}

func TestGoldEnqueuesWorkItem(t *testing.T) {
	cmdQ := &fakeQueue{}
	r := NewRouter("treant", cmdQ, &fakeQueue{})

	resp := r.Dispatch(context.Background(), interaction("gold",
		discord.Options{{Name: "amount", Type: discord.OptionInteger, Value: float64(2500)}}))
	if resp.Type != discord.ResponseDeferredMessage {
		t.Fatalf("expected deferred response, got %d", resp.Type)
	}

	if len(cmdQ.sent) != 1 {
		t.Fatalf("expected 1 work item, got %d", len(cmdQ.sent))
	}
	payload := cmdQ.sent[0].(queue.CommandPayload)
	if payload.Command != queue.CommandGold {
		t.Errorf("command tag = %q", payload.Command)
	}
	// the work item must carry everything the processor needs
	if payload.ApplicationID != "app" || payload.InteractionToken != "tok" {
		t.Errorf("delivery context missing: %+v", payload)
	}
	if payload.GuildID != "g1" || payload.UserID != "u1" {
		t.Errorf("caller context missing: %+v", payload)
	}
	if payload.IntOption("amount", 0) != 2500 {
		t.Errorf("amount option lost: %+v", payload.Options)
	}
}

func TestGoldEnqueueFailure(t *testing.T) {
	r := NewRouter("treant", &fakeQueue{err: errors.New("queue down")}, &fakeQueue{})
	resp := r.Dispatch(context.Background(), interaction("gold", nil))
	if resp.Type != discord.ResponseChannelMessage {
		t.Fatalf("expected error reply, got type %d", resp.Type)
	}
	if !strings.Contains(resp.Data.Content, "Error") {
		t.Errorf("expected user-visible error, got %q", resp.Data.Content)
	}
}

func TestJudgeValidation(t *testing.T) {
	cmdQ := &fakeQueue{}
	r := NewRouter("treant", cmdQ, &fakeQueue{})

	resp := r.Dispatch(context.Background(), interaction("judge", nil))
	if resp.Type != discord.ResponseChannelMessage || !strings.Contains(resp.Data.Content, "character name") {
		t.Fatalf("expected validation error, got %+v", resp)
	}
	if len(cmdQ.sent) != 0 {
		t.Error("validation failure must not enqueue")
	}
}

func TestSpeakValidation(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*discord.Interaction)
	}{
		{"missing text", func(in *discord.Interaction) {
			in.Data.Options[0].Options = nil
		}},
		{"missing guild", func(in *discord.Interaction) { in.GuildID = "" }},
		{"missing user", func(in *discord.Interaction) { in.Member = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			voiceQ := &fakeQueue{}
			r := NewRouter("treant", &fakeQueue{}, voiceQ)
			in := interaction("speak", discord.Options{{Name: "text", Type: discord.OptionString, Value: "hi"}})
			tc.mod(in)

			resp := r.Dispatch(context.Background(), in)
			if !strings.Contains(resp.Data.Content, "Missing required information") {
				t.Errorf("expected validation error, got %q", resp.Data.Content)
			}
			if len(voiceQ.sent) != 0 {
				t.Error("validation failure must not enqueue")
			}
		})
	}
}

func TestSpeakEnqueuesVoicePayload(t *testing.T) {
	voiceQ := &fakeQueue{}
	r := NewRouter("treant", &fakeQueue{}, voiceQ)

	r.Dispatch(context.Background(), interaction("speak",
		discord.Options{{Name: "text", Type: discord.OptionString, Value: "hello grove"}}))

	if len(voiceQ.sent) != 1 {
		t.Fatalf("expected 1 voice payload, got %d", len(voiceQ.sent))
	}
	vp := voiceQ.sent[0].(queue.VoicePayload)
	if vp.GuildID != "g1" || vp.UserID != "u1" || vp.Text != "hello grove" {
		t.Errorf("unexpected voice payload: %+v", vp)
	}
}

func TestPunVoiceEnqueueIsBestEffort(t *testing.T) {
	// a failing voice queue must not affect the primary reply
	r := NewRouter("treant", &fakeQueue{}, &fakeQueue{err: errors.New("voice queue down")})
	resp := r.Dispatch(context.Background(), interaction("pun", nil))
	if resp == nil || resp.Type != discord.ResponseChannelMessage {
		t.Fatalf("pun reply affected by side-effect failure: %+v", resp)
	}
	if !strings.Contains(resp.Data.Content, "Treant says") {
		t.Errorf("unexpected pun reply: %q", resp.Data.Content)
	}
}

func TestPunSkipsVoiceWithoutGuild(t *testing.T) {
	voiceQ := &fakeQueue{}
	r := NewRouter("treant", &fakeQueue{}, voiceQ)
	in := interaction("pun", nil)
	in.GuildID = ""

	if resp := r.Dispatch(context.Background(), in); resp == nil {
		t.Fatal("expected pun reply")
	}
	if len(voiceQ.sent) != 0 {
		t.Error("pun must not enqueue voice without a guild")
	}
}
