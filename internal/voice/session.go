package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

const (
	joinTimeout       = 30 * time.Second
	firstFrameTimeout = 5 * time.Second
	playbackTimeout   = 30 * time.Second
)

// Connection is an established voice connection.
type Connection interface {
	Speaking(b bool) error
	Send(ctx context.Context, frame []byte) error
	Disconnect() error
}

// Joiner establishes a voice connection to a channel.
type Joiner interface {
	Join(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// FrameSource yields opus frames until io.EOF.
type FrameSource interface {
	OpusFrame() ([]byte, error)
	Cleanup()
}

// Encoder transcodes an audio stream into opus frames.
type Encoder interface {
	Encode(r io.Reader) (FrameSource, error)
}

// Player runs one playback session: join, synthesize, stream frames,
// disconnect. Disconnect always happens, success or failure.
type Player struct {
	joiner  Joiner
	tts     Synthesizer
	encoder Encoder
}

func NewPlayer(joiner Joiner, tts Synthesizer, encoder Encoder) *Player {
	return &Player{joiner: joiner, tts: tts, encoder: encoder}
}

func (p *Player) Play(ctx context.Context, guildID, channelID, text string) error {
	joinCtx, cancelJoin := context.WithTimeout(ctx, joinTimeout)
	defer cancelJoin()

	conn, err := p.joiner.Join(joinCtx, guildID, channelID)
	if err != nil {
		return fmt.Errorf("voice: failed to join channel %s: %w", channelID, err)
	}
	defer func() {
		if err := conn.Disconnect(); err != nil {
			slog.Error("voice: failed to disconnect", "guild", guildID, "error", err)
		}
	}()

	audio, err := p.tts.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	frames, err := p.encoder.Encode(bytes.NewReader(audio))
	if err != nil {
		return fmt.Errorf("voice: failed to encode audio: %w", err)
	}
	defer frames.Cleanup()

	if err := conn.Speaking(true); err != nil {
		return fmt.Errorf("voice: failed to set speaking: %w", err)
	}
	defer func() {
		if err := conn.Speaking(false); err != nil {
			slog.Error("voice: failed to clear speaking", "guild", guildID, "error", err)
		}
	}()

	playCtx, cancelPlay := context.WithTimeout(ctx, playbackTimeout)
	defer cancelPlay()

	first := true
	for {
		frame, err := frames.OpusFrame()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("voice: failed to read opus frame: %w", err)
		}

		sendCtx := playCtx
		if first {
			// a stalled connection shows up on the first frame
			var cancel context.CancelFunc
			sendCtx, cancel = context.WithTimeout(playCtx, firstFrameTimeout)
			err = conn.Send(sendCtx, frame)
			cancel()
			first = false
		} else {
			err = conn.Send(sendCtx, frame)
		}
		if err != nil {
			return fmt.Errorf("voice: failed to send frame: %w", err)
		}
	}
}
