package voice

import (
	"context"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/jonas747/dca"
)

// Discord adapts a discordgo session to the resolver and joiner surfaces.
type Discord struct {
	session *discordgo.Session
}

func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{session: session}
}

// ChannelFor returns the voice channel the user currently occupies in
// the guild. The gateway state cache is authoritative; a guild missing
// from the cache is fetched once.
func (d *Discord) ChannelFor(guildID, userID string) (string, bool) {
	if vs, err := d.session.State.VoiceState(guildID, userID); err == nil && vs != nil && vs.ChannelID != "" {
		return vs.ChannelID, true
	}

	guild, err := d.session.State.Guild(guildID)
	if err != nil {
		guild, err = d.session.Guild(guildID)
		if err != nil {
			return "", false
		}
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}

// Join connects to a voice channel, muted for receive. A connection
// that only becomes ready after ctx expires is torn down.
func (d *Discord) Join(ctx context.Context, guildID, channelID string) (Connection, error) {
	type result struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	ch := make(chan result, 1)
	go func() {
		vc, err := d.session.ChannelVoiceJoin(guildID, channelID, false, true)
		ch <- result{vc, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return &voiceConn{vc: r.vc}, nil
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.err == nil {
				r.vc.Disconnect()
			}
		}()
		return nil, fmt.Errorf("join timed out: %w", ctx.Err())
	}
}

type voiceConn struct {
	vc *discordgo.VoiceConnection
}

func (c *voiceConn) Speaking(b bool) error { return c.vc.Speaking(b) }

func (c *voiceConn) Send(ctx context.Context, frame []byte) error {
	select {
	case c.vc.OpusSend <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *voiceConn) Disconnect() error { return c.vc.Disconnect() }

// DCAEncoder transcodes mp3 into discord-ready opus frames.
type DCAEncoder struct{}

func (DCAEncoder) Encode(r io.Reader) (FrameSource, error) {
	opts := dca.StdEncodeOptions
	session, err := dca.EncodeMem(r, opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}
