// Package voice consumes speak requests and plays synthesized speech in
// the requesting user's voice channel.
package voice

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

// PollyAPI is the subset of the Polly client used for synthesis.
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// TTS synthesizes speech as mp3. The prosody is pitched down and slowed
// so the bot sounds like a talking tree.
type TTS struct {
	polly   PollyAPI
	voiceID string
}

func NewTTS(api PollyAPI, voiceID string) *TTS {
	return &TTS{polly: api, voiceID: voiceID}
}

var ssmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (t *TTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ssml := fmt.Sprintf(`<speak><prosody rate="slow" pitch="x-low">%s</prosody></speak>`,
		ssmlEscaper.Replace(text))

	out, err := t.polly.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       types.EngineNeural,
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(ssml),
		TextType:     types.TextTypeSsml,
		VoiceId:      types.VoiceId(t.voiceID),
	})
	if err != nil {
		return nil, fmt.Errorf("voice: speech synthesis failed: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("voice: failed to read audio stream: %w", err)
	}
	return audio, nil
}
