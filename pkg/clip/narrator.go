package clip

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/haivivi/clipgen/pkg/audio/pcm"
	"github.com/haivivi/clipgen/pkg/audio/wav"
	"github.com/haivivi/clipgen/pkg/encoding"
)

// ErrNoAudio means the speech provider answered without audio.
var ErrNoAudio = errors.New("clip: no audio in speech response")

// Narration is the outcome of one speech synthesis attempt: either Audio is
// set or Err records why it is not.
type Narration struct {
	// Audio is a "data:audio/wav;base64," URI.
	Audio string
	Voice string
	Err   error
}

// OK reports whether audio was produced.
func (n Narration) OK() bool {
	return n.Err == nil && n.Audio != ""
}

// Narrator turns narration text into a WAV data URI.
type Narrator struct {
	endpoint SpeechEndpoint
	cfg      *config
}

// NewNarrator returns a Narrator using endpoint.
func NewNarrator(endpoint SpeechEndpoint, opts ...Option) *Narrator {
	return &Narrator{endpoint: endpoint, cfg: newConfig(opts)}
}

// Synthesize returns the narration as a WAV data URI, or "" on any failure.
// Failures are logged and never returned.
func (n *Narrator) Synthesize(ctx context.Context, text string, lang Language) string {
	return n.Narrate(ctx, text, lang).Audio
}

// Narrate synthesizes text and records the failure reason, if any.
func (n *Narrator) Narrate(ctx context.Context, text string, lang Language) Narration {
	ctx, span := tracer().Start(ctx, "clip.narration")
	defer span.End()

	voice := VoiceFor(lang)
	span.SetAttributes(
		attribute.String("clip.voice", voice),
		attribute.String("clip.language", string(lang)),
	)

	audio, err := n.narrate(ctx, text, voice, lang)
	countNarration(ctx, err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.cfg.logger.WarnContext(ctx, "narration unavailable, continuing without audio",
			"voice", voice, "language", string(lang), "error", err)
		notify(ctx, Event{Type: EventNarrationFailed, Error: err.Error()})
		return Narration{Voice: voice, Err: err}
	}
	notify(ctx, Event{Type: EventNarrated, Bytes: len(audio)})
	return Narration{Audio: audio, Voice: voice}
}

func (n *Narrator) narrate(ctx context.Context, text, voice string, lang Language) (string, error) {
	resp, err := n.endpoint.Speak(ctx, &SpeechRequest{Text: text, Voice: voice, Language: lang})
	if err != nil {
		return "", fmt.Errorf("speech request: %w", err)
	}
	if resp == nil || resp.Media == nil || resp.Media.URL == "" {
		return "", ErrNoAudio
	}

	uri, err := encoding.ParseDataURI(resp.Media.URL)
	if err != nil {
		return "", fmt.Errorf("speech audio: %w", err)
	}
	if len(uri.Data) == 0 {
		return "", ErrNoAudio
	}

	samples := uri.Data
	target := pcm.Default.SampleRate()
	rate := uri.SampleRate()
	if rate == 0 {
		rate = pcm.RateFromMIME(resp.Media.ContentType)
	}
	if rate != 0 && rate != target {
		n.cfg.logger.DebugContext(ctx, "resampling narration", "from", rate, "to", target)
		if samples, err = pcm.Resample(samples, rate, target); err != nil {
			return "", err
		}
	}

	if len(samples) == 0 {
		return "", ErrNoAudio
	}
	if err := pcm.Default.Validate(samples); err != nil {
		return "", fmt.Errorf("speech audio: %w", err)
	}
	n.cfg.logger.DebugContext(ctx, "narration ready",
		"voice", voice, "duration", pcm.Default.Duration(int64(len(samples))))

	encoded, err := wav.Encode(ctx, samples,
		wav.WithChannels(pcm.Default.Channels()),
		wav.WithSampleRate(target),
		wav.WithBitDepth(pcm.Default.Depth()),
	)
	if err != nil {
		return "", err
	}
	return encoding.FormatDataURI(wav.MIMEType, encoded), nil
}
