package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/encoding"
)

// ContentModels is the part of genai.Models used for speech.
type ContentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SpeechEndpoint implements clip.SpeechEndpoint with a Gemini TTS model.
type SpeechEndpoint struct {
	models ContentModels
	model  string
}

// NewSpeechEndpoint returns an endpoint that uses model, or
// DefaultSpeechModel when model is empty.
func NewSpeechEndpoint(models ContentModels, model string) *SpeechEndpoint {
	if model == "" {
		model = DefaultSpeechModel
	}
	return &SpeechEndpoint{models: models, model: model}
}

// Speak asks for an audio-only response and returns the first inline audio
// part. A response without audio yields a nil Media.
func (e *SpeechEndpoint) Speak(ctx context.Context, req *clip.SpeechRequest) (*clip.SpeechResponse, error) {
	if req.Text == "" {
		return nil, errors.New("gemini: empty speech text")
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: req.Language.Locale(),
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	}
	resp, err := e.models.GenerateContent(ctx, e.model, genai.Text(req.Text), cfg)
	if err != nil {
		return nil, unwrapAPIError(err)
	}
	return &clip.SpeechResponse{Media: firstAudio(resp)}, nil
}

func firstAudio(resp *genai.GenerateContentResponse) *clip.Media {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
				continue
			}
			return &clip.Media{
				URL:         encoding.NewDataURI(p.InlineData.MIMEType, p.InlineData.Data).String(),
				ContentType: p.InlineData.MIMEType,
			}
		}
	}
	return nil
}

var _ clip.SpeechEndpoint = (*SpeechEndpoint)(nil)
