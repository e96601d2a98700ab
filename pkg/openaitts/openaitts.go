// Package openaitts is an alternate narration backend built on the OpenAI
// speech API. Audio is requested as raw 24 kHz PCM so it can be wrapped by
// the clip narrator without transcoding.
package openaitts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/haivivi/clipgen/pkg/audio/pcm"
	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/encoding"
)

// DefaultModel supports per-request speaking instructions.
const DefaultModel = openai.SpeechModelGPT4oMiniTTS

// DefaultVoices maps narration voices to OpenAI voices.
var DefaultVoices = map[string]openai.AudioSpeechNewParamsVoice{
	clip.VoiceDefault: openai.AudioSpeechNewParamsVoiceAlloy,
	clip.VoiceHindi:   openai.AudioSpeechNewParamsVoiceCoral,
	clip.VoiceTelugu:  openai.AudioSpeechNewParamsVoiceShimmer,
}

var languageNames = map[clip.Language]string{
	clip.LanguageEnglish: "English",
	clip.LanguageHindi:   "Hindi",
	clip.LanguageTelugu:  "Telugu",
}

// Config configures the endpoint.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Endpoint implements clip.SpeechEndpoint.
type Endpoint struct {
	client openai.Client
	model  openai.SpeechModel
	voices map[string]openai.AudioSpeechNewParamsVoice
}

// New creates an Endpoint.
func New(cfg Config) (*Endpoint, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openaitts: api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	model := openai.SpeechModel(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Endpoint{
		client: openai.NewClient(opts...),
		model:  model,
		voices: DefaultVoices,
	}, nil
}

// Speak synthesizes req.Text as 24 kHz mono PCM.
func (e *Endpoint) Speak(ctx context.Context, req *clip.SpeechRequest) (*clip.SpeechResponse, error) {
	if req.Text == "" {
		return nil, errors.New("openaitts: empty speech text")
	}
	voice, ok := e.voices[req.Voice]
	if !ok {
		voice = openai.AudioSpeechNewParamsVoiceAlloy
	}
	params := openai.AudioSpeechNewParams{
		Input:          req.Text,
		Model:          e.model,
		Voice:          voice,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	}
	if name, ok := languageNames[req.Language]; ok && req.Language != clip.LanguageEnglish {
		params.Instructions = openai.String("Speak naturally in " + name + ".")
	}

	resp, err := e.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openaitts: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openaitts: read audio: %w", err)
	}
	if len(data) == 0 {
		return &clip.SpeechResponse{}, nil
	}
	mime := pcm.L16Mono24K.MIMEType()
	return &clip.SpeechResponse{Media: &clip.Media{
		URL:         encoding.NewDataURI(mime, data).String(),
		ContentType: mime,
	}}, nil
}

var _ clip.SpeechEndpoint = (*Endpoint)(nil)
