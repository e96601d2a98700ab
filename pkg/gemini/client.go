package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const (
	// DefaultVideoModel is the Veo model used when none is configured.
	DefaultVideoModel = "veo-3.0-fast-generate-001"

	// DefaultSpeechModel is the TTS model used when none is configured.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
)

// Config selects credentials and models.
type Config struct {
	APIKey string `json:"api_key" yaml:"api_key"`

	// BaseURL overrides the API endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	VideoModel  string `json:"video_model,omitempty" yaml:"video_model,omitempty"`
	SpeechModel string `json:"speech_model,omitempty" yaml:"speech_model,omitempty"`

	// HTTPClient is used for API calls when set.
	HTTPClient *http.Client `json:"-" yaml:"-"`
}

// Client bundles the video and speech endpoints over one genai client.
type Client struct {
	video  *VideoEndpoint
	speech *SpeechEndpoint
}

// New creates a Client for the Gemini Developer API.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api_key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{
		video:  NewVideoEndpoint(gc.Models, gc.Operations, cfg.VideoModel),
		speech: NewSpeechEndpoint(gc.Models, cfg.SpeechModel),
	}, nil
}

// Video returns the video generation endpoint.
func (c *Client) Video() *VideoEndpoint { return c.video }

// Speech returns the speech synthesis endpoint.
func (c *Client) Speech() *SpeechEndpoint { return c.speech }
