package clip

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultStyle is used when a request has no style description.
const DefaultStyle = "cinematic film"

// AspectRatio is the frame shape of the generated video.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectSquare    AspectRatio = "1:1"
	AspectFeed      AspectRatio = "4:5"
	AspectPin       AspectRatio = "2:3"
)

// AspectRatios lists the supported aspect ratios, default first.
var AspectRatios = []AspectRatio{AspectLandscape, AspectPortrait, AspectSquare, AspectFeed, AspectPin}

// Valid reports whether a is a supported aspect ratio.
func (a AspectRatio) Valid() bool {
	for _, v := range AspectRatios {
		if a == v {
			return true
		}
	}
	return false
}

// Language is the narration language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageTelugu  Language = "te"
)

// Languages lists the supported narration languages, default first.
var Languages = []Language{LanguageEnglish, LanguageHindi, LanguageTelugu}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if l == v {
			return true
		}
	}
	return false
}

// ErrInvalidRequest is returned by Validate and Run for malformed requests.
var ErrInvalidRequest = errors.New("clip: invalid request")

// Request describes one clip to generate.
type Request struct {
	// Prompt describes the video. Required.
	Prompt string `json:"prompt" yaml:"prompt" msgpack:"prompt"`

	// Narration is spoken over the clip. Empty skips speech synthesis.
	Narration string `json:"narration,omitempty" yaml:"narration,omitempty" msgpack:"narration,omitempty"`

	// Style describes the visual style. Defaults to DefaultStyle.
	Style string `json:"style,omitempty" yaml:"style,omitempty" msgpack:"style,omitempty"`

	// AspectRatio defaults to 16:9.
	AspectRatio AspectRatio `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty" msgpack:"aspect_ratio,omitempty"`

	// Language is the narration language. Defaults to en.
	Language Language `json:"language,omitempty" yaml:"language,omitempty" msgpack:"language,omitempty"`
}

// Normalize returns a copy of r with surrounding whitespace trimmed and
// defaults filled in.
func (r Request) Normalize() Request {
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Narration = strings.TrimSpace(r.Narration)
	r.Style = strings.TrimSpace(r.Style)
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.AspectRatio == "" {
		r.AspectRatio = AspectLandscape
	}
	if r.Language == "" {
		r.Language = LanguageEnglish
	}
	return r
}

// Validate checks r after normalization.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}
	if r.AspectRatio != "" && !r.AspectRatio.Valid() {
		return fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, r.AspectRatio)
	}
	if r.Language != "" && !r.Language.Valid() {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidRequest, r.Language)
	}
	return nil
}

// Result is a generated clip.
type Result struct {
	// Video is a data URI, always set on success.
	Video string `json:"video"`

	// Audio is a "data:audio/wav;base64," URI. Empty when narration was not
	// requested or could not be synthesized.
	Audio string `json:"audio,omitempty"`
}

// HasAudio reports whether the result carries a narration track.
func (r *Result) HasAudio() bool {
	return r != nil && r.Audio != ""
}
