package clip

import (
	"errors"
	"testing"
)

func TestRequestNormalize(t *testing.T) {
	got := Request{Prompt: "  sea  ", Narration: " hi "}.Normalize()
	want := Request{
		Prompt:      "sea",
		Narration:   "hi",
		Style:       DefaultStyle,
		AspectRatio: AspectLandscape,
		Language:    LanguageEnglish,
	}
	if got != want {
		t.Errorf("Normalize = %+v; want %+v", got, want)
	}

	kept := Request{Prompt: "p", Style: "noir", AspectRatio: AspectPin, Language: LanguageTelugu}.Normalize()
	if kept.Style != "noir" || kept.AspectRatio != AspectPin || kept.Language != LanguageTelugu {
		t.Errorf("Normalize overwrote fields: %+v", kept)
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		req Request
		ok  bool
	}{
		{Request{Prompt: "p"}, true},
		{Request{Prompt: "p", AspectRatio: AspectFeed, Language: LanguageHindi}, true},
		{Request{}, false},
		{Request{Prompt: "\t\n"}, false},
		{Request{Prompt: "p", AspectRatio: "21:9"}, false},
		{Request{Prompt: "p", Language: "xx"}, false},
	}
	for _, tt := range tests {
		err := tt.req.Validate()
		if tt.ok && err != nil {
			t.Errorf("Validate(%+v) = %v", tt.req, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Validate(%+v) = %v; want ErrInvalidRequest", tt.req, err)
		}
	}
}

func TestVoiceFor(t *testing.T) {
	tests := map[Language]string{
		LanguageEnglish: "Algenib",
		LanguageHindi:   "Achird",
		LanguageTelugu:  "Sadachbia",
		"":              "Algenib",
		"zz":            "Algenib",
	}
	for lang, want := range tests {
		if got := VoiceFor(lang); got != want {
			t.Errorf("VoiceFor(%q) = %q; want %q", lang, got, want)
		}
	}
}

func TestLocale(t *testing.T) {
	if got := LanguageTelugu.Locale(); got != "te-IN" {
		t.Errorf("Locale = %q", got)
	}
	if got := Language("").Locale(); got != "en-US" {
		t.Errorf("Locale = %q", got)
	}
}

func TestFullPrompt(t *testing.T) {
	if got := FullPrompt("a cat", ""); got != "a cat, in the style of cinematic film" {
		t.Errorf("FullPrompt = %q", got)
	}
	if got := FullPrompt("a cat", "anime"); got != "a cat, in the style of anime" {
		t.Errorf("FullPrompt = %q", got)
	}
}

func TestErrorKinds(t *testing.T) {
	err := newError(KindInitiation, "Failed to initiate video generation", errBoom)
	if err.Error() != "Failed to initiate video generation: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	wrapped := errors.Join(errors.New("outer"), err)
	if !IsKind(wrapped, KindInitiation) || KindOf(wrapped) != KindInitiation {
		t.Error("kind lost through wrapping")
	}
	if !errors.Is(wrapped, errBoom) {
		t.Error("cause lost")
	}
	if KindOf(errBoom) != 0 {
		t.Error("plain error has a kind")
	}
	if (&Error{Kind: KindTimeout}).Retryable() != true || (&Error{Kind: KindOperation}).Retryable() {
		t.Error("Retryable mismatch")
	}
	if KindTimeout.String() != "timeout" || Kind(99).String() != "unknown" {
		t.Error("Kind.String mismatch")
	}
}
