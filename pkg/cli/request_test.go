package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haivivi/clipgen/pkg/clip"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadClipRequest_YAML(t *testing.T) {
	p := writeFile(t, "req.yaml", `
prompt: a lighthouse at dusk
narration: The keeper lights the lamp.
aspect_ratio: "9:16"
language: hi
`)
	req, err := LoadClipRequest(p, clip.Request{})
	if err != nil {
		t.Fatalf("LoadClipRequest error: %v", err)
	}
	if req.Prompt != "a lighthouse at dusk" || req.AspectRatio != clip.AspectPortrait || req.Language != clip.LanguageHindi {
		t.Errorf("req = %+v", req)
	}
}

func TestLoadClipRequest_JSONWithOverrides(t *testing.T) {
	p := writeFile(t, "req.json", `{"prompt":"a fox","style":"anime"}`)
	req, err := LoadClipRequest(p, clip.Request{Prompt: "a wolf", Narration: "howl"})
	if err != nil {
		t.Fatalf("LoadClipRequest error: %v", err)
	}
	if req.Prompt != "a wolf" || req.Style != "anime" || req.Narration != "howl" {
		t.Errorf("req = %+v", req)
	}
}

func TestLoadClipRequest_NoFile(t *testing.T) {
	req, err := LoadClipRequest("", clip.Request{Prompt: "rain"})
	if err != nil || req.Prompt != "rain" {
		t.Fatalf("req = %+v, err = %v", req, err)
	}
}

func TestLoadRequest_Errors(t *testing.T) {
	var req clip.Request
	if err := LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"), &req); err == nil {
		t.Error("expected error for missing file")
	}
	if err := LoadRequest(writeFile(t, "bad.json", "{"), &req); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadRequestFrom(t *testing.T) {
	var req clip.Request
	if err := LoadRequestFrom(strings.NewReader("prompt: from stdin\n"), &req); err != nil {
		t.Fatalf("LoadRequestFrom error: %v", err)
	}
	if req.Prompt != "from stdin" {
		t.Errorf("Prompt = %q", req.Prompt)
	}
}
