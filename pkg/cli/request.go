package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/haivivi/clipgen/pkg/clip"
)

// LoadRequest loads a request from a YAML or JSON file into the provided
// struct. The path "-" reads stdin.
func LoadRequest(path string, v any) error {
	if path == "-" {
		return LoadRequestFrom(os.Stdin, v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return ParseRequest(data, path, v)
}

// ParseRequest parses request data based on file extension or content
func ParseRequest(data []byte, filename string, v any) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON)")
			}
		}
	}

	return nil
}

// LoadRequestFrom reads a request from r, JSON first then YAML.
func LoadRequestFrom(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		if err2 := yaml.Unmarshal(data, v); err2 != nil {
			return fmt.Errorf("failed to parse input (tried JSON and YAML)")
		}
	}

	return nil
}

// LoadClipRequest loads a clip request file and applies overrides on top.
// Empty override fields keep the file's values.
func LoadClipRequest(path string, override clip.Request) (clip.Request, error) {
	var req clip.Request
	if path != "" {
		if err := LoadRequest(path, &req); err != nil {
			return clip.Request{}, err
		}
	}
	if override.Prompt != "" {
		req.Prompt = override.Prompt
	}
	if override.Narration != "" {
		req.Narration = override.Narration
	}
	if override.Style != "" {
		req.Style = override.Style
	}
	if override.AspectRatio != "" {
		req.AspectRatio = override.AspectRatio
	}
	if override.Language != "" {
		req.Language = override.Language
	}
	return req, nil
}
