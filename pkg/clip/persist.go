package clip

import (
	"context"
	"fmt"
	"path"

	"github.com/haivivi/clipgen/pkg/encoding"
	"github.com/haivivi/clipgen/pkg/storage"
)

// Assets are the stored paths of a saved clip.
type Assets struct {
	Video string `json:"video" msgpack:"video"`
	Audio string `json:"audio,omitempty" msgpack:"audio,omitempty"`
}

// AssetDir returns the directory holding the assets of clip id.
func AssetDir(id string) string {
	return path.Join("clips", id)
}

// Save decodes the data URIs in res and writes them under AssetDir(id).
func Save(ctx context.Context, store storage.FileStore, id string, res *Result) (*Assets, error) {
	if id == "" || id != path.Base(id) || id == "." || id == ".." {
		return nil, fmt.Errorf("clip: save: invalid id %q", id)
	}
	if res == nil || res.Video == "" {
		return nil, fmt.Errorf("clip: save %s: no video", id)
	}
	video, err := encoding.ParseDataURI(res.Video)
	if err != nil {
		return nil, fmt.Errorf("clip: save %s: video: %w", id, err)
	}

	dir := AssetDir(id)
	assets := &Assets{Video: path.Join(dir, "video"+videoExt(video.MediaType()))}
	if err := storage.WriteFile(ctx, store, assets.Video, video.Data); err != nil {
		return nil, fmt.Errorf("clip: save %s: %w", id, err)
	}

	if res.Audio == "" {
		return assets, nil
	}
	audio, err := encoding.ParseDataURI(res.Audio)
	if err != nil {
		return nil, fmt.Errorf("clip: save %s: audio: %w", id, err)
	}
	assets.Audio = path.Join(dir, "audio.wav")
	if err := storage.WriteFile(ctx, store, assets.Audio, audio.Data); err != nil {
		return nil, fmt.Errorf("clip: save %s: %w", id, err)
	}
	return assets, nil
}

func videoExt(mediaType string) string {
	switch mediaType {
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	default:
		return ".mp4"
	}
}
