// Package storage persists generated clip assets.
//
// A FileStore holds opaque files addressed by forward-slash paths such as
// "clips/0192.../video.mp4". Three backends are provided: [Local] (a
// directory on disk), [Memory] (tests and ephemeral servers) and [S3Store]
// (Amazon S3 or any compatible object store).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrInvalidPath is returned for paths that are empty, absolute or escape
// the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore is a minimal interface for file-oriented storage.
//
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file. Missing files yield an error wrapping
	// os.ErrNotExist. The caller closes the reader.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or truncates the named file. Data is visible only
	// after Close returns nil.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// CleanPath validates p and returns its canonical form.
func CleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return c, nil
}

// WriteFile stores data at p in one call.
func WriteFile(ctx context.Context, fs FileStore, p string, data []byte) error {
	w, err := fs.Write(ctx, p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return fmt.Errorf("storage: write %s: %w", p, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", p, err)
	}
	return nil
}

// ReadFile returns the whole content stored at p.
func ReadFile(ctx context.Context, fs FileStore, p string) ([]byte, error) {
	r, err := fs.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
