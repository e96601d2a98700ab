package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process FileStore.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Read returns a reader over a snapshot of the file.
func (m *Memory) Read(_ context.Context, p string) (io.ReadCloser, error) {
	c, err := CleanPath(p)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.files[c]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: read %s: %w", p, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Write buffers data and publishes it on Close.
func (m *Memory) Write(_ context.Context, p string) (io.WriteCloser, error) {
	c, err := CleanPath(p)
	if err != nil {
		return nil, err
	}
	return &memWriter{m: m, path: c}, nil
}

// Delete removes the file.
func (m *Memory) Delete(_ context.Context, p string) error {
	c, err := CleanPath(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.files, c)
	m.mu.Unlock()
	return nil
}

// Exists reports whether the file exists.
func (m *Memory) Exists(_ context.Context, p string) (bool, error) {
	c, err := CleanPath(p)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.files[c]
	m.mu.RUnlock()
	return ok, nil
}

// Paths returns all stored paths with the given prefix, sorted.
func (m *Memory) Paths(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

type memWriter struct {
	m      *Memory
	path   string
	buf    bytes.Buffer
	closed bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.m.mu.Lock()
	w.m.files[w.path] = bytes.Clone(w.buf.Bytes())
	w.m.mu.Unlock()
	return nil
}

var _ FileStore = (*Memory)(nil)
