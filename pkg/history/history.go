// Package history records every clip generation run in a kv.Store.
//
// Records are msgpack-encoded and keyed by a time-ordered UUID, so listing
// the prefix in key order is also listing in creation order.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/kv"
)

// Status is the state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("history: record not found")

// Record describes one run.
type Record struct {
	ID        string       `json:"id" msgpack:"id"`
	Request   clip.Request `json:"request" msgpack:"request"`
	Status    Status       `json:"status" msgpack:"status"`
	Error     string       `json:"error,omitempty" msgpack:"error,omitempty"`
	ErrorKind string       `json:"error_kind,omitempty" msgpack:"error_kind,omitempty"`
	HasAudio  bool         `json:"has_audio" msgpack:"has_audio"`
	Assets    *clip.Assets `json:"assets,omitempty" msgpack:"assets,omitempty"`

	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitzero" msgpack:"finished_at,omitempty"`
}

// Duration returns how long the run took, or 0 while it is running.
func (r *Record) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.CreatedAt)
}

// Store persists records.
type Store struct {
	kv     kv.Store
	prefix kv.Key
	now    func() time.Time
}

// New returns a Store writing under the "clip" prefix of s.
func New(s kv.Store) *Store {
	return &Store{kv: s, prefix: kv.Key{"clip"}, now: time.Now}
}

// NewID returns a fresh time-ordered record id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) key(id string) kv.Key {
	return append(append(kv.Key{}, s.prefix...), id)
}

// Begin stores a running record for req and returns it.
func (s *Store) Begin(ctx context.Context, req clip.Request) (*Record, error) {
	rec := &Record{
		ID:        NewID(),
		Request:   req,
		Status:    StatusRunning,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Succeed marks rec as succeeded and stores it.
func (s *Store) Succeed(ctx context.Context, rec *Record, res *clip.Result, assets *clip.Assets) error {
	rec.Status = StatusSucceeded
	rec.HasAudio = res.HasAudio()
	rec.Assets = assets
	rec.FinishedAt = s.now().UTC()
	return s.Put(ctx, rec)
}

// Fail marks rec as failed with err and stores it.
func (s *Store) Fail(ctx context.Context, rec *Record, err error) error {
	rec.Status = StatusFailed
	rec.Error = err.Error()
	if k := clip.KindOf(err); k != 0 {
		rec.ErrorKind = k.String()
	}
	rec.FinishedAt = s.now().UTC()
	return s.Put(ctx, rec)
}

// Put writes rec.
func (s *Store) Put(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		return errors.New("history: record id is required")
	}
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: encode %s: %w", rec.ID, err)
	}
	return s.kv.Set(ctx, s.key(rec.ID), data)
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.kv.Get(ctx, s.key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", id, err)
	}
	return &rec, nil
}

// List returns up to limit records, newest first. limit <= 0 means all.
// Malformed entries are skipped.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	var all []Record
	for entry, err := range s.kv.List(ctx, s.prefix) {
		if err != nil {
			return nil, err
		}
		var rec Record
		if err := msgpack.Unmarshal(entry.Value, &rec); err != nil {
			continue
		}
		all = append(all, rec)
	}
	// Keys ascend with time; reverse for newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, s.key(id))
}
