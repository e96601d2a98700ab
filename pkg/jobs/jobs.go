// Package jobs runs clip generation with bookkeeping: each run gets a
// history record, its assets can be saved to a file store, and its outcome
// is announced on the event bus.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/events"
	"github.com/haivivi/clipgen/pkg/history"
	"github.com/haivivi/clipgen/pkg/kv"
	"github.com/haivivi/clipgen/pkg/storage"
)

// Generator produces a clip. *clip.Generator implements it.
type Generator interface {
	Run(ctx context.Context, req clip.Request) (*clip.Result, error)
}

// Runner wraps a Generator with persistence and notifications.
type Runner struct {
	gen     Generator
	store   storage.FileStore
	history *history.Store
	events  events.Publisher
	log     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore enables saving assets.
func WithStore(s storage.FileStore) Option {
	return func(r *Runner) { r.store = s }
}

// WithHistory records runs in h. Without it runs are kept in memory.
func WithHistory(h *history.Store) Option {
	return func(r *Runner) {
		if h != nil {
			r.history = h
		}
	}
}

// WithEvents announces runs on p.
func WithEvents(p events.Publisher) Option {
	return func(r *Runner) {
		if p != nil {
			r.events = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner returns a Runner around gen.
func NewRunner(gen Generator, opts ...Option) *Runner {
	r := &Runner{
		gen:     gen,
		history: history.New(kv.NewMemory(nil)),
		events:  events.Nop{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOptions controls a single run.
type RunOptions struct {
	// Save writes the assets to the file store.
	Save bool
}

// Job is the outcome of a run.
type Job struct {
	ID     string          `json:"id"`
	Result *clip.Result    `json:"result,omitempty"`
	Record *history.Record `json:"record,omitempty"`
}

// Run generates req. The returned Job carries the id even when err is set.
func (r *Runner) Run(ctx context.Context, req clip.Request, opts RunOptions) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalize()

	rec, err := r.history.Begin(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("jobs: record run: %w", err)
	}
	job := &Job{ID: rec.ID, Record: rec}
	log := r.log.With("clip_id", rec.ID)

	ctx = clip.WithObserver(ctx, clip.Observers(
		clip.ObserverFrom(ctx),
		events.ProgressObserver(ctx, r.events, rec.ID, log),
	))

	res, runErr := r.gen.Run(ctx, req)
	if runErr != nil {
		r.finish(ctx, log, rec, func() error { return r.history.Fail(ctx, rec, runErr) })
		return job, runErr
	}
	job.Result = res

	var assets *clip.Assets
	if opts.Save {
		if r.store == nil {
			err := errors.New("jobs: save requested but no store configured")
			r.finish(ctx, log, rec, func() error { return r.history.Fail(ctx, rec, err) })
			return job, err
		}
		if assets, err = clip.Save(ctx, r.store, rec.ID, res); err != nil {
			r.finish(ctx, log, rec, func() error { return r.history.Fail(ctx, rec, err) })
			return job, err
		}
		log.Info("clip assets saved", "video", assets.Video, "audio", assets.Audio)
	}
	r.finish(ctx, log, rec, func() error { return r.history.Succeed(ctx, rec, res, assets) })
	return job, nil
}

// finish records the final state and publishes the outcome. Bookkeeping
// failures are logged and never change the run result.
func (r *Runner) finish(ctx context.Context, log *slog.Logger, rec *history.Record, record func() error) {
	if err := record(); err != nil {
		log.Warn("failed to update history", "error", err)
	}
	if err := r.events.Outcome(ctx, events.OutcomeOf(rec)); err != nil {
		log.Warn("failed to publish outcome", "error", err)
	}
}

// History returns the record store.
func (r *Runner) History() *history.Store {
	return r.history
}

// Store returns the asset store, or nil.
func (r *Runner) Store() storage.FileStore {
	return r.store
}
