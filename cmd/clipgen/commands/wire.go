package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haivivi/clipgen/pkg/cli"
	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/events"
	"github.com/haivivi/clipgen/pkg/gemini"
	"github.com/haivivi/clipgen/pkg/history"
	"github.com/haivivi/clipgen/pkg/jobs"
	"github.com/haivivi/clipgen/pkg/kv"
	"github.com/haivivi/clipgen/pkg/logging"
	"github.com/haivivi/clipgen/pkg/openaitts"
	"github.com/haivivi/clipgen/pkg/storage"
)

// app holds the components built from a context.
type app struct {
	log     *slog.Logger
	runner  *jobs.Runner
	history *history.Store
	store   storage.FileStore
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newLogger builds the logger for c. verbose forces debug level.
func newLogger(c *cli.Context, verbose bool) *slog.Logger {
	level := c.LogLevel
	if level == "" {
		level = "warn"
	}
	if verbose {
		level = "debug"
	}
	return logging.New(level, c.LogFormat)
}

// credential returns the provider used to authorize video downloads.
func credential(c *cli.Context) clip.CredentialProvider {
	if c.APIKey != "" {
		return clip.StaticCredential(c.APIKey)
	}
	return clip.EnvCredential()
}

// clipOptions turns the context's timing settings into generator options.
func clipOptions(c *cli.Context, log *slog.Logger) ([]clip.Option, error) {
	opts := []clip.Option{
		clip.WithCredential(credential(c)),
		clip.WithLogger(log),
	}
	poll, err := c.PollIntervalDuration()
	if err != nil {
		return nil, err
	}
	if poll > 0 {
		opts = append(opts, clip.WithPollInterval(poll))
	}
	if c.MaxWait != "" {
		wait, err := c.MaxWaitDuration()
		if err != nil {
			return nil, err
		}
		opts = append(opts, clip.WithMaxWait(wait))
	}
	return opts, nil
}

// newGenerator connects the video and speech endpoints for c.
func newGenerator(ctx context.Context, c *cli.Context, log *slog.Logger) (*clip.Generator, error) {
	key, err := credential(c).Credential(ctx)
	if errors.Is(err, clip.ErrNoCredential) {
		return nil, fmt.Errorf("no Gemini API key: set api_key in the context or %s", strings.Join(clip.CredentialEnvVars, "/"))
	}
	if err != nil {
		return nil, err
	}
	gc, err := gemini.New(ctx, gemini.Config{
		APIKey:      key,
		BaseURL:     c.BaseURL,
		VideoModel:  c.VideoModel,
		SpeechModel: c.SpeechModel,
	})
	if err != nil {
		return nil, err
	}
	speech, err := newSpeech(c, gc)
	if err != nil {
		return nil, err
	}
	opts, err := clipOptions(c, log)
	if err != nil {
		return nil, err
	}
	return clip.NewGenerator(gc.Video(), speech, opts...), nil
}

func newSpeech(c *cli.Context, gc *gemini.Client) (clip.SpeechEndpoint, error) {
	switch c.SpeechProvider {
	case "", cli.SpeechGemini:
		return gc.Speech(), nil
	case cli.SpeechOpenAI:
		ep, err := openaitts.New(openaitts.Config{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return ep, nil
	default:
		return nil, fmt.Errorf("unknown speech_provider %q", c.SpeechProvider)
	}
}

// openStore returns the asset store for c. Without a store section clips
// go to the data directory.
func openStore(c *cli.Context, paths *cli.Paths) (storage.FileStore, error) {
	s := c.Store
	if s != nil && s.Bucket != "" {
		client, err := storage.NewS3Client(storage.S3Config{
			Bucket:          s.Bucket,
			Prefix:          s.Prefix,
			Region:          s.Region,
			Endpoint:        s.Endpoint,
			PathStyle:       s.PathStyle,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3(client, s.Bucket, s.Prefix), nil
	}
	dir := paths.DataDir()
	if s != nil && s.Dir != "" {
		dir = s.Dir
	}
	return storage.NewLocal(dir)
}

// openKV opens the history database. The default is sqlite in the data
// directory so history survives between invocations.
func openKV(c *cli.Context, paths *cli.Paths, log *slog.Logger) (kv.Store, error) {
	backend, path := cli.HistorySQLite, ""
	if c.History != nil {
		if c.History.Backend != "" {
			backend = c.History.Backend
		}
		path = c.History.Path
	}
	if path == "" {
		path = paths.HistoryPath(backend)
	}
	switch backend {
	case cli.HistoryMemory:
		return kv.NewMemory(nil), nil
	case cli.HistoryBadger:
		return kv.NewBadger(kv.BadgerOptions{Dir: path, Logger: log})
	case cli.HistorySQLite:
		return kv.NewSQLite(path, nil)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

// openEvents connects to NATS when c names a server.
func openEvents(c *cli.Context, log *slog.Logger) (events.Publisher, error) {
	if c.NATSURL == "" {
		return events.Nop{}, nil
	}
	return events.Connect(events.Config{Servers: strings.Split(c.NATSURL, ",")}, log)
}

type appOptions struct {
	// generator connects the provider endpoints; history-only commands
	// leave it off and need no API key.
	generator bool
}

func buildApp(ctx context.Context, c *cli.Context, o appOptions) (*app, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("context %s: %w", c.Name, err)
	}
	log := newLogger(c, verbose)
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, err
	}

	a := &app{log: log}
	store, err := openStore(c, paths)
	if err != nil {
		return nil, err
	}
	a.store = store

	db, err := openKV(c, paths, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	a.history = history.New(db)

	if !o.generator {
		return a, nil
	}

	gen, err := newGenerator(ctx, c, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	pub, err := openEvents(c, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() error { pub.Close(); return nil })

	a.runner = jobs.NewRunner(gen,
		jobs.WithStore(store),
		jobs.WithHistory(a.history),
		jobs.WithEvents(pub),
		jobs.WithLogger(log),
	)
	return a, nil
}
