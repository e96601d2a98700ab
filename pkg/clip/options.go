package clip

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultPollInterval is the pause before every status check.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxWait bounds the whole polling phase.
	DefaultMaxWait = 10 * time.Minute

	// DefaultDownloadTimeout bounds a single asset download.
	DefaultDownloadTimeout = 2 * time.Minute
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type config struct {
	pollInterval time.Duration
	maxWait      time.Duration
	httpClient   *http.Client
	credential   CredentialProvider
	logger       *slog.Logger
	sleep        Sleeper
}

func newConfig(opts []Option) *config {
	c := &config{
		pollInterval: DefaultPollInterval,
		maxWait:      DefaultMaxWait,
		credential:   EnvCredential(),
		sleep:        Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultDownloadTimeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Option configures a VideoGenerator, Narrator or Generator.
type Option func(*config)

// WithPollInterval sets the pause before every status check.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxWait bounds the polling phase. Zero disables the bound.
func WithMaxWait(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.maxWait = d
		}
	}
}

// WithHTTPClient sets the client used to download finished assets.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithCredential sets where the download key comes from.
func WithCredential(p CredentialProvider) Option {
	return func(c *config) {
		if p != nil {
			c.credential = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithSleeper replaces the pause used between status checks.
func WithSleeper(s Sleeper) Option {
	return func(c *config) {
		if s != nil {
			c.sleep = s
		}
	}
}
