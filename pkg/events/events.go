// Package events announces clip outcomes on a NATS bus.
package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/history"
)

// Subjects.
const (
	SubjectCompleted = "clipgen.clip.completed"
	SubjectFailed    = "clipgen.clip.failed"

	// SubjectProgressPrefix is followed by the clip id.
	SubjectProgressPrefix = "clipgen.clip.progress."
)

// Outcome is published when a run finishes.
type Outcome struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	Request   clip.Request `json:"request"`
	Error     string       `json:"error,omitempty"`
	ErrorKind string       `json:"error_kind,omitempty"`
	HasAudio  bool         `json:"has_audio"`
	Assets    *clip.Assets `json:"assets,omitempty"`
	Duration  float64      `json:"duration_seconds"`
	Time      time.Time    `json:"time"`
}

// OutcomeOf builds the payload for a finished record.
func OutcomeOf(rec *history.Record) Outcome {
	return Outcome{
		ID:        rec.ID,
		Status:    string(rec.Status),
		Request:   rec.Request,
		Error:     rec.Error,
		ErrorKind: rec.ErrorKind,
		HasAudio:  rec.HasAudio,
		Assets:    rec.Assets,
		Duration:  rec.Duration().Seconds(),
		Time:      rec.FinishedAt,
	}
}

// Publisher announces outcomes and progress.
type Publisher interface {
	Outcome(ctx context.Context, o Outcome) error
	Progress(ctx context.Context, id string, ev clip.Event) error
	Close()
}

// Nop discards everything.
type Nop struct{}

func (Nop) Outcome(context.Context, Outcome) error             { return nil }
func (Nop) Progress(context.Context, string, clip.Event) error { return nil }
func (Nop) Close()                                             {}

// Conn is the part of *nats.Conn used by NATS.
type Conn interface {
	Publish(subj string, data []byte) error
	Drain() error
	Close()
}

// Config describes the NATS connection.
type Config struct {
	Servers        []string      `json:"servers" yaml:"servers"`
	Token          string        `json:"token,omitempty" yaml:"token,omitempty"`
	Username       string        `json:"username,omitempty" yaml:"username,omitempty"`
	Password       string        `json:"password,omitempty" yaml:"password,omitempty"`
	ConnectTimeout time.Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	TLSInsecure    bool          `json:"tls_insecure,omitempty" yaml:"tls_insecure,omitempty"`
}

// NATS publishes JSON messages on a NATS connection.
type NATS struct {
	conn Conn
	log  *slog.Logger
}

// Connect dials the configured servers.
func Connect(cfg Config, log *slog.Logger) (*NATS, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("events: no NATS servers configured")
	}
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	options := []nats.Option{
		nats.Name("clipgen"),
		nats.Timeout(timeout),
	}
	if cfg.Username != "" || cfg.Password != "" {
		options = append(options, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		options = append(options, nats.Token(cfg.Token))
	}
	if cfg.TLSInsecure {
		options = append(options, nats.Secure(&tls.Config{InsecureSkipVerify: true}))
	}

	url := strings.Join(cfg.Servers, ",")
	conn, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("events: connect to nats: %w", err)
	}
	log.Info("connected to NATS", slog.String("servers", url))
	return NewNATS(conn, log), nil
}

// NewNATS wraps an existing connection.
func NewNATS(conn Conn, log *slog.Logger) *NATS {
	if log == nil {
		log = slog.Default()
	}
	return &NATS{conn: conn, log: log}
}

// Outcome publishes o on SubjectCompleted or SubjectFailed.
func (n *NATS) Outcome(_ context.Context, o Outcome) error {
	subject := SubjectCompleted
	if o.Status != string(history.StatusSucceeded) {
		subject = SubjectFailed
	}
	return n.publish(subject, o)
}

// Progress publishes ev on SubjectProgressPrefix+id.
func (n *NATS) Progress(_ context.Context, id string, ev clip.Event) error {
	return n.publish(SubjectProgressPrefix+id, ev)
}

func (n *NATS) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", subject, err)
	}
	if err := n.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("events: publish %s: %w", subject, err)
	}
	n.log.Debug("event published", "subject", subject, "bytes", len(data))
	return nil
}

// Close drains pending messages and closes the connection.
func (n *NATS) Close() {
	n.log.Info("closing NATS connection")
	if err := n.conn.Drain(); err != nil {
		n.log.Warn("drain NATS connection", "error", err)
	}
	n.conn.Close()
}

// ProgressObserver forwards clip progress for id to p. Publish failures are
// logged and otherwise ignored.
func ProgressObserver(ctx context.Context, p Publisher, id string, log *slog.Logger) clip.Observer {
	if log == nil {
		log = slog.Default()
	}
	return clip.ObserverFunc(func(ev clip.Event) {
		if err := p.Progress(ctx, id, ev); err != nil {
			log.Warn("publish progress", "id", id, "event", string(ev.Type), "error", err)
		}
	})
}

var (
	_ Publisher = Nop{}
	_ Publisher = (*NATS)(nil)
	_ Conn      = (*nats.Conn)(nil)
)
