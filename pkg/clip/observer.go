package clip

import (
	"context"
	"time"
)

// EventType names a progress event.
type EventType string

const (
	EventStarted         EventType = "started"
	EventSubmitted       EventType = "submitted"
	EventPolled          EventType = "polled"
	EventDownloaded      EventType = "downloaded"
	EventNarrated        EventType = "narrated"
	EventNarrationFailed EventType = "narration_failed"
	EventCompleted       EventType = "completed"
	EventFailed          EventType = "failed"
)

// Event reports progress of a single Run.
type Event struct {
	Type      EventType `json:"type"`
	Time      time.Time `json:"time"`
	Operation string    `json:"operation,omitempty"`
	Attempt   int       `json:"attempt,omitempty"`
	Bytes     int       `json:"bytes,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Observer receives progress events. Observe may be called from several
// goroutines at once and must not block for long.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(ev Event) { f(ev) }

type observerKey struct{}

// WithObserver returns a context whose Run calls report to o.
func WithObserver(ctx context.Context, o Observer) context.Context {
	return context.WithValue(ctx, observerKey{}, o)
}

// ObserverFrom returns the observer attached to ctx, or nil.
func ObserverFrom(ctx context.Context) Observer {
	o, _ := ctx.Value(observerKey{}).(Observer)
	return o
}

// Observers fans events out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	var list []Observer
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(ev Event) {
		for _, o := range list {
			o.Observe(ev)
		}
	})
}

func notify(ctx context.Context, ev Event) {
	o := ObserverFrom(ctx)
	if o == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	o.Observe(ev)
}
