package clip

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Generator runs the video and narration paths for a request and merges
// their outcomes.
type Generator struct {
	video    *VideoGenerator
	narrator *Narrator
	cfg      *config
}

// NewGenerator returns a Generator. speech may be nil, in which case
// narration is always skipped.
func NewGenerator(video VideoEndpoint, speech SpeechEndpoint, opts ...Option) *Generator {
	cfg := newConfig(opts)
	g := &Generator{
		video: &VideoGenerator{endpoint: video, cfg: cfg},
		cfg:   cfg,
	}
	if speech != nil {
		g.narrator = &Narrator{endpoint: speech, cfg: cfg}
	}
	return g
}

type videoOutcome struct {
	video string
	err   error
}

// Run generates the clip. Both paths run concurrently and Run waits for both
// before returning. A video failure is returned as the error; a narration
// failure only leaves Result.Audio empty.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalize()

	start := time.Now()
	ctx, span := tracer().Start(ctx, "clip.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("clip.aspect_ratio", string(req.AspectRatio)),
		attribute.String("clip.language", string(req.Language)),
		attribute.Bool("clip.narration", req.Narration != ""),
	)
	if c := meters().runs; c != nil {
		c.Add(ctx, 1)
	}
	notify(ctx, Event{Type: EventStarted})

	var (
		wg        sync.WaitGroup
		vo        videoOutcome
		narration Narration
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.cfg.logger.ErrorContext(ctx, "video path panicked", "panic", r, "stack", string(debug.Stack()))
				vo = videoOutcome{err: fmt.Errorf("clip: video path panicked: %v", r)}
			}
		}()
		v, err := g.video.Generate(ctx, req.Prompt, req.Style, req.AspectRatio)
		vo = videoOutcome{video: v, err: err}
	}()

	if req.Narration != "" && g.narrator != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					g.cfg.logger.ErrorContext(ctx, "narration path panicked", "panic", r)
					narration = Narration{Err: fmt.Errorf("clip: narration path panicked: %v", r)}
				}
			}()
			narration = g.narrator.Narrate(ctx, req.Narration, req.Language)
		}()
	}

	wg.Wait()

	elapsed := time.Since(start)
	if h := meters().runDuration; h != nil {
		h.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.Bool("ok", vo.err == nil)))
	}

	if vo.err != nil {
		span.RecordError(vo.err)
		span.SetStatus(codes.Error, vo.err.Error())
		g.cfg.logger.ErrorContext(ctx, "clip generation failed", "error", vo.err, "elapsed", elapsed)
		notify(ctx, Event{Type: EventFailed, Error: vo.err.Error()})
		return nil, vo.err
	}

	res := &Result{Video: vo.video, Audio: narration.Audio}
	g.cfg.logger.InfoContext(ctx, "clip generated", "audio", res.HasAudio(), "elapsed", elapsed)
	notify(ctx, Event{Type: EventCompleted})
	return res, nil
}
