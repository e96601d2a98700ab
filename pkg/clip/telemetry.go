package clip

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/haivivi/clipgen/pkg/clip"

type instruments struct {
	runs        metric.Int64Counter
	failures    metric.Int64Counter
	polls       metric.Int64Counter
	narrations  metric.Int64Counter
	runDuration metric.Float64Histogram
}

var (
	instOnce sync.Once
	inst     instruments
)

// meters resolves instruments from the global provider on first use so
// that a provider installed at startup is picked up.
func meters() *instruments {
	instOnce.Do(func() {
		m := otel.Meter(instrumentationName)
		inst.runs, _ = m.Int64Counter("clipgen.runs",
			metric.WithDescription("Generation runs started"))
		inst.failures, _ = m.Int64Counter("clipgen.video.failures",
			metric.WithDescription("Video path failures by kind"))
		inst.polls, _ = m.Int64Counter("clipgen.video.polls",
			metric.WithDescription("Video operation status checks"))
		inst.narrations, _ = m.Int64Counter("clipgen.narrations",
			metric.WithDescription("Narration attempts by outcome"))
		inst.runDuration, _ = m.Float64Histogram("clipgen.run.duration",
			metric.WithDescription("Run wall time"),
			metric.WithUnit("s"))
	})
	return &inst
}

func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func countFailure(ctx context.Context, err error) {
	c := meters().failures
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", KindOf(err).String())))
}

func countPoll(ctx context.Context) {
	if c := meters().polls; c != nil {
		c.Add(ctx, 1)
	}
}

func countNarration(ctx context.Context, ok bool) {
	if c := meters().narrations; c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", ok)))
	}
}
