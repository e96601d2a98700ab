package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetupExportsMetrics(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, Config{ServiceName: "clipgen-test"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	defer tel.Shutdown(ctx)

	counter, err := otel.Meter("telemetry_test").Int64Counter("test.requests")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(ctx, 3)

	rec := httptest.NewRecorder()
	tel.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "test_requests_total") {
		t.Errorf("metric missing from body:\n%s", body)
	}

	_, span := otel.Tracer("telemetry_test").Start(ctx, "op")
	if !span.SpanContext().IsValid() {
		t.Error("span context invalid after Setup")
	}
	span.End()
}

func TestSetupRejectsUnknownExporter(t *testing.T) {
	if _, err := Setup(context.Background(), Config{Traces: "zipkin"}, nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Setup(context.Background(), Config{Traces: TracesOTLP}, nil); err == nil {
		t.Fatal("expected error for otlp without endpoint")
	}
}

func TestNilTelemetry(t *testing.T) {
	var tel *Telemetry
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	tel.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("status = %d", rec.Code)
	}
}
