package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/clipgen/pkg/logging"
	"github.com/haivivi/clipgen/pkg/server"
	"github.com/haivivi/clipgen/pkg/telemetry"
)

var (
	serveAddr         string
	serveSave         bool
	serveTraces       string
	serveOTLPEndpoint string
	serveOTLPInsecure bool
)

// version is set at build time with -ldflags "-X ...commands.version=...".
var version = "dev"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the clip generation HTTP API.

Endpoints:
  GET  /health
  POST /v1/clips             generate a clip (JSON request, waits for the result)
  GET  /v1/clips             list runs
  GET  /v1/clips/{id}        one run
  GET  /v1/clips/{id}/video  stored video (with --save)
  GET  /v1/clips/{id}/audio  stored narration (with --save)
  GET  /v1/clips/ws          websocket: send a request, receive progress and the result
  GET  /metrics              Prometheus metrics

Examples:
  clipgen serve --addr :8080 --save
  clipgen serve --traces otlp --otlp-endpoint localhost:4317 --otlp-insecure`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		if c.LogLevel == "" {
			c.LogLevel = "info"
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, c, appOptions{generator: true})
		if err != nil {
			return err
		}
		defer a.Close()

		tel, err := telemetry.Setup(ctx, telemetry.Config{
			ServiceName:  appName,
			Traces:       serveTraces,
			OTLPEndpoint: serveOTLPEndpoint,
			OTLPInsecure: serveOTLPInsecure,
		}, a.log)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Addr:       serveAddr,
			Runner:     a.runner,
			Metrics:    tel.Handler(),
			Logger:     logging.WithComponent(a.log, "server"),
			Version:    version,
			SaveAssets: serveSave,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err = <-errCh:
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
			err = serr
		}
		if terr := tel.Shutdown(shutdownCtx); terr != nil {
			a.log.Warn("telemetry shutdown failed", "error", terr)
		}
		return err
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	f.BoolVar(&serveSave, "save", false, "save every generated clip to the store")
	f.StringVar(&serveTraces, "traces", telemetry.TracesNone, "trace exporter: none, stdout or otlp")
	f.StringVar(&serveOTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint")
	f.BoolVar(&serveOTLPInsecure, "otlp-insecure", false, "disable TLS for OTLP")
}
