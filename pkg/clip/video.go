package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/haivivi/clipgen/pkg/encoding"
)

// DefaultVideoType is used when the provider does not report a content type.
const DefaultVideoType = "video/mp4"

var errWaitBudget = errors.New("wait budget exhausted")

// VideoGenerator drives one video job from submission to downloaded asset.
type VideoGenerator struct {
	endpoint VideoEndpoint
	cfg      *config
}

// NewVideoGenerator returns a VideoGenerator using endpoint.
func NewVideoGenerator(endpoint VideoEndpoint, opts ...Option) *VideoGenerator {
	return &VideoGenerator{endpoint: endpoint, cfg: newConfig(opts)}
}

// FullPrompt appends the style clause sent to the provider.
func FullPrompt(prompt, style string) string {
	if strings.TrimSpace(style) == "" {
		style = DefaultStyle
	}
	return prompt + ", in the style of " + style
}

// Generate submits the job, waits for it and returns the video as a data URI.
// All failures are *Error values, except cancellation of ctx.
func (g *VideoGenerator) Generate(ctx context.Context, prompt, style string, aspect AspectRatio) (string, error) {
	ctx, span := tracer().Start(ctx, "clip.video")
	defer span.End()

	video, err := g.generate(ctx, prompt, style, aspect)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		countFailure(ctx, err)
		return "", err
	}
	return video, nil
}

func (g *VideoGenerator) generate(ctx context.Context, prompt, style string, aspect AspectRatio) (string, error) {
	log := g.cfg.logger
	if aspect == "" {
		aspect = AspectLandscape
	}

	op, err := g.endpoint.Submit(ctx, &VideoRequest{
		Prompt:      FullPrompt(prompt, style),
		AspectRatio: aspect,
	})
	if err != nil {
		return "", newError(KindInitiation, "Failed to initiate video generation", err)
	}
	if op == nil {
		return "", newError(KindProtocol, "no operation returned", nil)
	}
	log.InfoContext(ctx, "video operation submitted", "operation", op.Name, "aspect", string(aspect))
	notify(ctx, Event{Type: EventSubmitted, Operation: op.Name})

	op, err = g.wait(ctx, op)
	if err != nil {
		return "", err
	}

	if op.Error != nil {
		return "", newError(KindOperation, "video generation failed", op.Error)
	}
	media := op.FirstMedia()
	if media == nil {
		return "", newError(KindProtocol, "no media in operation output", nil)
	}

	video, n, err := g.download(ctx, media)
	if err != nil {
		return "", err
	}
	log.InfoContext(ctx, "video downloaded", "operation", op.Name, "bytes", n)
	notify(ctx, Event{Type: EventDownloaded, Operation: op.Name, Bytes: n})
	return video, nil
}

// wait polls op until it is done. Every status check is preceded by one
// sleep of the poll interval.
func (g *VideoGenerator) wait(ctx context.Context, op *Operation) (*Operation, error) {
	pollCtx := ctx
	if g.cfg.maxWait > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeoutCause(ctx, g.cfg.maxWait, errWaitBudget)
		defer cancel()
	}

	name := op.Name
	for attempt := 1; !op.Done; attempt++ {
		if err := g.cfg.sleep(pollCtx, g.cfg.pollInterval); err != nil {
			return nil, g.abort(ctx, pollCtx, name, err)
		}

		next, err := g.endpoint.Check(pollCtx, op)
		countPoll(ctx)
		if err != nil {
			if budgetExhausted(ctx, pollCtx) {
				return nil, g.abort(ctx, pollCtx, name, err)
			}
			return nil, newError(KindPoll, "failed to check video operation status", err)
		}
		if next == nil {
			return nil, newError(KindProtocol, "no operation returned by status check", nil)
		}
		op = next
		if op.Name == "" {
			op.Name = name
		}

		g.cfg.logger.DebugContext(ctx, "video operation polled",
			"operation", name, "attempt", attempt, "done", op.Done)
		notify(ctx, Event{Type: EventPolled, Operation: name, Attempt: attempt})
	}
	return op, nil
}

func budgetExhausted(parent, pollCtx context.Context) bool {
	return parent.Err() == nil && errors.Is(context.Cause(pollCtx), errWaitBudget)
}

func (g *VideoGenerator) abort(parent, pollCtx context.Context, name string, err error) error {
	if budgetExhausted(parent, pollCtx) {
		g.cfg.logger.Warn("video operation wait budget exhausted",
			"operation", name, "max_wait", g.cfg.maxWait)
		return newError(KindTimeout, "timed out waiting for video operation",
			fmt.Errorf("%s after %s", name, g.cfg.maxWait))
	}
	if cause := context.Cause(parent); cause != nil {
		return fmt.Errorf("waiting for video operation %s: %w", name, cause)
	}
	return fmt.Errorf("waiting for video operation %s: %w", name, err)
}

// download fetches the asset and returns it as a data URI plus its size.
func (g *VideoGenerator) download(ctx context.Context, media *Media) (string, int, error) {
	contentType := media.ContentType
	if contentType == "" {
		contentType = DefaultVideoType
	}

	// Inline assets need no transfer.
	if strings.HasPrefix(media.URL, "data:") {
		uri, err := encoding.ParseDataURI(media.URL)
		if err != nil {
			return "", 0, newError(KindDownload, "failed to decode inline video", err)
		}
		if len(uri.Data) == 0 {
			return "", 0, newError(KindDownload, "video download returned an empty body", nil)
		}
		if media.ContentType == "" && uri.MIMEType != "" {
			contentType = uri.MIMEType
		}
		return encoding.NewDataURI(contentType, uri.Data).String(), len(uri.Data), nil
	}

	u, err := g.downloadURL(ctx, media.URL)
	if err != nil {
		return "", 0, err
	}

	ctx, span := tracer().Start(ctx, "clip.video.download")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, newError(KindDownload, "failed to build video download request", err)
	}
	resp, err := g.cfg.httpClient.Do(req)
	if err != nil {
		return "", 0, newError(KindDownload, "failed to download video", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, newError(KindDownload,
			fmt.Sprintf("video download failed with status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, newError(KindDownload, "failed to read video body", err)
	}
	if len(data) == 0 {
		return "", 0, newError(KindDownload, "video download returned an empty body", nil)
	}
	return encoding.NewDataURI(contentType, data).String(), len(data), nil
}

// downloadURL appends the credential as the "key" query parameter.
func (g *VideoGenerator) downloadURL(ctx context.Context, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", newError(KindDownload, "invalid video url", err)
	}
	key, err := g.cfg.credential.Credential(ctx)
	switch {
	case errors.Is(err, ErrNoCredential):
		g.cfg.logger.WarnContext(ctx, "downloading video without credential", slog.String("host", u.Host))
		return u.String(), nil
	case err != nil:
		return "", newError(KindDownload, "failed to obtain download credential", err)
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

