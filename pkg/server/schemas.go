package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/history"
	"github.com/haivivi/clipgen/pkg/jobs"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	ID    string `json:"id,omitempty"`
	// Retryable is set when resubmitting the same request may succeed.
	Retryable bool `json:"retryable,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	UptimeS int64  `json:"uptime_s"`
}

// ClipResponse is the body of a successful generation.
type ClipResponse struct {
	ID    string `json:"id"`
	Video string `json:"video"`
	Audio string `json:"audio,omitempty"`
}

type ClipsResponse struct {
	Clips []history.Record `json:"clips"`
}

// Message types sent over the websocket.
const (
	MessageProgress = "progress"
	MessageResult   = "result"
	MessageError    = "error"
)

// Message is one websocket frame sent to the client.
type Message struct {
	Type   string         `json:"type"`
	Event  *clip.Event    `json:"event,omitempty"`
	Result *ClipResponse  `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

func clipResponse(job *jobs.Job) *ClipResponse {
	resp := &ClipResponse{ID: job.ID}
	if job.Result != nil {
		resp.Video = job.Result.Video
		resp.Audio = job.Result.Audio
	}
	return resp
}

// errorStatus maps a run error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	if errors.Is(err, clip.ErrInvalidRequest) {
		return http.StatusBadRequest, "BAD_REQUEST"
	}
	if e, ok := clip.AsError(err); ok {
		code := "VIDEO_" + strings.ToUpper(e.Kind.String())
		if e.Kind == clip.KindTimeout {
			return http.StatusGatewayTimeout, code
		}
		return http.StatusBadGateway, code
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// runError builds the error body for a failed run. job may be nil.
func runError(job *jobs.Job, err error) (int, *ErrorResponse) {
	status, code := errorStatus(err)
	resp := &ErrorResponse{Error: err.Error(), Code: code}
	if e, ok := clip.AsError(err); ok {
		resp.Retryable = e.Retryable()
	}
	if job != nil {
		resp.ID = job.ID
	}
	return status, resp
}
