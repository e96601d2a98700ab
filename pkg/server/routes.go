package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/history"
	"github.com/haivivi/clipgen/pkg/jobs"
	"github.com/haivivi/clipgen/pkg/logging"
	"github.com/haivivi/clipgen/pkg/storage"
)

// maxRequestBody bounds the JSON request bodies.
const maxRequestBody = 1 << 20

func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/v1/clips", func(r chi.Router) {
		r.Post("/", createClipHandler(cfg))
		r.Get("/", listClipsHandler(cfg))
		r.Get("/ws", clipSocketHandler(cfg))
		r.Get("/{id}", getClipHandler(cfg))
		r.Get("/{id}/video", assetHandler(cfg, func(a *clip.Assets) string { return a.Video }))
		r.Get("/{id}/audio", assetHandler(cfg, func(a *clip.Assets) string { return a.Audio }))
	})

	return r
}

func healthHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func runOptions(cfg Config) jobs.RunOptions {
	return jobs.RunOptions{Save: cfg.SaveAssets && cfg.Runner.Store() != nil}
}

func createClipHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clip.Request
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		job, err := cfg.Runner.Run(r.Context(), req, runOptions(cfg))
		if err != nil {
			status, resp := runError(job, err)
			logging.WithRequestID(cfg.Logger, RequestIDFrom(r.Context())).Warn("clip generation failed", "error", err, "code", resp.Code)
			WriteJSON(w, status, resp)
			return
		}
		WriteJSON(w, http.StatusCreated, clipResponse(job))
	}
}

func listClipsHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				WriteError(w, http.StatusBadRequest, "invalid limit", "BAD_REQUEST")
				return
			}
			limit = n
		}
		records, err := cfg.Runner.History().List(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list clips", "INTERNAL_ERROR")
			return
		}
		if records == nil {
			records = []history.Record{}
		}
		WriteJSON(w, http.StatusOK, ClipsResponse{Clips: records})
	}
}

func getClipHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := lookupRecord(cfg, w, r)
		if !ok {
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

func assetHandler(cfg Config, pick func(*clip.Assets) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := lookupRecord(cfg, w, r)
		if !ok {
			return
		}
		store := cfg.Runner.Store()
		if rec.Assets == nil || store == nil || pick(rec.Assets) == "" {
			WriteError(w, http.StatusNotFound, "asset not stored", "NOT_FOUND")
			return
		}
		p := pick(rec.Assets)
		body, err := store.Read(r.Context(), p)
		if errors.Is(err, os.ErrNotExist) {
			WriteError(w, http.StatusNotFound, "asset not stored", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to read asset", "INTERNAL_ERROR")
			return
		}
		defer body.Close()
		w.Header().Set("Content-Type", storage.ContentType(p))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, body)
	}
}

func lookupRecord(cfg Config, w http.ResponseWriter, r *http.Request) (*history.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := cfg.Runner.History().Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
		return nil, false
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to load clip", "INTERNAL_ERROR")
		return nil, false
	}
	return rec, true
}
