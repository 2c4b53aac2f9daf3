// Package httpapi exposes the feedback engine to the desktop editor over a
// localhost HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marginalia/internal/lifecycle"
	"marginalia/internal/provider"
	"marginalia/internal/runtime"
	"marginalia/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Feedback(ctx context.Context, req types.FeedbackRequest) (types.FeedbackResponse, error)
	Status() types.StatusResponse
	Probe(ctx context.Context) map[string]string
	Ready() bool
}

// NewMux builds the router: /feedback, /status, /healthz, /readyz, /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// The editor webview runs on its own localhost origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// Feedback godoc
	// @Summary      Generate inline feedback for a note
	// @Accept       json
	// @Produce      json
	// @Param        request body types.FeedbackRequest true "Note content"
	// @Success      200 {object} types.FeedbackResponse
	// @Failure      400 {object} types.ErrorResponse
	// @Failure      502 {object} types.ErrorResponse
	// @Failure      503 {object} types.ErrorResponse
	// @Router       /feedback [post]
	r.Post("/feedback", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.FeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			writeJSONError(w, http.StatusBadRequest, "content is required")
			return
		}

		start := time.Now()
		logStart(r, len(req.Content))
		// Join server base context with request context so shutdown cancels work too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.Feedback(joinedCtx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForError(err)
			writeJSONError(w, status, err.Error())
			logEnd(r, status, time.Since(start), err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		logEnd(r, http.StatusOK, time.Since(start), nil)
	})

	// Status godoc
	// @Summary      Engine status for the UI indicator
	// @Produce      json
	// @Param        probe query bool false "Run provider connectivity probes"
	// @Success      200 {object} types.StatusResponse
	// @Router       /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		if r.URL.Query().Get("probe") == "1" {
			st.Probes = svc.Probe(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
	})

	r.Handle("/metrics", promhttp.Handler())
	MountSwagger(r)
	return r
}

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps engine error kinds onto HTTP status codes. Artifact
// problems and missing runtime support are 503 (the service cannot serve
// until the environment changes); other provider failures are 502.
func statusForError(err error) int {
	// Provider tags wrap the underlying kind; classify the cause.
	cause := err
	if provider.IsProviderError(err) {
		if u := errors.Unwrap(err); u != nil {
			cause = u
		}
	}
	switch {
	case runtime.IsModelNotFound(cause), runtime.IsModelCorrupted(cause),
		runtime.IsDependencyUnavailable(cause), lifecycle.IsInitializing(cause),
		lifecycle.IsNotReady(cause), lifecycle.IsLoadFailed(cause):
		return http.StatusServiceUnavailable
	case provider.IsProviderError(err):
		return http.StatusBadGateway
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
