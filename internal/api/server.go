// Package api exposes the HTTP interface for the preview service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkpreview/internal/config"
	"github.com/JakeFAU/linkpreview/internal/metrics"
	"github.com/JakeFAU/linkpreview/internal/preview"
)

// Server wires HTTP handlers to the preview service.
type Server struct {
	router   chi.Router
	previews preview.Previewer
	cfg      config.Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(previews preview.Previewer, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		previews: previews,
		cfg:      cfg,
		logger:   logger,
	}

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(chimw.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
	}
	if cfg.Server.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(cfg.Server.RequestTimeout))
	}

	r.Get("/", s.getPreview)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler())
	}

	s.router = r
	return s
}

// Handler returns the traced router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "linkpreview.http")
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Nothing is kept between requests, so there is no downstream to check.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// getPreview serves GET /?url=<absolute URL>. The caller's User-Agent header,
// when present, is forwarded to the outbound fetch.
func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	md, err := s.previews.Handle(r.Context(), rawURL, r.Header.Get("User-Agent"))
	if err != nil {
		writePreviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// statusForKind maps a failure kind to its HTTP status.
func statusForKind(kind preview.Kind) int {
	switch kind {
	case preview.KindInvalidInput:
		return http.StatusBadRequest
	case preview.KindFetchFailure:
		return http.StatusBadGateway
	case preview.KindParseFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writePreviewError(w http.ResponseWriter, err error) {
	kind := preview.KindOf(err)
	msg := err.Error()
	var pe *preview.Error
	if errors.As(err, &pe) && pe.Err != nil {
		msg = pe.Err.Error()
	}
	writeJSON(w, statusForKind(kind), errorResponse{Error: msg, Kind: string(kind)})
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
