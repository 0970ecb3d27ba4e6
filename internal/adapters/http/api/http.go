// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	service "github.com/okian/playbook/internal/app"
	"github.com/okian/playbook/internal/domain/position"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	Model(ctx context.Context, req service.ModelRequest) (*service.ModelReport, error)
	Similar(ctx context.Context, req service.SimilarRequest) (*service.SimilarReport, error)
	Seasons(ctx context.Context) ([]int, error)
	Positions() []position.Profile
}

// Server wires HTTP routes for the modeling API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	catalogHandler    *CatalogHandler
	archetypesHandler *ArchetypesHandler
	similarHandler    *SimilarHandler

	rateLimit int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits modeling requests per client IP per minute. Zero disables it.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute >= 0 {
			s.rateLimit = perMinute
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		catalogHandler:    NewCatalogHandler(deps),
		archetypesHandler: NewArchetypesHandler(deps),
		similarHandler:    NewSimilarHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/positions", MetricsMiddleware(s.catalogHandler.HandlePositions, "positions"))
		r.Get("/seasons", MetricsMiddleware(s.catalogHandler.HandleSeasons, "seasons"))

		r.Group(func(r chi.Router) {
			if s.rateLimit > 0 {
				r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))
			}
			r.Get("/archetypes", MetricsMiddleware(s.archetypesHandler.HandleGetArchetypes, "archetypes"))
			r.Get("/similar", MetricsMiddleware(s.similarHandler.HandleGetSimilar, "similar"))
		})
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates engine errors into HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := service.ErrorKind(err)
	status := http.StatusInternalServerError
	switch kind {
	case service.KindInsufficientData:
		status = http.StatusUnprocessableEntity
	case service.KindPlayerNotFound:
		status = http.StatusNotFound
	case service.KindInvalidK, service.KindUnknownPosition, service.KindInvalidUsage, service.KindInvalidRequest:
		status = http.StatusBadRequest
	case service.KindDatasetUnavailable, service.KindCanceled:
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, kind, err)
}
