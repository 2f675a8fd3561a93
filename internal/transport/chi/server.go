// Package chi exposes the engine's derived artifacts over a small
// inspection and administration HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	esdex "github.com/kailas-cloud/esdex"
	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/version"
)

// Server serves the inspection API over an Engine.
type Server struct {
	engine *esdex.Engine
	logger *zap.Logger
}

// NewServer creates the inspection API server.
func NewServer(engine *esdex.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: engine, logger: logger}
}

// Routes builds the router. apiKeys enables Bearer authentication when
// non-empty; health and metrics stay open either way.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.handleListModels)
		r.Route("/{model}", func(r chi.Router) {
			r.Get("/mapping", s.handleMapping)
			r.Get("/index-body", s.handleIndexBody)
			r.Get("/fields", s.handleFields)
			r.Get("/relations", s.handleRelations)
		})
	})
	r.Post("/invalidate", s.handleInvalidate)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.Commit,
	})
}

func (s *Server) handleListModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": s.engine.Models()})
}

func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	m, err := s.engine.Mapping(r.Context(), model)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleIndexBody(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	body, err := s.engine.IndexBody(r.Context(), model)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	list, err := s.engine.WeightedFields(r.Context(), model)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fields":       list,
		"query_fields": list.QueryFields(),
	})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")
	paths, err := s.engine.RelationPaths(r.Context(), model)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"relations": paths})
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Invalidate(r.Context()); err != nil {
		s.logger.Error("invalidate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache clear failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) handleEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownModel):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidConfig):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("engine error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
