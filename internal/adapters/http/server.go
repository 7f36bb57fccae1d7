// Package http exposes the screening engine as a JSON API for the
// portal frontend. Handlers are hand-written on chi; state lives
// server-side, keyed by session id.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amparo-health/screening"
	"github.com/amparo-health/screening/pkg/domain"
)

// Server holds the HTTP handlers for the screening API.
type Server struct {
	engine *screening.Engine
	logger *slog.Logger
}

// Option configures the handler.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	metrics http.Handler
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetricsHandler mounts a /metrics endpoint (e.g. promhttp for a
// custom registry). Defaults to the global Prometheus handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *config) {
		c.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine *screening.Engine, opts ...Option) http.Handler {
	cfg := &config{
		logger:  slog.Default(),
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{engine: engine, logger: cfg.logger}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/catalog", s.GetCatalog)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.CreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.GetSession)
				r.Delete("/", s.DeleteSession)
				r.Get("/question", s.GetQuestion)
				r.Post("/answers", s.RecordAnswer)
				r.Get("/actions", s.GetActions)
			})
		})
	})
	r.Method(http.MethodGet, "/metrics", cfg.metrics)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type createSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

type sessionResponse struct {
	State  *domain.State     `json:"state"`
	Prompt *screening.Prompt `json:"prompt,omitempty"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// CreateSession handles POST /api/sessions. A missing session id gets a
// generated UUID.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("CreateSession: invalid request body", "err", err)
			return
		}
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	state, err := s.engine.Start(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}
	prompt, err := s.engine.NextQuestion(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	s.writeJSON(w, sessionResponse{State: state, Prompt: prompt})
}

// GetSession handles GET /api/sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	state, err := s.engine.Sessions().Load(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, sessionResponse{State: state})
}

// DeleteSession handles DELETE /api/sessions/{sessionID}: full erasure of
// the recorded answers.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.engine.Delete(r.Context(), sessionID); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetQuestion handles GET /api/sessions/{sessionID}/question.
func (s *Server) GetQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	prompt, err := s.engine.NextQuestion(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetQuestion", err)
		return
	}
	s.writeJSON(w, prompt)
}

// RecordAnswer handles POST /api/sessions/{sessionID}/answers.
func (s *Server) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RecordAnswer: invalid request body", "err", err)
		return
	}
	if body.QuestionID == "" {
		http.Error(w, "question_id is required", http.StatusBadRequest)
		return
	}

	result, err := s.engine.RecordAnswer(r.Context(), sessionID, body.QuestionID, body.Value)
	if err != nil {
		s.writeError(w, "RecordAnswer", err)
		return
	}
	s.writeJSON(w, result)
}

// GetActions handles GET /api/sessions/{sessionID}/actions.
func (s *Server) GetActions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	actions, err := s.engine.Actions(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetActions", err)
		return
	}
	if actions == nil {
		actions = []domain.FiredAction{}
	}
	s.writeJSON(w, actions)
}

// GetCatalog handles GET /api/catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.Inspect())
}

// GetHealth handles GET /api/health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /api/info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "screening-http",
		"version": screening.Version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes. Unknown questions,
// mistyped answers and unknown layers are caller-side programming errors
// (400); missing sessions are 404; everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUnknownQuestion),
		errors.Is(err, domain.ErrInvalidAnswerType),
		errors.Is(err, domain.ErrUnknownLayer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}
