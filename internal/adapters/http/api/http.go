// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	service "github.com/okian/synthorbit/internal/app"
	"github.com/okian/synthorbit/pkg/logger"
	"github.com/okian/synthorbit/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; compositions are the largest payloads.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PerformerDependencies
	SessionDependencies
	CompositionDependencies
	LeaderboardDependencies
	StatsDependencies
	HealthDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	performersHandler   *PerformersHandler
	sessionsHandler     *SessionsHandler
	compositionsHandler *CompositionsHandler
	leaderboardHandler  *LeaderboardHandler
	statsHandler        *StatsHandler
	healthHandler       *HealthHandler
	dashboardHandler    *dashboardHandler
	logger              logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	r := &responder{logger: s.logger}
	s.performersHandler = NewPerformersHandler(deps, r)
	s.sessionsHandler = NewSessionsHandler(deps, r)
	s.compositionsHandler = NewCompositionsHandler(deps, r)
	s.leaderboardHandler = NewLeaderboardHandler(deps, r)
	s.statsHandler = NewStatsHandler(deps, r)
	s.healthHandler = NewHealthHandler(deps, r)
	s.dashboardHandler = newDashboardHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, s.Middleware(h, endpoint))
	}

	route("POST /api/performers/register", "performers_register", s.performersHandler.HandleRegister)

	route("POST /api/sessions/start", "sessions_start", s.sessionsHandler.HandleStart)
	route("POST /api/sessions/event", "sessions_event", s.sessionsHandler.HandleEvent)
	route("POST /api/sessions/end", "sessions_end", s.sessionsHandler.HandleEnd)
	route("GET /api/sessions/{id}", "sessions_get", s.sessionsHandler.HandleGet)
	route("GET /api/sessions/{id}/events", "sessions_events", s.sessionsHandler.HandleEvents)

	route("POST /api/compositions", "compositions_save", s.compositionsHandler.HandleSave)
	route("GET /api/compositions", "compositions_list", s.compositionsHandler.HandleList)
	route("GET /api/compositions/{id}", "compositions_get", s.compositionsHandler.HandleGet)

	route("GET /api/leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	route("GET /api/stats", "stats", s.statsHandler.HandleStats)
	route("GET /api/health", "health", s.healthHandler.HandleHealth)

	route("GET /dashboard", "dashboard", s.dashboardHandler.HandleDashboard)
	route("GET /metrics", "metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP)
}

// okResponse is the bare success envelope.
type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes the request body into dst regardless of Content-Type,
// since browsers send sendBeacon payloads as text/plain. A missing or
// malformed body leaves dst untouched, so required-field checks report it.
func decodeBody[T any](r *http.Request, dst *T) {
	if r.Body == nil {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// queryLimit parses an optional positive ?limit=. Absent means 0.
func queryLimit(r *http.Request, op string) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewKind(op, ErrBadRequest, msgInvalidLimit)
	}
	return n, nil
}

// pathID parses the {id} wildcard; anything but a positive integer is 0.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// responder writes error envelopes and reports server-side failures.
type responder struct {
	logger logger.Logger
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing text for err.
func messageFor(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return service.Message(err)
}

func (rp *responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		rp.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		captureError(r.Context(), err)
	}
	writeJSON(w, status, errorResponse{OK: false, Error: messageFor(err)})
}
