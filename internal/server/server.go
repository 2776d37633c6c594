package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/resttimer"
	"github.com/ReedRawlings/fitnotes-sub003/internal/storage"
	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db          *storage.DB
	svc         *workout.Service
	timer       *resttimer.Service
	log         *slog.Logger
	apiKey      string
	weightUnit  string
	defaultRest time.Duration
	router      chi.Router
}

// Options carries the presentation and policy knobs handlers need.
type Options struct {
	APIKey      string
	WeightUnit  string
	DefaultRest time.Duration
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, svc *workout.Service, timer *resttimer.Service, opts Options, log *slog.Logger) *Server {
	s := &Server{
		db:          db,
		svc:         svc,
		timer:       timer,
		log:         log,
		apiKey:      opts.APIKey,
		weightUnit:  opts.WeightUnit,
		defaultRest: opts.DefaultRest,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the chi router so main can mount extra handlers (MCP).
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sets", s.handleCreateSet)
		r.Patch("/api/v1/sets/{id}", s.handleUpdateSet)
		r.Delete("/api/v1/sets/{id}", s.handleDeleteSet)
		r.Put("/api/v1/exercises/{id}/progression", s.handlePutProgressionConfig)
		r.Post("/api/v1/rest-timer", s.handleStartTimer)
		r.Delete("/api/v1/rest-timer", s.handleSkipTimer)
		r.Post("/api/v1/rest-timer/ack", s.handleAcknowledgeTimer)
	})

	// Read endpoints
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}", s.handleGetExercise)
	s.router.Get("/api/v1/exercises/{id}/session", s.handleSession)
	s.router.Get("/api/v1/exercises/{id}/last-session", s.handleLastSession)
	s.router.Get("/api/v1/exercises/{id}/status", s.handleProgressionStatus)
	s.router.Get("/api/v1/exercises/{id}/history", s.handleHistory)
	s.router.Get("/api/v1/training/summary", s.handleTrainingSummary)
	s.router.Get("/api/v1/rest-timer", s.handleGetTimer)
}
