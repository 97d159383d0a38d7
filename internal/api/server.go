// Package api exposes ingestion, question answering, quizzes and
// reports over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"studyrag/internal/ask"
	"studyrag/internal/config"
	"studyrag/internal/index"
	"studyrag/internal/quiz"
	"studyrag/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	indexer *index.Indexer
	asker   *ask.Service
	runner  *quiz.Runner
	store   store.VectorStore
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(indexer *index.Indexer, asker *ask.Service, runner *quiz.Runner, st store.VectorStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		indexer: indexer,
		asker:   asker,
		runner:  runner,
		store:   st,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		// Auth is optional; without a configured key the API is open.
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/ingest", s.handleIngest)
		r.Post("/api/ask", s.handleAsk)
		r.Post("/api/quiz", s.handleQuiz)
		r.Get("/api/stats", s.handleStats)

		r.Get("/api/reports", s.handleListReports)
		r.Get("/api/reports/{name}", s.handleViewReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
