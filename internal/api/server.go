// Package api serves a built site together with build status endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/qmldoc/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// BuildState exposes the outcome of the most recent build.
type BuildState interface {
	LastReport() *pipeline.Report
	LastError() error
	Documents() []pipeline.JobSnapshot
}

// Rebuilder schedules a rebuild. It must not block for the build itself.
type Rebuilder interface {
	RequestRebuild(reason string)
}

// Server is the preview HTTP server.
type Server struct {
	router    chi.Router
	builds    BuildState
	rebuilder Rebuilder
	metrics   http.Handler
	siteDir   string
	log       *slog.Logger
}

// NewServer creates and configures the HTTP server. metrics may be nil.
func NewServer(builds BuildState, rebuilder Rebuilder, metrics http.Handler, siteDir string, log *slog.Logger) *Server {
	s := &Server{
		builds:    builds,
		rebuilder: rebuilder,
		metrics:   metrics,
		siteDir:   siteDir,
		log:       log,
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

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(NoCache)
		r.Get("/build", s.handleBuild)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{file}", s.handleGetDocument)
		r.Post("/rebuild", s.handleRebuild)
	})

	r.Handle("/*", NoCache(http.FileServer(http.Dir(s.siteDir))))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
