package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/strideplan/internal/export"
	"github.com/claude/strideplan/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers. A nil encoder means FIT
// export is disabled; the export endpoint then answers 501 instead of 500.
type Server struct {
	db     *storage.DB
	enc    *export.Encoder
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, enc *export.Encoder, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		enc:    enc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleCreateSession)
		r.Put("/api/v1/sessions/{id}/final", s.handleSetFinalWorkout)
		r.Put("/api/v1/preferences", s.handleSetPreferences)
	})

	// Read endpoints
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/sessions/{id}/export/fit", s.handleExportSession)
	s.router.Get("/api/v1/preferences", s.handleGetPreferences)

	// Stateless compile: turn a workout description into structured steps
	// without persisting anything.
	s.router.Post("/api/v1/workouts/compile", s.handleCompileWorkout)
}
