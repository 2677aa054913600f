// Package api provides the HTTP API server and handlers for the scentdex catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scentdex/scentdex-server/internal/populate"
	"github.com/scentdex/scentdex-server/internal/service"
	"github.com/scentdex/scentdex-server/internal/store/sqlite"
	"github.com/scentdex/scentdex-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	search    *service.SearchService
	engine    *populate.Engine
	store     *sqlite.Store
	validator *validation.Validator
	router    *chi.Mux
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(search *service.SearchService, engine *populate.Engine, store *sqlite.Store, logger *slog.Logger) *Server {
	s := &Server{
		search:    search,
		engine:    engine,
		store:     store,
		validator: validation.New(),
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			r.Get("/", s.handleSearch)
			r.Get("/autocomplete", s.handleAutocomplete)
		})

		r.Route("/fragrances", func(r chi.Router) {
			r.Get("/", s.handleListFragrances)
			r.Get("/{id}", s.handleGetFragrance)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/usage", s.handleUsageStats)
			r.Get("/population", s.handlePopulationStats)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reindex", s.handleReindex)
		})
	})
}
