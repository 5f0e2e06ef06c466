// Package server provides HTTP server management and lifecycle handling for
// the thyroid dosage API. It includes server setup, middleware configuration,
// route management, and graceful shutdown with proper error handling and
// logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/giygas/thyroid-dosage-api/config"
	"github.com/giygas/thyroid-dosage-api/interfaces"
	"github.com/giygas/thyroid-dosage-api/logging"
	"github.com/giygas/thyroid-dosage-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler interfaces.HTTPHandler
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.Env == "prod" {
		// Put BEFORE RealIPMiddleware to see original RemoteAddr
		s.router.Use(BlockDirectAccessMiddleware)
	}
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(metrics.Metrics)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Calculation routes
	s.router.Post("/dosage/levothyroxine", s.handler.CalculateLevothyroxine)
	s.router.Post("/dosage/methimazole", s.handler.CalculateMethimazole)

	// Rounding routes
	s.router.Get("/rounding/safe/{dose}", s.handler.NearestSafeDose)
	s.router.Get("/rounding/tablet/{dose}", s.handler.NearestTablet)

	// Supporting routes
	s.router.Post("/conditions/summary", s.handler.SummarizeConditions)
	s.router.Get("/reference", s.handler.ServeReference)
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.setupDocumentationRoutes()
}

// setupDocumentationRoutes serves a machine-readable endpoint index at the
// root so the API is self-describing without a separate docs deployment.
func (s *Server) setupDocumentationRoutes() {
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600") // 1 hour
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"name": "thyroid-dosage-api",
			"endpoints": []map[string]string{
				{"method": "POST", "path": "/dosage/levothyroxine", "description": "Levothyroxine dose from a patient profile"},
				{"method": "POST", "path": "/dosage/methimazole", "description": "Methimazole dose from a patient profile"},
				{"method": "GET", "path": "/rounding/safe/{dose}", "description": "Nearest dispensable dose in mcg"},
				{"method": "GET", "path": "/rounding/tablet/{dose}", "description": "Nearest commercial tablet in mcg"},
				{"method": "POST", "path": "/conditions/summary", "description": "Readable summary of dose-relevant conditions"},
				{"method": "GET", "path": "/reference", "description": "Active reference tables and their provenance"},
				{"method": "GET", "path": "/health", "description": "Service health"},
				{"method": "GET", "path": "/metrics", "description": "Prometheus metrics"},
			},
		})
	})

	s.router.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000") // 1 year
		w.WriteHeader(http.StatusNoContent)
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Error("Profiling server failed", "error", err)
		}
	}()
}
