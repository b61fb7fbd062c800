package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/face-auth/internal/config"
	"github.com/kozaktomas/face-auth/internal/identity"
	"github.com/kozaktomas/face-auth/internal/metrics"
	"github.com/kozaktomas/face-auth/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config      *config.Config
	service     *identity.Service
	logger      *slog.Logger
	router      *chi.Mux
	httpServer  *http.Server
	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, service *identity.Service, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:      cfg,
		service:     service,
		logger:      logger,
		router:      r,
		rateLimiter: middleware.NewRateLimiter(cfg.Web.LoginRatePerMin, 30*time.Minute),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	if cfg.Web.MetricsEnabled {
		r.Use(metrics.HTTPMiddleware)
	}
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting web server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")

	s.Close()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Close releases background resources without touching the listener.
// It is safe to call more than once and after Shutdown.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
