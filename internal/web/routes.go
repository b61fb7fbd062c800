package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-auth/internal/web/handlers"
	"github.com/kozaktomas/face-auth/internal/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.service, s.config.Web.MaxUploadSize, s.logger)
	usersHandler := handlers.NewUsersHandler(s.service)
	statsHandler := handlers.NewStatsHandler(s.service)

	if s.config.Web.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/stats", statsHandler.Get)

		r.Post("/register", authHandler.Register)

		// Login attempts are budgeted per client IP
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(s.rateLimiter))
			r.Post("/login", authHandler.Login)
			r.Post("/login/face", authHandler.LoginFace)
		})

		r.Get("/users/{username}", usersHandler.Get)
		r.Delete("/users/{username}", usersHandler.Delete)
	})
}
