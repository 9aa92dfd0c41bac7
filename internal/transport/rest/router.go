package rest

import (
	"log/slog"

	"github.com/frahmantamala/project-expenses/internal/transport/middleware"
	"github.com/frahmantamala/project-expenses/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Mountable is implemented by every resource handler.
type Mountable interface {
	Routes(r chi.Router)
}

type RouterConfig struct {
	AllowedOrigins string
	// Validator is optional; nil skips OpenAPI request validation.
	Validator *middleware.RequestValidator
	Health    *HealthHandler
	Expenses  Mountable
	Projects  Mountable
	Users     Mountable
	Products  Mountable
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.UserID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	if cfg.Health != nil {
		router.Get("/health", cfg.Health.Health)
		router.Get("/ping", cfg.Health.Ping)
	}

	router.Route("/api", func(r chi.Router) {
		if cfg.Validator != nil {
			r.Use(cfg.Validator.Middleware)
		}

		mount(r, "/expenses", cfg.Expenses)
		mount(r, "/projects", cfg.Projects)
		mount(r, "/users", cfg.Users)
		mount(r, "/products", cfg.Products)
	})
}

func mount(r chi.Router, prefix string, h Mountable) {
	if h == nil {
		return
	}
	r.Route(prefix, h.Routes)
}
