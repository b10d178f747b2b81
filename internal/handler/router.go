package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/life-command/internal/auth"
	"github.com/BuzzLyutic/life-command/pkg/respond"
)

// HealthCheck is one dependency probed by GET /health.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type RouterConfig struct {
	Tasks          *TaskHandler
	Auth           *auth.Middleware
	Logger         *zap.Logger
	AllowedOrigins []string
	HealthChecks   []HealthCheck
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", auth.APIKeyHeader},
			AllowCredentials: true,
		})
		r.Use(c.Handler)
	}

	r.Get("/health", health(cfg.HealthChecks, cfg.Logger))

	r.Post("/actions/signOut", cfg.Tasks.SignOut)

	// Browser session
	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.Session)
		r.Post("/actions/{action}", cfg.Tasks.Action)
		r.Get("/tasks", cfg.Tasks.List)
	})

	// Internal API: key first, then the caller's bearer token
	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.APIKey)
		r.Use(cfg.Auth.Bearer)
		r.Post("/api/commands", cfg.Tasks.Command)
		r.Get("/api/tasks", cfg.Tasks.List)
	})

	return r
}

func health(checks []HealthCheck, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check.Ping(r.Context()); err != nil {
				logger.Warn("health check failed", zap.String("dependency", check.Name), zap.Error(err))
				respond.Error(w, r, http.StatusServiceUnavailable, check.Name+" unavailable")
				return
			}
		}
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
