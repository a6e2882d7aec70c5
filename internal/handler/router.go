package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iamadmin/iamadmin/internal/middleware"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Prefix        string
	IsDevelopment bool
	MaxBodySize   int64
	Logger        *slog.Logger
	Verifier      middleware.TokenVerifier

	Handler    *Handler
	Health     *HealthHandler
	Directory  *DirectoryHandler
	Invitation *InvitationHandler
}

// NewRouter configures the chi router with all routes and middleware.
// Operator routes live under /{Prefix} and require a bearer token;
// the index and probes do not.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.MaxBodySize(cfg.MaxBodySize))

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/", cfg.Handler.Index)

	r.Route("/"+cfg.Prefix, func(r chi.Router) {
		r.Get("/", cfg.Handler.Index)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(middleware.AuthConfig{
				Logger:   cfg.Logger,
				Verifier: cfg.Verifier,
			}))

			r.Get("/users", cfg.Directory.ListUsers)
			r.Get("/user", cfg.Directory.GetUser)
			r.Get("/user/exists", cfg.Directory.UserExists)
			r.Put("/user/{email}", cfg.Directory.UpdateUser)
			r.Get("/apps", cfg.Directory.ListApplications)
			r.Get("/groups/{id}/exists", cfg.Directory.GroupExists)

			r.Post("/invite", cfg.Invitation.Create)
			r.Get("/invite/{token}", cfg.Invitation.Get)
		})
	})

	r.NotFound(cfg.Handler.NotFound)
	r.MethodNotAllowed(cfg.Handler.MethodNotAllowed)

	return r
}
