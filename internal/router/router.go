// Package router sets up all HTTP routes and middleware chains for the
// JSON API. Public reads and QR telemetry stay open; every mutating
// route and the activity trail sit behind the bearer middleware.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"lexcms/internal/auth"
	"lexcms/internal/config"
	"lexcms/internal/handlers"
	"lexcms/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg *config.Config, api *handlers.API, authSvc *auth.Service) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	requireAuth := middleware.RequireAuth(authSvc)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", api.Ping)
		r.Get("/stats", api.Stats)
		r.Get("/drive-proxy/{fileId}", api.DriveProxy)

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", api.Login)
			r.Post("/logout", api.Logout)
			r.Post("/verify", api.Verify)
			r.Get("/session", api.Session)
		})

		// Content — public reads, protected writes.
		r.Route("/content", func(r chi.Router) {
			r.Get("/", api.ContentList)
			r.Get("/{id}", api.ContentGet)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", api.ContentCreate)
				r.Put("/{id}", api.ContentUpdate)
				r.Delete("/{id}", api.ContentDelete)
			})
		})

		// Tree QR records — telemetry counters stay unauthenticated so
		// printed codes keep working without a token.
		r.Route("/qr", func(r chi.Router) {
			r.Get("/", api.TreeList)
			r.Get("/{id}", api.TreeGet)
			r.Post("/scan/{id}", api.TreeScan)
			r.Post("/download/{id}", api.TreeDownload)
			r.Post("/print/{id}", api.TreePrint)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", api.TreeCreate)
				r.Put("/{id}", api.TreeUpdate)
				r.Delete("/{id}", api.TreeDelete)
			})
		})

		// Profile image. /profile-image is kept as an alias for older
		// admin clients.
		r.Get("/profile", api.ProfileGet)
		r.With(requireAuth).Post("/profile", api.ProfileUpdate)
		r.Get("/profile-image", api.ProfileGet)
		r.With(requireAuth).Post("/profile-image", api.ProfileUpdate)

		// Settings
		r.Get("/settings", api.SettingsList)
		r.With(requireAuth).Post("/settings", api.SettingsSet)

		// Activity trail — reads are protected too.
		r.With(requireAuth).Get("/activity", api.ActivityList)
	})

	// Static uploads
	r.Get("/uploads/*", api.Uploads)

	return r
}
