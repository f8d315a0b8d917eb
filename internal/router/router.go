// Package router sets up all HTTP routes and middleware chains for the
// CityGuide API. Public reads are open, entity mutations require an
// authenticated 2FA-verified operator plus a CSRF token.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cityguide/internal/handlers"
	"cityguide/internal/middleware"
	"cityguide/internal/session"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Sessions     *session.Store
	Secure       bool
	LoginLimiter *middleware.RateLimiter

	Auth        *handlers.Auth
	Categories  *handlers.Categories
	Types       *handlers.Types
	Brands      *handlers.Brands
	Businesses  *handlers.Businesses
	Attractions *handlers.Attractions
	Events      *handlers.Events
	SubEvents   *handlers.SubEvents
	Sections    *handlers.Sections
	Upload      *handlers.Upload

	// UploadsDir, when set, is served read-only under /uploads/ for
	// local file storage.
	UploadsDir string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	csrf := middleware.NewCSRF(d.Secure)

	r.Route("/api", func(r chi.Router) {
		// Public reads. Event and subevent handlers gate drafts on the
		// session themselves, so a single registration serves both
		// visitors and operators.
		r.Get("/categories", d.Categories.List)
		r.Get("/categories/{id}", d.Categories.Get)
		r.Get("/types", d.Types.List)
		r.Get("/types/{id}", d.Types.Get)
		r.Get("/brands", d.Brands.List)
		r.Get("/brands/{id}", d.Brands.Get)
		r.Get("/businesses", d.Businesses.List)
		r.Get("/businesses/{id}", d.Businesses.Get)
		r.Get("/attractions", d.Attractions.List)
		r.Get("/attractions/{id}", d.Attractions.Get)
		r.Get("/events", d.Events.List)
		r.Get("/events/{id}", d.Events.Get)
		r.Get("/subevents", d.SubEvents.List)
		r.Get("/subevents/{id}", d.SubEvents.Get)
		r.Get("/sections", d.Sections.List)
		r.Get("/sections/{id}", d.Sections.Get)

		// Auth — CSRF-protected, with the credential endpoints behind
		// the login rate limiter.
		r.Route("/auth", func(r chi.Router) {
			r.Use(csrf)

			r.Group(func(r chi.Router) {
				if d.LoginLimiter != nil {
					r.Use(d.LoginLimiter.Middleware)
				}
				r.Post("/register", d.Auth.Register)
				r.Post("/login", d.Auth.Login)
			})

			r.Post("/logout", d.Auth.Logout)
			r.Get("/me", d.Auth.Me)

			// 2FA enrollment needs a session but not completed 2FA.
			r.Post("/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/2fa/verify", d.Auth.TwoFAVerify)
		})

		// Entity mutations — authenticated, 2FA-verified operators only.
		// Registered as full paths on the shared tree so the public GETs
		// above keep their own middleware stack.
		r.Group(func(r chi.Router) {
			r.Use(csrf)
			r.Use(middleware.RequireAuth)

			r.Post("/categories", d.Categories.Create)
			r.Put("/categories/reorder", d.Categories.Reorder)
			r.Get("/categories/{id}/usage", d.Categories.Usage)
			r.Put("/categories/{id}", d.Categories.Update)
			r.Delete("/categories/{id}", d.Categories.Delete)

			r.Post("/types", d.Types.Create)
			r.Put("/types/reorder", d.Types.Reorder)
			r.Get("/types/{id}/usage", d.Types.Usage)
			r.Put("/types/{id}", d.Types.Update)
			r.Delete("/types/{id}", d.Types.Delete)

			r.Post("/brands", d.Brands.Create)
			r.Put("/brands/{id}", d.Brands.Update)
			r.Delete("/brands/{id}", d.Brands.Delete)

			r.Post("/businesses", d.Businesses.Create)
			r.Put("/businesses/reorder", d.Businesses.Reorder)
			r.Put("/businesses/{id}", d.Businesses.Update)
			r.Delete("/businesses/{id}", d.Businesses.Delete)

			r.Post("/attractions", d.Attractions.Create)
			r.Put("/attractions/{id}", d.Attractions.Update)
			r.Delete("/attractions/{id}", d.Attractions.Delete)

			r.Post("/events", d.Events.Create)
			r.Put("/events/{id}", d.Events.Update)
			r.Delete("/events/{id}", d.Events.Delete)

			r.Post("/subevents", d.SubEvents.Create)
			r.Put("/subevents/{id}", d.SubEvents.Update)
			r.Delete("/subevents/{id}", d.SubEvents.Delete)

			r.Post("/sections", d.Sections.Create)
			r.Put("/sections/reorder", d.Sections.Reorder)
			r.Get("/sections/{id}/usage", d.Sections.Usage)
			r.Put("/sections/{id}", d.Sections.Update)
			r.Delete("/sections/{id}", d.Sections.Delete)

			r.Post("/upload", d.Upload.Handle)
		})
	})

	// Locally stored uploads, when S3 is not configured.
	if d.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
