// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// Routes serves the admin console. Mounted behind RequireAdmin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	r.Get("/articles", h.ServeArticles)
	r.Get("/articles/{id}", h.ServeArticle)
	r.Get("/users", h.ServeUsers)
	r.Put("/users/{id}/role", h.ServeSetRole)
	r.Get("/audit", h.ServeAudit)
	return r
}
