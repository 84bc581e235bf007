// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// Routes serves notification preferences. Mounted behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGet)
	r.Put("/", h.ServeUpdate)
	return r
}
