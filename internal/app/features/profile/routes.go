// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Routes serves the signed-in user's profile. Mounted behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGet)
	r.Put("/", h.ServeUpdate)
	return r
}
