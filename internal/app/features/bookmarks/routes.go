// internal/app/features/bookmarks/routes.go
package bookmarks

import "github.com/go-chi/chi/v5"

// Routes serves the reading list. Mounted behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
