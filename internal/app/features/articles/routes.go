// internal/app/features/articles/routes.go
package articles

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves the article surface. Reads are public; the authoring
// endpoints sit behind the provided sign-in middleware, with ownership and
// moderation checks in the handlers via gates. Other features sharing the
// /articles prefix (the engagement toggles) register into the signed-in
// group via authed.
func Routes(h *Handler, requireSignedIn func(http.Handler) http.Handler, authed ...func(chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{slug}", h.ServeGetBySlug)

	r.Group(func(r chi.Router) {
		r.Use(requireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Put("/autosave", h.ServeAutosave)
		r.Put("/{id}", h.ServeUpdate)
		r.Post("/{id}/publish", h.ServePublish)
		r.Post("/{id}/archive", h.ServeArchive)
		for _, reg := range authed {
			reg(r)
		}
	})

	return r
}
