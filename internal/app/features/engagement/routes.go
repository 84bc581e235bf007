// internal/app/features/engagement/routes.go
package engagement

import "github.com/go-chi/chi/v5"

// Register attaches the engagement toggles to an existing router. The
// endpoints live under /articles, so the articles feature composes this into
// its signed-in route group.
func Register(r chi.Router, h *Handler) {
	r.Post("/{id}/like", h.ServeToggleLike)
	r.Post("/{id}/bookmark", h.ServeToggleBookmark)
}
