// internal/app/features/newsletter/routes.go
package newsletter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves the public newsletter endpoints. The signup endpoint takes a
// per-IP rate limit so a bot can't stuff the subscriber list.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(limit).Post("/", h.ServeSubscribe)
	r.Get("/unsubscribe", h.ServeUnsubscribe)
	return r
}
