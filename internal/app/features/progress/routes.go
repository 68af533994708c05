// internal/app/features/progress/routes.go
package progress

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the live progress channel.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/ws", h.ServeWS)

	return r
}
