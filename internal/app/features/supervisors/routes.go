// internal/app/features/supervisors/routes.go
package supervisors

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for supervisor roster endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)

	return r
}
