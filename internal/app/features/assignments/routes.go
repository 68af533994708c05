// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for assignment endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)

	r.Post("/{id}/attendance", h.ServeConfirmAttendance)
	r.Post("/{id}/status/{label}", h.ServeSetStatus)
	r.Post("/{id}/complete", h.ServeComplete)

	return r
}
