// internal/app/features/issues/routes.go
package issues

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for issue endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/repeat-offenders", h.ServeRepeatAddresses)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)

	return r
}
