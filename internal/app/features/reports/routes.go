// internal/app/features/reports/routes.go
package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the router for report endpoints. Each report comes in
// CSV and PDF form, selected by the path suffix.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeRecent)

	r.Get("/end-of-day.csv", func(w http.ResponseWriter, r *http.Request) {
		h.ServeEndOfDay(w, r, "csv")
	})
	r.Get("/end-of-day.pdf", func(w http.ResponseWriter, r *http.Request) {
		h.ServeEndOfDay(w, r, "pdf")
	})
	r.Get("/issues.csv", func(w http.ResponseWriter, r *http.Request) {
		h.ServeIssues(w, r, "csv")
	})
	r.Get("/issues.pdf", func(w http.ResponseWriter, r *http.Request) {
		h.ServeIssues(w, r, "pdf")
	})
	r.Get("/attendance.csv", func(w http.ResponseWriter, r *http.Request) {
		h.ServeAttendance(w, r, "csv")
	})
	r.Get("/attendance.pdf", func(w http.ResponseWriter, r *http.Request) {
		h.ServeAttendance(w, r, "pdf")
	})

	return r
}
