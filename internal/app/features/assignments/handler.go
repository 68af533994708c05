// internal/app/features/assignments/handler.go
package assignments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/store/assignments"
	"github.com/ezzdayhq/ezzday/internal/app/system/htmlsanitize"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves the assignment endpoints: CRUD plus the three dispatch
// actions that drive the day (attendance confirmation, checkpoint status,
// completion).
type Handler struct {
	Assignments *assignments.Store
	Log         *zap.Logger
}

// NewHandler creates an assignments handler.
func NewHandler(store *assignments.Store, logger *zap.Logger) *Handler {
	return &Handler{Assignments: store, Log: logger}
}

// assignmentRequest is the JSON body for creating or updating an
// assignment.
type assignmentRequest struct {
	CrewID    string `json:"crew_id"`
	RouteID   string `json:"route_id"`
	ClientID  string `json:"client_id"`
	ZoneID    string `json:"zone_id"`
	DOC       string `json:"doc"` // YYYY-MM-DD
	WeekType  string `json:"week_type"`
	StartTime string `json:"start_time"` // "HH:MM", optional
}

func (req *assignmentRequest) toModel() (models.Assignment, error) {
	var a models.Assignment
	var err error
	if a.CrewID, err = primitive.ObjectIDFromHex(req.CrewID); err != nil {
		return a, errors.New("invalid crew_id")
	}
	if a.RouteID, err = primitive.ObjectIDFromHex(req.RouteID); err != nil {
		return a, errors.New("invalid route_id")
	}
	if a.ClientID, err = primitive.ObjectIDFromHex(req.ClientID); err != nil {
		return a, errors.New("invalid client_id")
	}
	if a.ZoneID, err = primitive.ObjectIDFromHex(req.ZoneID); err != nil {
		return a, errors.New("invalid zone_id")
	}
	doc, err := time.Parse("2006-01-02", req.DOC)
	if err != nil {
		return a, errors.New("invalid doc, want YYYY-MM-DD")
	}
	a.DOC = models.CollectionDate(doc)
	a.WeekType = req.WeekType
	if req.StartTime != "" {
		if _, _, err := models.ParseClock(req.StartTime); err != nil {
			return a, errors.New("invalid start_time, want HH:MM")
		}
		a.StartTime = req.StartTime
	}
	return a, nil
}

// ServeCreate handles POST /api/assignments.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	a, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Assignments.Create(ctx, a)
	if err != nil {
		h.Log.Error("create assignment failed", zap.Error(err))
		http.Error(w, "could not create assignment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// ServeList handles GET /api/assignments?date=YYYY-MM-DD (defaults to
// today) or ?from=&to= for a range.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Assignment
		err  error
	)
	if fromS, toS := q.Get("from"), q.Get("to"); fromS != "" || toS != "" {
		from, ferr := time.Parse("2006-01-02", fromS)
		to, terr := time.Parse("2006-01-02", toS)
		if ferr != nil || terr != nil {
			http.Error(w, "invalid from/to, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		list, err = h.Assignments.ForDateRange(ctx, from, to)
	} else {
		date := time.Now()
		if s := q.Get("date"); s != "" {
			if date, err = time.Parse("2006-01-02", s); err != nil {
				http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}
		list, err = h.Assignments.ForDate(ctx, date)
	}
	if err != nil {
		h.Log.Error("list assignments failed", zap.Error(err))
		http.Error(w, "could not list assignments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// ServeGet handles GET /api/assignments/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Assignments.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get assignment failed", zap.Error(err))
		http.Error(w, "could not load assignment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

// ServeUpdate handles PUT /api/assignments/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	a, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Assignments.Update(ctx, a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "assignment not found", http.StatusNotFound)
			return
		}
		h.Log.Error("update assignment failed", zap.Error(err))
		http.Error(w, "could not update assignment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/assignments/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "assignment not found", http.StatusNotFound)
			return
		}
		h.Log.Error("delete assignment failed", zap.Error(err))
		http.Error(w, "could not delete assignment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// attendanceRequest is the JSON body for the morning compliance check.
type attendanceRequest struct {
	AttendanceConfirmed bool `json:"attendance_confirmed"`
	PPECompliance       bool `json:"ppe_compliance"`
}

// ServeConfirmAttendance handles POST /api/assignments/{id}/attendance.
func (h *Handler) ServeConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Assignments.ConfirmAttendance(ctx, id, req.AttendanceConfirmed, req.PPECompliance)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("confirm attendance failed", zap.Error(err))
		http.Error(w, "could not confirm attendance", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statusRequest is the JSON body for a checkpoint status update.
type statusRequest struct {
	Status string `json:"status"`
}

// ServeSetStatus handles POST /api/assignments/{id}/status/{label}. A
// checkpoint accepts exactly one status; a second submission gets 409.
func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	label := chi.URLParam(r, "label")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Assignments.SetStatus(ctx, id, label, htmlsanitize.StripTags(req.Status))
	switch {
	case errors.Is(err, assignments.ErrUnknownCheckpoint):
		http.Error(w, "unknown checkpoint label", http.StatusBadRequest)
	case errors.Is(err, assignments.ErrStatusAlreadySet):
		http.Error(w, "checkpoint status already set", http.StatusConflict)
	case errors.Is(err, mongo.ErrNoDocuments):
		http.Error(w, "assignment not found", http.StatusNotFound)
	case err != nil:
		h.Log.Error("set status failed", zap.String("label", label), zap.Error(err))
		http.Error(w, "could not set status", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// completeRequest is the JSON body for completing an assignment.
type completeRequest struct {
	EndTime string `json:"end_time"` // "HH:MM"
}

// ServeComplete handles POST /api/assignments/{id}/complete and returns
// the assignment with its computed completion hours.
func (h *Handler) ServeComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if _, _, err := models.ParseClock(req.EndTime); err != nil {
		http.Error(w, "invalid end_time, want HH:MM", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Assignments.Complete(ctx, id, req.EndTime)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "assignment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("complete assignment failed", zap.Error(err))
		http.Error(w, "could not complete assignment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

func objectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}
