// internal/app/features/issues/handler.go
package issues

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/store/issues"
	"github.com/ezzdayhq/ezzday/internal/app/system/htmlsanitize"
	"github.com/ezzdayhq/ezzday/internal/app/system/offenders"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves the issue endpoints. Every write re-syncs the
// repeat-offender flag for the affected address so readers never see a
// stale flag between detector sweeps.
type Handler struct {
	Issues   *issues.Store
	Detector *offenders.Detector
	Log      *zap.Logger
}

// NewHandler creates an issues handler.
func NewHandler(store *issues.Store, det *offenders.Detector, logger *zap.Logger) *Handler {
	return &Handler{Issues: store, Detector: det, Log: logger}
}

// issueRequest is the JSON body for creating or updating an issue.
type issueRequest struct {
	CrewID       string `json:"crew_id"`
	RouteID      string `json:"route_id"`
	Address      string `json:"address"`
	Description  string `json:"description"`
	IssueType    string `json:"issue_type"`
	DateReported string `json:"date_reported"` // YYYY-MM-DD, defaults to today
}

func (req *issueRequest) toModel() (models.Issue, error) {
	if req.Address == "" {
		return models.Issue{}, errors.New("address is required")
	}
	crewID, err := primitive.ObjectIDFromHex(req.CrewID)
	if err != nil {
		return models.Issue{}, errors.New("invalid crew_id")
	}
	routeID, err := primitive.ObjectIDFromHex(req.RouteID)
	if err != nil {
		return models.Issue{}, errors.New("invalid route_id")
	}

	reported := time.Now().UTC()
	if req.DateReported != "" {
		reported, err = time.Parse("2006-01-02", req.DateReported)
		if err != nil {
			return models.Issue{}, errors.New("invalid date_reported, want YYYY-MM-DD")
		}
	}

	return models.Issue{
		CrewID:       crewID,
		RouteID:      routeID,
		Address:      req.Address,
		Description:  htmlsanitize.Sanitize(req.Description),
		IssueType:    req.IssueType,
		DateReported: reported,
	}, nil
}

// ServeCreate handles POST /api/issues.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	issue, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Issues.Create(ctx, issue)
	if err != nil {
		h.Log.Error("create issue failed", zap.Error(err))
		http.Error(w, "could not create issue", http.StatusInternalServerError)
		return
	}

	repeat, err := h.Detector.SyncAddress(ctx, created.Address)
	if err != nil {
		h.Log.Warn("repeat flag sync failed after create",
			zap.String("address", created.Address),
			zap.Error(err))
	}
	created.RepeatOffender = repeat

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// ServeList handles GET /api/issues with optional from, to, and limit
// query parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := time.Time{}
	to := time.Now().UTC().AddDate(0, 0, 1)
	var err error
	if s := q.Get("from"); s != "" {
		if from, err = time.Parse("2006-01-02", s); err != nil {
			http.Error(w, "invalid from, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	if s := q.Get("to"); s != "" {
		if to, err = time.Parse("2006-01-02", s); err != nil {
			http.Error(w, "invalid to, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = to.AddDate(0, 0, 1) // inclusive upper bound
	}
	limit := int64(200)
	if s := q.Get("limit"); s != "" {
		if limit, err = strconv.ParseInt(s, 10, 64); err != nil || limit < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Issues.List(ctx, from, to, limit)
	if err != nil {
		h.Log.Error("list issues failed", zap.Error(err))
		http.Error(w, "could not list issues", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// ServeRepeatAddresses handles GET /api/issues/repeat-offenders and
// returns the addresses currently over the threshold.
func (h *Handler) ServeRepeatAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	addresses, err := h.Issues.RepeatAddresses(ctx)
	if err != nil {
		h.Log.Error("list repeat addresses failed", zap.Error(err))
		http.Error(w, "could not list repeat offenders", http.StatusInternalServerError)
		return
	}
	if addresses == nil {
		addresses = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"addresses": addresses})
}

// ServeGet handles GET /api/issues/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	issue, err := h.Issues.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get issue failed", zap.Error(err))
		http.Error(w, "could not load issue", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(issue)
}

// ServeUpdate handles PUT /api/issues/{id}. When the address changes,
// both the old and the new address are re-synced.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	issue, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	issue.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	prev, err := h.Issues.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("load issue before update failed", zap.Error(err))
		http.Error(w, "could not update issue", http.StatusInternalServerError)
		return
	}

	if err := h.Issues.Update(ctx, issue); err != nil {
		h.Log.Error("update issue failed", zap.Error(err))
		http.Error(w, "could not update issue", http.StatusInternalServerError)
		return
	}

	h.syncAfterWrite(ctx, prev.Address, issue.Address)

	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/issues/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Issues.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("delete issue failed", zap.Error(err))
		http.Error(w, "could not delete issue", http.StatusInternalServerError)
		return
	}

	h.syncAfterWrite(ctx, deleted.Address, "")

	w.WriteHeader(http.StatusNoContent)
}

// syncAfterWrite re-syncs the repeat flag for the addresses touched by a
// write. Sync failures are logged; the next detector sweep reconciles.
func (h *Handler) syncAfterWrite(ctx context.Context, before, after string) {
	if before != "" {
		if _, err := h.Detector.SyncAddress(ctx, before); err != nil {
			h.Log.Warn("repeat flag sync failed", zap.String("address", before), zap.Error(err))
		}
	}
	if after != "" && after != before {
		if _, err := h.Detector.SyncAddress(ctx, after); err != nil {
			h.Log.Warn("repeat flag sync failed", zap.String("address", after), zap.Error(err))
		}
	}
}

func objectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}
