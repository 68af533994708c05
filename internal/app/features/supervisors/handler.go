// internal/app/features/supervisors/handler.go
package supervisors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/store/supervisors"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves the supervisor roster endpoints. The roster is the
// fan-out target for every escalation email, so writes validate the
// address up front.
type Handler struct {
	Supervisors *supervisors.Store
	Log         *zap.Logger
}

// NewHandler creates a supervisors handler.
func NewHandler(store *supervisors.Store, logger *zap.Logger) *Handler {
	return &Handler{Supervisors: store, Log: logger}
}

type supervisorRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Active   *bool  `json:"active"`
}

func (req *supervisorRequest) toModel() (models.Supervisor, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return models.Supervisor{}, errors.New("full_name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.Supervisor{}, errors.New("invalid email")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Supervisor{
		FullName: strings.TrimSpace(req.FullName),
		Email:    req.Email,
		Phone:    req.Phone,
		Active:   active,
	}, nil
}

// ServeCreate handles POST /api/supervisors.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req supervisorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	sup, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Supervisors.Create(ctx, sup)
	if mongo.IsDuplicateKeyError(err) {
		http.Error(w, "email already on roster", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error("create supervisor failed", zap.Error(err))
		http.Error(w, "could not create supervisor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// ServeList handles GET /api/supervisors, active roster only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Supervisors.ListAll(ctx)
	if err != nil {
		h.Log.Error("list supervisors failed", zap.Error(err))
		http.Error(w, "could not list supervisors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// ServeGet handles GET /api/supervisors/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sup, err := h.Supervisors.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "supervisor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get supervisor failed", zap.Error(err))
		http.Error(w, "could not load supervisor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sup)
}

// ServeUpdate handles PUT /api/supervisors/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var req supervisorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	sup, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sup.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Supervisors.Update(ctx, sup); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "supervisor not found", http.StatusNotFound)
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "email already on roster", http.StatusConflict)
			return
		}
		h.Log.Error("update supervisor failed", zap.Error(err))
		http.Error(w, "could not update supervisor", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/supervisors/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Supervisors.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "supervisor not found", http.StatusNotFound)
			return
		}
		h.Log.Error("delete supervisor failed", zap.Error(err))
		http.Error(w, "could not delete supervisor", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func objectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}
