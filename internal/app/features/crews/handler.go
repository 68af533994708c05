// internal/app/features/crews/handler.go
package crews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/store/crews"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves crew CRUD endpoints.
type Handler struct {
	Crews *crews.Store
	Log   *zap.Logger
}

func NewHandler(store *crews.Store, logger *zap.Logger) *Handler {
	return &Handler{Crews: store, Log: logger}
}

func validate(crew *models.Crew) error {
	if strings.TrimSpace(crew.Name) == "" {
		return errors.New("name is required")
	}
	if crew.DriverID.IsZero() {
		return errors.New("driver_id is required")
	}
	if crew.TruckID.IsZero() {
		return errors.New("truck_id is required")
	}
	return nil
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var crew models.Crew
	if err := json.NewDecoder(r.Body).Decode(&crew); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate(&crew); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	crew.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Crews.Create(ctx, crew)
	if mongo.IsDuplicateKeyError(err) {
		http.Error(w, "crew name already in use", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error("create crew failed", zap.Error(err))
		http.Error(w, "could not create crew", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Crews.ListAll(ctx)
	if err != nil {
		h.Log.Error("list crews failed", zap.Error(err))
		http.Error(w, "could not list crews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	crew, err := h.Crews.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "crew not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get crew failed", zap.Error(err))
		http.Error(w, "could not load crew", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(crew)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var crew models.Crew
	if err := json.NewDecoder(r.Body).Decode(&crew); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate(&crew); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	crew.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Crews.Update(ctx, crew); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "crew not found", http.StatusNotFound)
			return
		}
		h.Log.Error("update crew failed", zap.Error(err))
		http.Error(w, "could not update crew", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Crews.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "crew not found", http.StatusNotFound)
			return
		}
		h.Log.Error("delete crew failed", zap.Error(err))
		http.Error(w, "could not delete crew", http.StatusInternalServerError)
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
