// internal/app/features/zones/handler.go
package zones

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

	"github.com/ezzdayhq/ezzday/internal/app/store/zones"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves zone CRUD endpoints.
type Handler struct {
	Zones *zones.Store
	Log   *zap.Logger
}

func NewHandler(store *zones.Store, logger *zap.Logger) *Handler {
	return &Handler{Zones: store, Log: logger}
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var zone models.Zone
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(zone.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	zone.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Zones.Create(ctx, zone)
	if mongo.IsDuplicateKeyError(err) {
		http.Error(w, "zone name already in use", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error("create zone failed", zap.Error(err))
		http.Error(w, "could not create zone", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Zones.ListAll(ctx)
	if err != nil {
		h.Log.Error("list zones failed", zap.Error(err))
		http.Error(w, "could not list zones", http.StatusInternalServerError)
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

	zone, err := h.Zones.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "zone not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get zone failed", zap.Error(err))
		http.Error(w, "could not load zone", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(zone)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var zone models.Zone
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(zone.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	zone.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Zones.Update(ctx, zone); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "zone not found", http.StatusNotFound)
			return
		}
		h.Log.Error("update zone failed", zap.Error(err))
		http.Error(w, "could not update zone", http.StatusInternalServerError)
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

	if err := h.Zones.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "zone not found", http.StatusNotFound)
			return
		}
		h.Log.Error("delete zone failed", zap.Error(err))
		http.Error(w, "could not delete zone", http.StatusInternalServerError)
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
