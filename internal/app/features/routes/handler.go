// internal/app/features/routes/handler.go
package routes

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

	"github.com/ezzdayhq/ezzday/internal/app/store/routes"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves route CRUD endpoints.
type Handler struct {
	Routes *routes.Store
	Log    *zap.Logger
}

func NewHandler(store *routes.Store, logger *zap.Logger) *Handler {
	return &Handler{Routes: store, Log: logger}
}

func validate(route *models.Route) error {
	if strings.TrimSpace(route.Name) == "" {
		return errors.New("name is required")
	}
	if route.ZoneID.IsZero() {
		return errors.New("zone_id is required")
	}
	return nil
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var route models.Route
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate(&route); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	route.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Routes.Create(ctx, route)
	if mongo.IsDuplicateKeyError(err) {
		http.Error(w, "route name already in use", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error("create route failed", zap.Error(err))
		http.Error(w, "could not create route", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Routes.ListAll(ctx)
	if err != nil {
		h.Log.Error("list routes failed", zap.Error(err))
		http.Error(w, "could not list routes", http.StatusInternalServerError)
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

	route, err := h.Routes.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "route not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get route failed", zap.Error(err))
		http.Error(w, "could not load route", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(route)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var route models.Route
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate(&route); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	route.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Routes.Update(ctx, route); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "route not found", http.StatusNotFound)
			return
		}
		h.Log.Error("update route failed", zap.Error(err))
		http.Error(w, "could not update route", http.StatusInternalServerError)
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

	if err := h.Routes.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "route not found", http.StatusNotFound)
			return
		}
		h.Log.Error("delete route failed", zap.Error(err))
		http.Error(w, "could not delete route", http.StatusInternalServerError)
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
