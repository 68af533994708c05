// internal/app/features/clients/handler.go
package clients

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

	"github.com/ezzdayhq/ezzday/internal/app/store/clients"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Handler serves client CRUD endpoints.
type Handler struct {
	Clients *clients.Store
	Log     *zap.Logger
}

func NewHandler(store *clients.Store, logger *zap.Logger) *Handler {
	return &Handler{Clients: store, Log: logger}
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(client.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	client.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Clients.Create(ctx, client)
	if mongo.IsDuplicateKeyError(err) {
		http.Error(w, "client name already in use", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error("create client failed", zap.Error(err))
		http.Error(w, "could not create client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Clients.ListAll(ctx)
	if err != nil {
		h.Log.Error("list clients failed", zap.Error(err))
		http.Error(w, "could not list clients", http.StatusInternalServerError)
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

	client, err := h.Clients.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error("get client failed", zap.Error(err))
		http.Error(w, "could not load client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(client)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(client.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	client.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Clients.Update(ctx, client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		h.Log.Error("update client failed", zap.Error(err))
		http.Error(w, "could not update client", http.StatusInternalServerError)
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

	if err := h.Clients.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		h.Log.Error("delete client failed", zap.Error(err))
		http.Error(w, "could not delete client", http.StatusInternalServerError)
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
