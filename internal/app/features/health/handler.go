// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/system/monitor"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  *mongo.Client
	Monitor *monitor.Monitor
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the
// assignment monitor, and a logger.
func NewHandler(client *mongo.Client, mon *monitor.Monitor, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Monitor: mon,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	MonitorLastTick string `json:"monitor_last_tick,omitempty"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "monitor_last_tick":"…" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Monitor != nil {
		if last := h.Monitor.LastTick(); !last.IsZero() {
			resp.MonitorLastTick = last.UTC().Format(time.RFC3339)
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
