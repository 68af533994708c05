// internal/app/features/progress/handler.go
//
// Package progress is the live route-progress channel. Crew devices hold
// a websocket open and push updates as they work the route; dashboards
// hold the same socket open and receive every update as it happens.
// Delayed and issue updates also fan out to supervisors by email, and an
// issue update writes an issue record so the repeat-offender pipeline
// sees it immediately.
package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	issuestore "github.com/ezzdayhq/ezzday/internal/app/store/issues"
	"github.com/ezzdayhq/ezzday/internal/app/system/htmlsanitize"
	"github.com/ezzdayhq/ezzday/internal/app/system/mailer"
	"github.com/ezzdayhq/ezzday/internal/app/system/offenders"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Progress statuses a crew can report.
const (
	StatusOnRoute   = "on_route"
	StatusDelayed   = "delayed"
	StatusIssue     = "issue"
	StatusCompleted = "completed"
)

// update is one inbound progress frame.
type update struct {
	Type     string `json:"type"` // "progress"
	RouteID  string `json:"route_id"`
	CrewID   string `json:"crew_id"`
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
	Details  string `json:"details,omitempty"`
}

// ack is the reply to the sender of a frame.
type ack struct {
	Type  string `json:"type"` // "ack" or "error"
	Error string `json:"error,omitempty"`
}

// broadcastFrame is what every connected client sees for each accepted
// update.
type broadcastFrame struct {
	Type       string `json:"type"` // "progress"
	RouteID    string `json:"route_id"`
	CrewID     string `json:"crew_id"`
	Status     string `json:"status"`
	Location   string `json:"location,omitempty"`
	ReceivedAt string `json:"received_at"`
}

// Roster lists the supervisors progress escalations go to.
type Roster interface {
	ListAll(ctx context.Context) ([]models.Supervisor, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Dispatch UI and crew devices are same-origin behind the app's
		// reverse proxy.
		return true
	},
}

// Handler serves the progress websocket and keeps the set of connected
// clients for broadcast.
type Handler struct {
	Issues   *issuestore.Store
	Detector *offenders.Detector
	Roster   Roster
	Sender   mailer.Sender
	Log      *zap.Logger

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewHandler creates a progress handler.
func NewHandler(issues *issuestore.Store, det *offenders.Detector, roster Roster, sender mailer.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		Issues:   issues,
		Detector: det,
		Roster:   roster,
		Sender:   sender,
		Log:      logger,
		conns:    make(map[string]*websocket.Conn),
	}
}

// ServeWS handles GET /api/progress/ws, upgrading to a websocket and
// pumping frames until the client disconnects.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	connID := uuid.NewString()
	h.register(connID, ws)
	defer h.unregister(connID)

	h.Log.Info("progress client connected", zap.String("conn_id", connID))

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			h.Log.Info("progress client disconnected",
				zap.String("conn_id", connID),
				zap.Error(err))
			return
		}

		var upd update
		if err := json.Unmarshal(data, &upd); err != nil {
			h.reply(connID, ws, ack{Type: "error", Error: "malformed JSON frame"})
			continue
		}
		if msg := h.validateUpdate(&upd); msg != "" {
			h.reply(connID, ws, ack{Type: "error", Error: msg})
			continue
		}

		h.handleUpdate(&upd)
		h.reply(connID, ws, ack{Type: "ack"})
		h.broadcast(connID, &upd)
	}
}

func (h *Handler) validateUpdate(upd *update) string {
	if upd.Type != "progress" {
		return "unknown frame type"
	}
	if _, err := primitive.ObjectIDFromHex(upd.RouteID); err != nil {
		return "invalid route_id"
	}
	if _, err := primitive.ObjectIDFromHex(upd.CrewID); err != nil {
		return "invalid crew_id"
	}
	switch upd.Status {
	case StatusOnRoute, StatusDelayed, StatusIssue, StatusCompleted:
		return ""
	default:
		return "unknown status"
	}
}

// handleUpdate runs the side effects of an accepted frame: email for
// delayed routes, email plus an issue record for reported issues.
func (h *Handler) handleUpdate(upd *update) {
	switch upd.Status {
	case StatusDelayed:
		h.escalate(mailer.BuildRouteDelayedEmail(upd.RouteID, upd.Location))
	case StatusIssue:
		h.escalate(mailer.BuildIssueReportedEmail(upd.RouteID, upd.Location))
		h.recordIssue(upd)
	}
}

// recordIssue writes the reported issue and syncs the repeat flag for
// its address. Location doubles as the address; frames without one are
// escalated by mail only.
func (h *Handler) recordIssue(upd *update) {
	address := strings.TrimSpace(upd.Location)
	if address == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	crewID, _ := primitive.ObjectIDFromHex(upd.CrewID)
	routeID, _ := primitive.ObjectIDFromHex(upd.RouteID)

	issue := models.Issue{
		CrewID:       crewID,
		RouteID:      routeID,
		Address:      address,
		Description:  htmlsanitize.Sanitize(upd.Details),
		IssueType:    models.IssueOther,
		DateReported: time.Now().UTC(),
	}
	if _, err := h.Issues.Create(ctx, issue); err != nil {
		h.Log.Error("progress issue record failed",
			zap.String("route_id", upd.RouteID),
			zap.Error(err))
		return
	}
	if _, err := h.Detector.SyncAddress(ctx, address); err != nil {
		h.Log.Warn("repeat flag sync failed",
			zap.String("address", address),
			zap.Error(err))
	}
}

// escalate sends msg to every supervisor on the roster.
func (h *Handler) escalate(msg mailer.Email) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	sups, err := h.Roster.ListAll(ctx)
	if err != nil {
		h.Log.Error("progress escalation roster lookup failed", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	for _, sup := range sups {
		wg.Add(1)
		go func(to string, msg mailer.Email) {
			defer wg.Done()
			msg.To = to
			if err := h.Sender.Send(ctx, msg); err != nil {
				h.Log.Error("progress escalation email failed",
					zap.String("to", to),
					zap.Error(err))
			}
		}(sup.Email, msg)
	}
	wg.Wait()
}

func (h *Handler) register(id string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = ws
}

func (h *Handler) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// reply writes to one connection under the write lock shared with
// broadcast, since gorilla permits only one concurrent writer.
func (h *Handler) reply(id string, ws *websocket.Conn, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := ws.WriteJSON(v); err != nil {
		h.Log.Warn("websocket write failed", zap.String("conn_id", id), zap.Error(err))
	}
}

// broadcast pushes an accepted update to every other connected client.
func (h *Handler) broadcast(senderID string, upd *update) {
	frame := broadcastFrame{
		Type:       "progress",
		RouteID:    upd.RouteID,
		CrewID:     upd.CrewID,
		Status:     upd.Status,
		Location:   htmlsanitize.StripTags(upd.Location),
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		if id == senderID {
			continue
		}
		if err := conn.WriteJSON(frame); err != nil {
			h.Log.Warn("broadcast write failed", zap.String("conn_id", id), zap.Error(err))
		}
	}
}
