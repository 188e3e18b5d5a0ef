package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Hub maintains user_id -> connection and delivers per-user messages.
// Each user has at most one live connection; a new connection for the
// same user supersedes the previous one.
type Hub struct {
	clients map[uuid.UUID]*Client
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		logger:  logger,
	}
}

// Register binds a client to its user. An existing connection for the
// same user is closed and replaced.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.clients[c.UserID]
	h.clients[c.UserID] = c
	h.mu.Unlock()

	if prev != nil && prev != c {
		prev.Close()
	}
	h.logger.Debug("client connected", zap.String("client_id", c.ID), zap.String("user_id", c.UserID.String()))
}

// Unregister removes a client, but only if it is still the current
// connection for its user. A superseded client unregistering must not
// evict its replacement.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == c {
		delete(h.clients, c.UserID)
	}
	h.mu.Unlock()
	h.logger.Debug("client disconnected", zap.String("client_id", c.ID), zap.String("user_id", c.UserID.String()))
}

// Deliver pushes a persisted notification to its recipient, if connected.
// Users without a live connection read it later via the unread endpoint.
func (h *Hub) Deliver(n *models.Notification) {
	h.SendToUser(n.RecipientID, "notification", n)
}

// SendToUser sends an event to a single user's connection, if any.
func (h *Hub) SendToUser(userID uuid.UUID, event string, payload interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		// buffer full, skip
		h.logger.Warn("dropping message, send buffer full", zap.String("user_id", userID.String()), zap.String("event", event))
		return false
	}
}

// Connected reports whether a user currently has a live connection.
func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
