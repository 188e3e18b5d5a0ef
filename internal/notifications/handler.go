package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/middleware"
	"github.com/dulhara79/Nexora-sub000/internal/models"
	"github.com/dulhara79/Nexora-sub000/pkg/response"
)

// Pusher sends state-update messages to a user's live channel.
type Pusher interface {
	SendToUser(userID uuid.UUID, event string, payload interface{}) bool
}

// Handler handles notification HTTP endpoints.
type Handler struct {
	repo   *Repository
	pusher Pusher
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(repo *Repository, pusher Pusher, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, pusher: pusher, logger: logger}
}

func actor(c *gin.Context) (uuid.UUID, models.Role) {
	id := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	return id, models.Role(role)
}

// ListUnread handles GET /notifications/unread.
func (h *Handler) ListUnread(c *gin.Context) {
	actorID, _ := actor(c)
	list, err := h.repo.ListUnread(c.Request.Context(), actorID)
	if err != nil {
		h.logger.Error("list unread notifications", zap.Error(err))
		response.Internal(c, "failed to list notifications")
		return
	}
	response.OK(c, gin.H{"notifications": list})
}

// MarkRead handles PATCH /notifications/:id/read. Idempotent; only the
// recipient (or an admin) may mark. If the recipient is connected, a
// read-state update is pushed to their channel.
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	actorID, role := actor(c)

	n, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if n.RecipientID != actorID && !role.Elevated() {
		response.Error(c, models.Forbidden(models.ReasonUnauthorized))
		return
	}

	if !n.IsRead {
		if err := h.repo.MarkRead(c.Request.Context(), id); err != nil {
			response.Error(c, err)
			return
		}
	}
	if h.pusher != nil {
		h.pusher.SendToUser(n.RecipientID, "notification_read", gin.H{"id": n.ID})
	}
	response.OK(c, gin.H{"id": n.ID, "is_read": true})
}
