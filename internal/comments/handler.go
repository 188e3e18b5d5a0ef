package comments

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/authz"
	"github.com/dulhara79/Nexora-sub000/internal/middleware"
	"github.com/dulhara79/Nexora-sub000/internal/models"
	"github.com/dulhara79/Nexora-sub000/internal/questions"
	"github.com/dulhara79/Nexora-sub000/internal/votes"
	"github.com/dulhara79/Nexora-sub000/pkg/response"
)

// Notifier is told when a comment lands on someone else's question.
type Notifier interface {
	CommentAdded(ctx context.Context, questionID, commentID, recipientID, actorID uuid.UUID)
}

// CreateRequest is the body for POST /questions/:id/comments.
type CreateRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateRequest is the body for PATCH /comments/:id.
type UpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// VoteRequest is the body for POST /comments/:id/vote.
type VoteRequest struct {
	Direction models.VoteDirection `json:"direction" binding:"required"`
}

// Handler handles comment HTTP endpoints.
type Handler struct {
	repo      *Repository
	questions *questions.Repository
	ledger    *votes.Ledger
	notifier  Notifier
	window    time.Duration
	logger    *zap.Logger
}

// NewHandler creates a comments handler.
func NewHandler(repo *Repository, questionRepo *questions.Repository, ledger *votes.Ledger, notifier Notifier, window time.Duration, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, questions: questionRepo, ledger: ledger, notifier: notifier, window: window, logger: logger}
}

func actor(c *gin.Context) (uuid.UUID, models.Role) {
	id := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	return id, models.Role(role)
}

// Create handles POST /questions/:id/comments and notifies the question
// author.
func (h *Handler) Create(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	actorID, _ := actor(c)

	q, err := h.questions.GetByID(c.Request.Context(), questionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	cm := &models.Comment{QuestionID: questionID, AuthorID: actorID, Content: req.Content}
	if err := h.repo.Create(c.Request.Context(), cm); err != nil {
		h.logger.Error("create comment", zap.Error(err))
		response.Internal(c, "failed to create comment")
		return
	}

	if h.notifier != nil {
		h.notifier.CommentAdded(c.Request.Context(), questionID, cm.ID, q.AuthorID, actorID)
	}
	response.Created(c, cm)
}

// ListByQuestion handles GET /questions/:id/comments.
func (h *Handler) ListByQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	list, err := h.repo.ListByQuestion(c.Request.Context(), questionID)
	if err != nil {
		response.Internal(c, "failed to list comments")
		return
	}
	response.OK(c, gin.H{"comments": list})
}

// Update handles PATCH /comments/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	actorID, role := actor(c)

	cm, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := authz.CanModify(cm.AuthorID, cm.CreatedAt, actorID, role, h.window, time.Now()); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), id, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /comments/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	actorID, role := actor(c)

	cm, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := authz.CanModify(cm.AuthorID, cm.CreatedAt, actorID, role, h.window, time.Now()); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Vote handles POST /comments/:id/vote.
func (h *Handler) Vote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Direction.Valid() {
		response.BadRequest(c, "direction must be \"up\" or \"down\"")
		return
	}
	actorID, _ := actor(c)

	entity, err := h.ledger.Toggle(c.Request.Context(), models.EntityComment, id, actorID, req.Direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"id":        entity.ID,
		"upvotes":   len(entity.Votes.Upvoters),
		"downvotes": len(entity.Votes.Downvoters),
		"score":     entity.Votes.Score(),
	})
}
