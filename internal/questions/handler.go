package questions

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/authz"
	"github.com/dulhara79/Nexora-sub000/internal/middleware"
	"github.com/dulhara79/Nexora-sub000/internal/models"
	"github.com/dulhara79/Nexora-sub000/internal/votes"
	"github.com/dulhara79/Nexora-sub000/pkg/response"
)

// CreateRequest is the body for POST /questions.
type CreateRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateRequest is the body for PATCH /questions/:id.
type UpdateRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// VoteRequest is the body for POST /questions/:id/vote.
type VoteRequest struct {
	Direction models.VoteDirection `json:"direction" binding:"required"`
}

// Handler handles question HTTP endpoints.
type Handler struct {
	repo   *Repository
	ledger *votes.Ledger
	window time.Duration
	logger *zap.Logger
}

// NewHandler creates a questions handler.
func NewHandler(repo *Repository, ledger *votes.Ledger, window time.Duration, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, ledger: ledger, window: window, logger: logger}
}

func actor(c *gin.Context) (uuid.UUID, models.Role) {
	id := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	return id, models.Role(role)
}

// Create handles POST /questions.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	actorID, _ := actor(c)

	q := &models.Question{AuthorID: actorID, Title: req.Title, Content: req.Content}
	if err := h.repo.Create(c.Request.Context(), q); err != nil {
		h.logger.Error("create question", zap.Error(err))
		response.Internal(c, "failed to create question")
		return
	}
	response.Created(c, q)
}

// List handles GET /questions.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list questions")
		return
	}
	response.OK(c, gin.H{"questions": list})
}

// GetByID handles GET /questions/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	q, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, q)
}

// Update handles PATCH /questions/:id. Authors may edit within the window;
// admins always.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	actorID, role := actor(c)

	q, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := authz.CanModify(q.AuthorID, q.CreatedAt, actorID, role, h.window, time.Now()); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /questions/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	actorID, role := actor(c)

	q, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := authz.CanModify(q.AuthorID, q.CreatedAt, actorID, role, h.window, time.Now()); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Vote handles POST /questions/:id/vote.
func (h *Handler) Vote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Direction.Valid() {
		response.BadRequest(c, "direction must be \"up\" or \"down\"")
		return
	}
	actorID, _ := actor(c)

	entity, err := h.ledger.Toggle(c.Request.Context(), models.EntityQuestion, id, actorID, req.Direction)
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
