package quizzes

import (
	"context"
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

// Announcer broadcasts quiz creation to the community.
type Announcer interface {
	QuizCreated(ctx context.Context, quizID, authorID uuid.UUID, title string)
}

// QuestionInput is one quiz question in a create request.
type QuestionInput struct {
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// CreateRequest is the body for POST /quizzes.
type CreateRequest struct {
	Title     string          `json:"title" binding:"required"`
	Questions []QuestionInput `json:"questions" binding:"required,min=1"`
	Deadline  time.Time       `json:"deadline" binding:"required"`
}

// UpdateRequest is the body for PATCH /quizzes/:id.
type UpdateRequest struct {
	Title    string    `json:"title" binding:"required"`
	Deadline time.Time `json:"deadline" binding:"required"`
}

// AnswerRequest is the body for POST /quizzes/:id/answers.
type AnswerRequest struct {
	OptionIndex *int `json:"option_index" binding:"required"`
}

// VoteRequest is the body for POST /quizzes/:id/vote.
type VoteRequest struct {
	Direction models.VoteDirection `json:"direction" binding:"required"`
}

// Handler handles quiz HTTP endpoints.
type Handler struct {
	repo      *Repository
	service   *Service
	ledger    *votes.Ledger
	announcer Announcer
	window    time.Duration
	logger    *zap.Logger
}

// NewHandler creates a quizzes handler.
func NewHandler(repo *Repository, service *Service, ledger *votes.Ledger, announcer Announcer, window time.Duration, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, service: service, ledger: ledger, announcer: announcer, window: window, logger: logger}
}

func actor(c *gin.Context) (uuid.UUID, models.Role) {
	id := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	return id, models.Role(role)
}

// Create handles POST /quizzes and announces the new quiz to the community.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.Deadline.After(time.Now()) {
		response.BadRequest(c, "deadline must be in the future")
		return
	}
	questions := make([]models.QuizQuestion, 0, len(req.Questions))
	for _, in := range req.Questions {
		if in.CorrectOption < 0 || in.CorrectOption >= len(in.Options) {
			response.BadRequest(c, "correct_option out of range")
			return
		}
		questions = append(questions, models.QuizQuestion{
			Prompt:        in.Prompt,
			Options:       in.Options,
			CorrectOption: in.CorrectOption,
			Explanation:   in.Explanation,
		})
	}
	actorID, _ := actor(c)

	q := &models.Quiz{AuthorID: actorID, Title: req.Title, Questions: questions, Deadline: req.Deadline}
	if err := h.repo.Create(c.Request.Context(), q); err != nil {
		h.logger.Error("create quiz", zap.Error(err))
		response.Internal(c, "failed to create quiz")
		return
	}

	if h.announcer != nil {
		h.announcer.QuizCreated(c.Request.Context(), q.ID, actorID, q.Title)
	}
	response.Created(c, q)
}

// List handles GET /quizzes.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list quizzes")
		return
	}
	response.OK(c, gin.H{"quizzes": list})
}

// GetByID handles GET /quizzes/:id. Reads run the lazy expiry check.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, q)
}

// Update handles PATCH /quizzes/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
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

	updated, err := h.repo.Update(c.Request.Context(), id, req.Title, req.Deadline)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /quizzes/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
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

// SubmitAnswer handles POST /quizzes/:id/answers.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OptionIndex == nil {
		response.BadRequest(c, "option_index required")
		return
	}
	actorID, _ := actor(c)

	q, score, err := h.service.SubmitAnswer(c.Request.Context(), id, actorID, *req.OptionIndex)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := gin.H{
		"quiz_id": q.ID,
		"score":   score,
		"correct": score == 1,
	}
	if len(q.Questions) > 0 && q.Questions[0].Explanation != "" {
		result["explanation"] = q.Questions[0].Explanation
	}
	response.OK(c, result)
}

// ClearAttempt handles DELETE /quizzes/:id/attempts/:userId. The gate runs
// against the quiz: its author (within the window) or an admin may clear.
func (h *Handler) ClearAttempt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
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

	if _, err := h.service.ClearAttempt(c.Request.Context(), id, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats handles GET /quizzes/:id/stats.
func (h *Handler) Stats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	actorID, _ := actor(c)

	stats, err := h.service.ComputeStats(c.Request.Context(), id, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Vote handles POST /quizzes/:id/vote.
func (h *Handler) Vote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Direction.Valid() {
		response.BadRequest(c, "direction must be \"up\" or \"down\"")
		return
	}
	actorID, _ := actor(c)

	entity, err := h.ledger.Toggle(c.Request.Context(), models.EntityQuiz, id, actorID, req.Direction)
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
