// Package notifications builds, persists and delivers engagement
// notifications: composition with self-suppression and a trailing dedup
// window, Postgres persistence, and best-effort live push.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Store persists composed notifications.
type Store interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Deduper records a dedup key for a window and reports whether it was
// already present.
type Deduper interface {
	Seen(ctx context.Context, key string, window time.Duration) (bool, error)
}

// Deliverer pushes a notification to the recipient's live channel, if any.
type Deliverer interface {
	Deliver(n *models.Notification)
}

// Identity resolves display data for message stamping and user listing for
// platform-wide announcements.
type Identity interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.UserPublic, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Event is one notification trigger. ActorID is the user whose action caused
// it; uuid.Nil marks system events (expiry results), which are never
// self-suppressed.
type Event struct {
	Type        models.NotificationType
	RecipientID uuid.UUID
	ActorID     uuid.UUID
	Message     string
	QuestionID  *uuid.UUID
	CommentID   *uuid.UUID
	QuizID      *uuid.UUID
}

// Composer turns engagement events into persisted, delivered notifications.
type Composer struct {
	store    Store
	dedup    Deduper
	channel  Deliverer
	identity Identity
	window   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewComposer creates a notification composer. channel may be nil (persist
// only); dedup may be nil (no spam bound).
func NewComposer(store Store, dedup Deduper, channel Deliverer, identity Identity, window time.Duration, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		store:    store,
		dedup:    dedup,
		channel:  channel,
		identity: identity,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// dedupedTypes are the rapid-toggle-prone kinds bounded by the dedup window.
var dedupedTypes = map[models.NotificationType]bool{
	models.NotifComment:      true,
	models.NotifQuestionVote: true,
	models.NotifCommentVote:  true,
	models.NotifQuizVote:     true,
}

// Compose persists one notification and hands it to the live channel.
// Returns (nil, nil) when the event is suppressed (self-notification or
// duplicate within the window). Persistence and delivery are independent;
// an offline recipient never fails the call.
func (c *Composer) Compose(ctx context.Context, ev Event) (*models.Notification, error) {
	if ev.RecipientID == ev.ActorID {
		return nil, nil
	}

	if dedupedTypes[ev.Type] && c.dedup != nil {
		seen, err := c.dedup.Seen(ctx, dedupKey(ev), c.window)
		if err != nil {
			// fail open: a broken dedup store must not drop notifications
			c.logger.Warn("dedup check failed", zap.Error(err))
		} else if seen {
			return nil, nil
		}
	}

	n := &models.Notification{
		ID:                uuid.New(),
		RecipientID:       ev.RecipientID,
		Message:           ev.Message,
		Type:              ev.Type,
		RelatedQuestionID: ev.QuestionID,
		RelatedCommentID:  ev.CommentID,
		RelatedQuizID:     ev.QuizID,
		CreatedAt:         c.now(),
	}
	if err := c.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}
	if c.channel != nil {
		c.channel.Deliver(n)
	}
	return n, nil
}

func dedupKey(ev Event) string {
	return fmt.Sprintf("notif:dedup:%s:%s:%s:%s:%s",
		ev.RecipientID, ev.Type, ptrKey(ev.QuestionID), ptrKey(ev.CommentID), ptrKey(ev.QuizID))
}

func ptrKey(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}

func (c *Composer) displayName(ctx context.Context, id uuid.UUID) string {
	if c.identity == nil {
		return "Someone"
	}
	user, err := c.identity.GetUser(ctx, id)
	if err != nil {
		return "Someone"
	}
	return user.DisplayName
}

// VoteAdded implements the vote ledger's notifier: a new (non-retraction)
// vote on someone else's entity.
func (c *Composer) VoteAdded(ctx context.Context, kind models.EntityKind, entityID, recipientID, voterID uuid.UUID, dir models.VoteDirection) {
	verb := "upvoted"
	if dir == models.VoteDown {
		verb = "downvoted"
	}
	ev := Event{
		RecipientID: recipientID,
		ActorID:     voterID,
		Message:     fmt.Sprintf("%s %s your %s", c.displayName(ctx, voterID), verb, kind),
	}
	switch kind {
	case models.EntityQuestion:
		ev.Type = models.NotifQuestionVote
		ev.QuestionID = &entityID
	case models.EntityComment:
		ev.Type = models.NotifCommentVote
		ev.CommentID = &entityID
	case models.EntityQuiz:
		ev.Type = models.NotifQuizVote
		ev.QuizID = &entityID
	default:
		return
	}
	if _, err := c.Compose(ctx, ev); err != nil {
		c.logger.Error("compose vote notification", zap.Error(err))
	}
}

// CommentAdded notifies a question author about a new comment.
func (c *Composer) CommentAdded(ctx context.Context, questionID, commentID, recipientID, actorID uuid.UUID) {
	ev := Event{
		Type:        models.NotifComment,
		RecipientID: recipientID,
		ActorID:     actorID,
		Message:     fmt.Sprintf("%s commented on your question", c.displayName(ctx, actorID)),
		QuestionID:  &questionID,
		CommentID:   &commentID,
	}
	if _, err := c.Compose(ctx, ev); err != nil {
		c.logger.Error("compose comment notification", zap.Error(err))
	}
}

// QuizAnswered notifies a quiz author about a participant's submission.
func (c *Composer) QuizAnswered(ctx context.Context, quizID, recipientID, actorID uuid.UUID, title string) {
	ev := Event{
		Type:        models.NotifQuizAnswer,
		RecipientID: recipientID,
		ActorID:     actorID,
		Message:     fmt.Sprintf("%s answered your quiz %q", c.displayName(ctx, actorID), title),
		QuizID:      &quizID,
	}
	if _, err := c.Compose(ctx, ev); err != nil {
		c.logger.Error("compose quiz answer notification", zap.Error(err))
	}
}

// QuizResult notifies a participant of their final score when a quiz closes.
func (c *Composer) QuizResult(ctx context.Context, quizID, recipientID uuid.UUID, title string, score int) {
	ev := Event{
		Type:        models.NotifQuizResult,
		RecipientID: recipientID,
		ActorID:     uuid.Nil,
		Message:     fmt.Sprintf("Quiz %q has closed. Your score: %d", title, score),
		QuizID:      &quizID,
	}
	if _, err := c.Compose(ctx, ev); err != nil {
		c.logger.Error("compose quiz result notification", zap.Error(err))
	}
}

// QuizCreated announces a new quiz to every registered user except the
// author.
func (c *Composer) QuizCreated(ctx context.Context, quizID, authorID uuid.UUID, title string) {
	if c.identity == nil {
		return
	}
	ids, err := c.identity.ListIDs(ctx)
	if err != nil {
		c.logger.Error("list users for quiz announcement", zap.Error(err))
		return
	}
	name := c.displayName(ctx, authorID)
	for _, id := range ids {
		ev := Event{
			Type:        models.NotifQuizCreation,
			RecipientID: id,
			ActorID:     authorID,
			Message:     fmt.Sprintf("%s published a new quiz: %s", name, title),
			QuizID:      &quizID,
		}
		if _, err := c.Compose(ctx, ev); err != nil {
			c.logger.Error("compose quiz announcement", zap.Error(err))
		}
	}
}
