// Package quizzes implements the quiz lifecycle: answer submission, attempt
// clearing, scoring, stats and the active -> expired transition.
package quizzes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Store is the persistence surface the lifecycle needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	SaveAttempts(ctx context.Context, id uuid.UUID, answers map[string]int, scores map[string]int, cleared map[string]bool) error
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Quiz, error)
}

// Notifier receives quiz lifecycle events.
type Notifier interface {
	QuizAnswered(ctx context.Context, quizID, recipientID, actorID uuid.UUID, title string)
	QuizResult(ctx context.Context, quizID, recipientID uuid.UUID, title string, score int)
}

// Stats is the per-quiz answer breakdown, visible to the quiz author only.
type Stats struct {
	QuizID         uuid.UUID `json:"quiz_id"`
	OptionCounts   []int     `json:"option_counts"`
	Participants   int       `json:"participants"`
	CorrectCount   int       `json:"correct_count"`
	PercentCorrect float64   `json:"percent_correct"`
}

// Service contains the quiz lifecycle use cases.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a quiz lifecycle service.
func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	return NewServiceWithClock(store, notifier, logger, time.Now)
}

// NewServiceWithClock allows deterministic expiry in tests.
func NewServiceWithClock(store Store, notifier Notifier, logger *zap.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, logger: logger, now: now}
}

// Get returns the quiz after the lazy expiry check.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.ensureOpen(ctx, q)
	return q, nil
}

// ensureOpen is the single authoritative expiry check shared by the request
// path and the sweep. If the deadline has passed it performs the transition;
// whichever caller wins the compare-and-set emits the result notifications,
// so they are fired at most once per quiz. Reports whether the quiz is still
// open.
func (s *Service) ensureOpen(ctx context.Context, q *models.Quiz) bool {
	if !q.IsActive {
		return false
	}
	if !q.PastDeadline(s.now()) {
		return true
	}

	flipped, err := s.store.MarkExpired(ctx, q.ID)
	if err != nil {
		s.logger.Warn("mark quiz expired", zap.String("quiz_id", q.ID.String()), zap.Error(err))
		return true // leave the transition to a later caller
	}
	q.IsActive = false
	if flipped {
		s.emitResults(ctx, q)
	}
	return false
}

func (s *Service) emitResults(ctx context.Context, q *models.Quiz) {
	if s.notifier == nil {
		return
	}
	for participant, score := range q.Scores {
		uid, err := uuid.Parse(participant)
		if err != nil {
			continue
		}
		s.notifier.QuizResult(ctx, q.ID, uid, q.Title, score)
	}
}

// SubmitAnswer records userID's answer and score. A participant holds at
// most one active answer; re-submission requires a prior ClearAttempt, which
// grants exactly one more submission. Returns the awarded score.
func (s *Service) SubmitAnswer(ctx context.Context, quizID, userID uuid.UUID, optionIndex int) (*models.Quiz, int, error) {
	q, err := s.store.GetByID(ctx, quizID)
	if err != nil {
		return nil, 0, err
	}
	if !s.ensureOpen(ctx, q) {
		return nil, 0, models.ErrQuizClosed
	}

	key := userID.String()
	if _, answered := q.Answers[key]; answered && !q.ClearedAttempts[key] {
		return nil, 0, models.ErrDuplicateAttempt
	}
	if len(q.Questions) == 0 || optionIndex < 0 || optionIndex >= len(q.Questions[0].Options) {
		return nil, 0, models.ErrInvalidOption
	}

	score := 0
	if optionIndex == q.Questions[0].CorrectOption {
		score = 1
	}

	if q.Answers == nil {
		q.Answers = make(map[string]int)
	}
	if q.Scores == nil {
		q.Scores = make(map[string]int)
	}
	if q.ClearedAttempts == nil {
		q.ClearedAttempts = make(map[string]bool)
	}
	q.Answers[key] = optionIndex
	q.Scores[key] = score
	delete(q.ClearedAttempts, key)

	if err := s.store.SaveAttempts(ctx, q.ID, q.Answers, q.Scores, q.ClearedAttempts); err != nil {
		return nil, 0, err
	}

	if userID != q.AuthorID && s.notifier != nil {
		s.notifier.QuizAnswered(ctx, q.ID, q.AuthorID, userID, q.Title)
	}
	return q, score, nil
}

// ClearAttempt removes userID's answer and score and marks the slot cleared,
// permitting one further submission. Authorization (author/elevated within
// the window) is the caller's responsibility.
func (s *Service) ClearAttempt(ctx context.Context, quizID, userID uuid.UUID) (*models.Quiz, error) {
	q, err := s.store.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !s.ensureOpen(ctx, q) {
		return nil, models.ErrQuizClosed
	}

	key := userID.String()
	if _, ok := q.Answers[key]; !ok {
		return nil, models.ErrNotAttempted
	}

	delete(q.Answers, key)
	delete(q.Scores, key)
	if q.ClearedAttempts == nil {
		q.ClearedAttempts = make(map[string]bool)
	}
	q.ClearedAttempts[key] = true

	if err := s.store.SaveAttempts(ctx, q.ID, q.Answers, q.Scores, q.ClearedAttempts); err != nil {
		return nil, err
	}
	return q, nil
}

// CloseExpired sweeps all active quizzes past their deadline. Idempotent:
// quizzes another caller already transitioned are skipped without emitting
// notifications. Returns the number of quizzes this call transitioned.
func (s *Service) CloseExpired(ctx context.Context) (int, error) {
	expired, err := s.store.ListExpiredActive(ctx, s.now())
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, q := range expired {
		flipped, err := s.store.MarkExpired(ctx, q.ID)
		if err != nil {
			s.logger.Warn("mark quiz expired", zap.String("quiz_id", q.ID.String()), zap.Error(err))
			continue
		}
		if !flipped {
			continue // a concurrent lazy check won the transition
		}
		q.IsActive = false
		s.emitResults(ctx, q)
		closed++
	}
	return closed, nil
}

// ComputeStats returns the author-only answer breakdown for a quiz.
func (s *Service) ComputeStats(ctx context.Context, quizID, requesterID uuid.UUID) (*Stats, error) {
	q, err := s.store.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if requesterID != q.AuthorID {
		return nil, models.Forbidden(models.ReasonUnauthorized)
	}

	optionCount := 0
	correctOption := -1
	if len(q.Questions) > 0 {
		optionCount = len(q.Questions[0].Options)
		correctOption = q.Questions[0].CorrectOption
	}

	stats := &Stats{
		QuizID:       q.ID,
		OptionCounts: make([]int, optionCount),
		Participants: len(q.Answers),
	}
	for _, idx := range q.Answers {
		if idx >= 0 && idx < optionCount {
			stats.OptionCounts[idx]++
		}
		if idx == correctOption {
			stats.CorrectCount++
		}
	}
	if stats.Participants > 0 {
		stats.PercentCorrect = float64(stats.CorrectCount) / float64(stats.Participants) * 100
	}
	return stats, nil
}
