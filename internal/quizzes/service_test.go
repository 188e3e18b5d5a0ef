package quizzes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dulhara79/Nexora-sub000/internal/models"
	"github.com/dulhara79/Nexora-sub000/internal/quizzes"
)

type fakeQuizStore struct {
	quizzes map[uuid.UUID]*models.Quiz
}

func (s *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*models.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return q, nil
}

func (s *fakeQuizStore) SaveAttempts(_ context.Context, id uuid.UUID, answers, scores map[string]int, cleared map[string]bool) error {
	q, ok := s.quizzes[id]
	if !ok {
		return models.ErrNotFound
	}
	q.Answers = answers
	q.Scores = scores
	q.ClearedAttempts = cleared
	return nil
}

// MarkExpired mirrors the conditional UPDATE: only the first caller flips.
func (s *fakeQuizStore) MarkExpired(_ context.Context, id uuid.UUID) (bool, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return false, models.ErrNotFound
	}
	if !q.IsActive {
		return false, nil
	}
	q.IsActive = false
	return true, nil
}

func (s *fakeQuizStore) ListExpiredActive(_ context.Context, now time.Time) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for _, q := range s.quizzes {
		if q.IsActive && q.PastDeadline(now) {
			out = append(out, q)
		}
	}
	return out, nil
}

type quizNotification struct {
	event       string
	quizID      uuid.UUID
	recipientID uuid.UUID
	score       int
}

type fakeQuizNotifier struct {
	events []quizNotification
}

func (n *fakeQuizNotifier) QuizAnswered(_ context.Context, quizID, recipientID, _ uuid.UUID, _ string) {
	n.events = append(n.events, quizNotification{event: "answered", quizID: quizID, recipientID: recipientID})
}

func (n *fakeQuizNotifier) QuizResult(_ context.Context, quizID, recipientID uuid.UUID, _ string, score int) {
	n.events = append(n.events, quizNotification{event: "result", quizID: quizID, recipientID: recipientID, score: score})
}

func (n *fakeQuizNotifier) resultCount() int {
	c := 0
	for _, ev := range n.events {
		if ev.event == "result" {
			c++
		}
	}
	return c
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newQuiz(author uuid.UUID, deadline time.Time) *models.Quiz {
	return &models.Quiz{
		ID:       uuid.New(),
		AuthorID: author,
		Title:    "Sourdough basics",
		Questions: []models.QuizQuestion{{
			Prompt:        "What makes sourdough rise?",
			Options:       []string{"Baking soda", "Wild yeast", "Egg whites"},
			CorrectOption: 1,
			Explanation:   "Wild yeast and lactobacilli in the starter.",
		}},
		Deadline: deadline,
		IsActive: true,
	}
}

func newTestService(qs ...*models.Quiz) (*quizzes.Service, *fakeQuizStore, *fakeQuizNotifier, *testClock) {
	store := &fakeQuizStore{quizzes: make(map[uuid.UUID]*models.Quiz)}
	for _, q := range qs {
		store.quizzes[q.ID] = q
	}
	notifier := &fakeQuizNotifier{}
	clock := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := quizzes.NewServiceWithClock(store, notifier, nil, clock.now)
	return svc, store, notifier, clock
}

func TestSubmitScoresAndNotifiesAuthor(t *testing.T) {
	author := uuid.New()
	user := uuid.New()
	quiz := newQuiz(author, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, notifier, _ := newTestService(quiz)

	_, score, err := svc.SubmitAnswer(context.Background(), quiz.ID, user, 1)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if score != 1 {
		t.Fatalf("correct option must score 1, got %d", score)
	}
	if len(notifier.events) != 1 || notifier.events[0].event != "answered" || notifier.events[0].recipientID != author {
		t.Fatalf("expected one answer notification to the author, got %+v", notifier.events)
	}
}

func TestSubmitWrongOptionScoresZero(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)

	_, score, err := svc.SubmitAnswer(context.Background(), quiz.ID, uuid.New(), 0)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if score != 0 {
		t.Fatalf("wrong option must score 0, got %d", score)
	}
}

func TestDuplicateSubmission(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)
	user := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, user, 1); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, user, 0); !errors.Is(err, models.ErrDuplicateAttempt) {
		t.Fatalf("expected ErrDuplicateAttempt, got %v", err)
	}
}

func TestClearGrantsExactlyOneResubmission(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)
	user := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, user, 0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.ClearAttempt(ctx, quiz.ID, user); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, score, err := svc.SubmitAnswer(ctx, quiz.ID, user, 1)
	if err != nil {
		t.Fatalf("resubmit after clear: %v", err)
	}
	if score != 1 {
		t.Fatalf("resubmission must rescore, got %d", score)
	}
	// the cleared slot is consumed
	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, user, 1); !errors.Is(err, models.ErrDuplicateAttempt) {
		t.Fatalf("expected ErrDuplicateAttempt after consuming the cleared slot, got %v", err)
	}
}

func TestClearWithoutAttempt(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)

	if _, err := svc.ClearAttempt(context.Background(), quiz.ID, uuid.New()); !errors.Is(err, models.ErrNotAttempted) {
		t.Fatalf("expected ErrNotAttempted, got %v", err)
	}
}

func TestInvalidOptionIndex(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)
	ctx := context.Background()

	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, uuid.New(), 3); !errors.Is(err, models.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for index 3, got %v", err)
	}
	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, uuid.New(), -1); !errors.Is(err, models.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for index -1, got %v", err)
	}
}

func TestOperationsAfterDeadline(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, notifier, clock := newTestService(quiz)
	user := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, user, 1); err != nil {
		t.Fatalf("submit before deadline: %v", err)
	}
	clock.advance(25 * time.Hour)

	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, uuid.New(), 1); !errors.Is(err, models.ErrQuizClosed) {
		t.Fatalf("expected ErrQuizClosed on submit, got %v", err)
	}
	if _, err := svc.ClearAttempt(ctx, quiz.ID, user); !errors.Is(err, models.ErrQuizClosed) {
		t.Fatalf("expected ErrQuizClosed on clear, got %v", err)
	}
	// the lazy check performed the transition and pushed the result
	if notifier.resultCount() != 1 {
		t.Fatalf("expected 1 result notification, got %d", notifier.resultCount())
	}
}

func TestSweepClosesAndNotifiesOnce(t *testing.T) {
	author := uuid.New()
	u1, u2 := uuid.New(), uuid.New()
	quiz := newQuiz(author, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, notifier, clock := newTestService(quiz)
	ctx := context.Background()

	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, u1, 1); err != nil {
		t.Fatalf("submit u1: %v", err)
	}
	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, u2, 0); err != nil {
		t.Fatalf("submit u2: %v", err)
	}
	clock.advance(48 * time.Hour)

	closed, err := svc.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 quiz closed, got %d", closed)
	}
	if notifier.resultCount() != 2 {
		t.Fatalf("expected a result per participant, got %d", notifier.resultCount())
	}

	// rerun is a no-op: the CAS already flipped
	closed, err = svc.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if closed != 0 {
		t.Fatalf("second sweep must close nothing, got %d", closed)
	}
	if notifier.resultCount() != 2 {
		t.Fatalf("second sweep must not re-notify, got %d results", notifier.resultCount())
	}
}

func TestLazyExpiryOnGet(t *testing.T) {
	quiz := newQuiz(uuid.New(), time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, store, notifier, clock := newTestService(quiz)
	ctx := context.Background()

	user := uuid.New()
	if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, user, 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	clock.advance(30 * time.Hour)

	got, err := svc.Get(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsActive {
		t.Fatal("read past the deadline must surface the quiz as closed")
	}
	if store.quizzes[quiz.ID].IsActive {
		t.Fatal("lazy check must persist the transition")
	}
	if notifier.resultCount() != 1 {
		t.Fatalf("lazy transition must push results once, got %d", notifier.resultCount())
	}

	// and the sweep afterwards finds nothing to do
	if closed, _ := svc.CloseExpired(ctx); closed != 0 {
		t.Fatalf("sweep after lazy close must be a no-op, got %d", closed)
	}
}

func TestStatsAuthorOnly(t *testing.T) {
	author := uuid.New()
	quiz := newQuiz(author, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)
	ctx := context.Background()

	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	for _, sub := range []struct {
		user uuid.UUID
		opt  int
	}{{u1, 1}, {u2, 1}, {u3, 0}} {
		if _, _, err := svc.SubmitAnswer(ctx, quiz.ID, sub.user, sub.opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	stats, err := svc.ComputeStats(ctx, quiz.ID, author)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Participants != 3 || stats.CorrectCount != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.OptionCounts[0] != 1 || stats.OptionCounts[1] != 2 || stats.OptionCounts[2] != 0 {
		t.Fatalf("unexpected option counts %v", stats.OptionCounts)
	}
	if stats.PercentCorrect < 66.6 || stats.PercentCorrect > 66.7 {
		t.Fatalf("unexpected percent correct %f", stats.PercentCorrect)
	}

	if _, err := svc.ComputeStats(ctx, quiz.ID, u1); !models.IsForbidden(err) {
		t.Fatalf("non-author must be denied stats, got %v", err)
	}
}

func TestStatsZeroParticipants(t *testing.T) {
	author := uuid.New()
	quiz := newQuiz(author, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newTestService(quiz)

	stats, err := svc.ComputeStats(context.Background(), quiz.ID, author)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Participants != 0 || stats.PercentCorrect != 0 {
		t.Fatalf("empty quiz must report zeros, got %+v", stats)
	}
}
