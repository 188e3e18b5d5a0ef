package votes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dulhara79/Nexora-sub000/internal/models"
	"github.com/dulhara79/Nexora-sub000/internal/votes"
)

type fakeStore struct {
	entities map[uuid.UUID]*models.VotableEntity
	saves    int
}

func (s *fakeStore) GetEntity(_ context.Context, id uuid.UUID) (*models.VotableEntity, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeStore) SaveVotes(_ context.Context, id uuid.UUID, sets models.VoteSets) error {
	e, ok := s.entities[id]
	if !ok {
		return models.ErrNotFound
	}
	e.Votes = sets
	s.saves++
	return nil
}

type voteEvent struct {
	kind        models.EntityKind
	entityID    uuid.UUID
	recipientID uuid.UUID
	voterID     uuid.UUID
	dir         models.VoteDirection
}

type recordingNotifier struct {
	events []voteEvent
}

func (n *recordingNotifier) VoteAdded(_ context.Context, kind models.EntityKind, entityID, recipientID, voterID uuid.UUID, dir models.VoteDirection) {
	n.events = append(n.events, voteEvent{kind, entityID, recipientID, voterID, dir})
}

func newLedger(author uuid.UUID) (*votes.Ledger, *fakeStore, *recordingNotifier, uuid.UUID) {
	entityID := uuid.New()
	store := &fakeStore{entities: map[uuid.UUID]*models.VotableEntity{
		entityID: {ID: entityID, Kind: models.EntityQuestion, AuthorID: author},
	}}
	notifier := &recordingNotifier{}
	ledger := votes.NewLedger(notifier, nil)
	ledger.RegisterStore(models.EntityQuestion, store)
	return ledger, store, notifier, entityID
}

func TestNewVoteNotifiesAuthor(t *testing.T) {
	author := uuid.New()
	voter := uuid.New()
	ledger, _, notifier, entityID := newLedger(author)

	entity, err := ledger.Toggle(context.Background(), models.EntityQuestion, entityID, voter, models.VoteUp)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if entity.Votes.Score() != 1 {
		t.Fatalf("expected score 1, got %d", entity.Votes.Score())
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.events))
	}
	ev := notifier.events[0]
	if ev.recipientID != author || ev.voterID != voter || ev.dir != models.VoteUp {
		t.Fatalf("unexpected notification %+v", ev)
	}
}

func TestSameDirectionRetracts(t *testing.T) {
	voter := uuid.New()
	ledger, store, notifier, entityID := newLedger(uuid.New())
	ctx := context.Background()

	if _, err := ledger.Toggle(ctx, models.EntityQuestion, entityID, voter, models.VoteUp); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	entity, err := ledger.Toggle(ctx, models.EntityQuestion, entityID, voter, models.VoteUp)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if len(entity.Votes.Upvoters) != 0 || len(entity.Votes.Downvoters) != 0 {
		t.Fatalf("expected empty vote sets after retraction, got %+v", entity.Votes)
	}
	if store.saves != 2 {
		t.Fatalf("retraction must persist, got %d saves", store.saves)
	}
	// only the first toggle was a new vote
	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.events))
	}
}

func TestOppositeDirectionSwitchesSets(t *testing.T) {
	voter := uuid.New()
	ledger, _, notifier, entityID := newLedger(uuid.New())
	ctx := context.Background()

	if _, err := ledger.Toggle(ctx, models.EntityQuestion, entityID, voter, models.VoteUp); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	entity, err := ledger.Toggle(ctx, models.EntityQuestion, entityID, voter, models.VoteDown)
	if err != nil {
		t.Fatalf("downvote: %v", err)
	}
	if len(entity.Votes.Upvoters) != 0 {
		t.Fatalf("voter must leave upvoters on switch, got %v", entity.Votes.Upvoters)
	}
	if len(entity.Votes.Downvoters) != 1 || entity.Votes.Downvoters[0] != voter {
		t.Fatalf("voter must land in downvoters, got %v", entity.Votes.Downvoters)
	}
	if entity.Votes.Score() != -1 {
		t.Fatalf("expected score -1, got %d", entity.Votes.Score())
	}
	// the switch counts as a new vote in the new direction
	if len(notifier.events) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.events))
	}
}

func TestSelfVoteDoesNotNotify(t *testing.T) {
	author := uuid.New()
	ledger, _, notifier, entityID := newLedger(author)

	entity, err := ledger.Toggle(context.Background(), models.EntityQuestion, entityID, author, models.VoteUp)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if entity.Votes.Score() != 1 {
		t.Fatalf("self-vote still counts, got score %d", entity.Votes.Score())
	}
	if len(notifier.events) != 0 {
		t.Fatalf("self-vote must not notify, got %d events", len(notifier.events))
	}
}

func TestUnknownEntity(t *testing.T) {
	ledger, _, _, _ := newLedger(uuid.New())

	_, err := ledger.Toggle(context.Background(), models.EntityQuestion, uuid.New(), uuid.New(), models.VoteUp)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnregisteredKind(t *testing.T) {
	ledger, _, _, entityID := newLedger(uuid.New())

	if _, err := ledger.Toggle(context.Background(), models.EntityQuiz, entityID, uuid.New(), models.VoteUp); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}
