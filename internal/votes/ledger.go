// Package votes implements the vote ledger: toggle semantics for the
// up/down vote sets shared by questions, comments and quizzes.
package votes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Store loads and writes back the vote projection of one entity kind.
type Store interface {
	GetEntity(ctx context.Context, id uuid.UUID) (*models.VotableEntity, error)
	SaveVotes(ctx context.Context, id uuid.UUID, sets models.VoteSets) error
}

// Notifier is told when a new vote (not a retraction) lands on someone
// else's entity.
type Notifier interface {
	VoteAdded(ctx context.Context, kind models.EntityKind, entityID, recipientID, voterID uuid.UUID, dir models.VoteDirection)
}

// Ledger routes vote toggles to the per-kind store and emits author
// notifications for newly added votes.
type Ledger struct {
	stores   map[models.EntityKind]Store
	notifier Notifier
	logger   *zap.Logger
}

// NewLedger creates a vote ledger. Stores are attached per entity kind via
// RegisterStore.
func NewLedger(notifier Notifier, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		stores:   make(map[models.EntityKind]Store),
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterStore attaches the store serving one entity kind.
func (l *Ledger) RegisterStore(kind models.EntityKind, store Store) {
	l.stores[kind] = store
}

// Toggle applies one up/down toggle for voterID on the entity and persists
// the result. Same-direction toggles retract; opposite-direction toggles
// move the voter between sets in the same write. Returns the entity with the
// updated sets.
func (l *Ledger) Toggle(ctx context.Context, kind models.EntityKind, entityID, voterID uuid.UUID, dir models.VoteDirection) (*models.VotableEntity, error) {
	store, ok := l.stores[kind]
	if !ok {
		return nil, fmt.Errorf("no vote store registered for kind %q", kind)
	}

	entity, err := store.GetEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	added := entity.Votes.Toggle(voterID, dir)
	if err := store.SaveVotes(ctx, entityID, entity.Votes); err != nil {
		return nil, err
	}

	if added && voterID != entity.AuthorID && l.notifier != nil {
		l.notifier.VoteAdded(ctx, kind, entityID, entity.AuthorID, voterID, dir)
	}

	l.logger.Debug("vote toggled",
		zap.String("kind", string(kind)),
		zap.String("entity_id", entityID.String()),
		zap.Bool("added", added),
	)
	return entity, nil
}
