package models

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind identifies which votable aggregate a vote targets.
type EntityKind string

const (
	EntityQuestion EntityKind = "question"
	EntityComment  EntityKind = "comment"
	EntityQuiz     EntityKind = "quiz"
)

// VoteDirection is an up or down vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of "up" or "down".
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// VoteSets holds the disjoint upvoter and downvoter sets of an entity.
// All mutation goes through Toggle; a user ID is never present in both sets.
type VoteSets struct {
	Upvoters   []uuid.UUID `json:"upvoters"`
	Downvoters []uuid.UUID `json:"downvoters"`
}

// Toggle applies one vote action for userID in the given direction.
// Voting the same direction twice retracts the vote; voting the opposite
// direction moves the user between sets in the same mutation.
// Returns true when a new vote was recorded, false on retraction.
func (v *VoteSets) Toggle(userID uuid.UUID, dir VoteDirection) bool {
	target, opposite := &v.Upvoters, &v.Downvoters
	if dir == VoteDown {
		target, opposite = &v.Downvoters, &v.Upvoters
	}
	if i := indexOf(*target, userID); i >= 0 {
		*target = removeAt(*target, i)
		return false
	}
	if i := indexOf(*opposite, userID); i >= 0 {
		*opposite = removeAt(*opposite, i)
	}
	*target = append(*target, userID)
	return true
}

// Score is the net vote count (upvotes minus downvotes).
func (v VoteSets) Score() int {
	return len(v.Upvoters) - len(v.Downvoters)
}

// NonNil returns the sets with nil slices replaced by empty ones, for
// drivers that encode nil as SQL NULL.
func (v VoteSets) NonNil() VoteSets {
	if v.Upvoters == nil {
		v.Upvoters = []uuid.UUID{}
	}
	if v.Downvoters == nil {
		v.Downvoters = []uuid.UUID{}
	}
	return v
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(ids []uuid.UUID, i int) []uuid.UUID {
	return append(ids[:i], ids[i+1:]...)
}

// VotableEntity is the vote-relevant projection of a question, comment or
// quiz, loaded and written back by the vote ledger.
type VotableEntity struct {
	ID        uuid.UUID  `json:"id"`
	Kind      EntityKind `json:"kind"`
	AuthorID  uuid.UUID  `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	Votes     VoteSets   `json:"votes"`
}
