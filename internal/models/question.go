package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a community question about a recipe or technique.
type Question struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	VoteSets
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Votable returns the question's vote projection.
func (q *Question) Votable() *VotableEntity {
	return &VotableEntity{
		ID:        q.ID,
		Kind:      EntityQuestion,
		AuthorID:  q.AuthorID,
		CreatedAt: q.CreatedAt,
		Votes:     q.VoteSets,
	}
}
