package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply under a question.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Content    string    `json:"content"`
	VoteSets
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Votable returns the comment's vote projection.
func (c *Comment) Votable() *VotableEntity {
	return &VotableEntity{
		ID:        c.ID,
		Kind:      EntityComment,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		Votes:     c.VoteSets,
	}
}
