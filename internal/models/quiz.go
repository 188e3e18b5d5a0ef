package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizQuestion is one multiple-choice entry of a quiz.
type QuizQuestion struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz is a timed multiple-choice quiz. A participant records at most one
// active answer for the whole quiz; the maps are keyed by user ID string.
type Quiz struct {
	ID        uuid.UUID      `json:"id"`
	AuthorID  uuid.UUID      `json:"author_id"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
	Deadline  time.Time      `json:"deadline"`
	IsActive  bool           `json:"is_active"`

	// Answers maps participant ID -> chosen option index.
	Answers map[string]int `json:"answers"`
	// Scores maps participant ID -> awarded score.
	Scores map[string]int `json:"scores"`
	// ClearedAttempts marks participants allowed exactly one re-submission.
	ClearedAttempts map[string]bool `json:"cleared_attempts"`

	VoteSets
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PastDeadline reports whether the deadline has been reached.
func (q *Quiz) PastDeadline(now time.Time) bool {
	return !now.Before(q.Deadline)
}

// Votable returns the quiz's vote projection.
func (q *Quiz) Votable() *VotableEntity {
	return &VotableEntity{
		ID:        q.ID,
		Kind:      EntityQuiz,
		AuthorID:  q.AuthorID,
		CreatedAt: q.CreatedAt,
		Votes:     q.VoteSets,
	}
}
