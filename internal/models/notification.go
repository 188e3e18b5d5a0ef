package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the triggering event of a notification.
type NotificationType string

const (
	NotifQuestionVote NotificationType = "QUESTION_VOTE"
	NotifCommentVote  NotificationType = "COMMENT_VOTE"
	NotifComment      NotificationType = "COMMENT"
	NotifQuizCreation NotificationType = "QUIZ_CREATION"
	NotifQuizAnswer   NotificationType = "QUIZ_ANSWER"
	NotifQuizVote     NotificationType = "QUIZ_VOTE"
	NotifQuizResult   NotificationType = "QUIZ_RESULT"
)

// Notification is a persisted engagement notification. Immutable after
// creation except for IsRead, which transitions false -> true once.
type Notification struct {
	ID                uuid.UUID        `json:"id"`
	RecipientID       uuid.UUID        `json:"recipient_id"`
	Message           string           `json:"message"`
	Type              NotificationType `json:"type"`
	RelatedQuestionID *uuid.UUID       `json:"related_question_id,omitempty"`
	RelatedCommentID  *uuid.UUID       `json:"related_comment_id,omitempty"`
	RelatedQuizID     *uuid.UUID       `json:"related_quiz_id,omitempty"`
	IsRead            bool             `json:"is_read"`
	CreatedAt         time.Time        `json:"created_at"`
}
