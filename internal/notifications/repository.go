package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Repository handles notification persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notifications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a composed notification.
func (r *Repository) Create(ctx context.Context, n *models.Notification) error {
	const query = `INSERT INTO notifications
		(id, recipient_id, message, type, related_question_id, related_comment_id, related_quiz_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`
	_, err := r.pool.Exec(ctx, query,
		n.ID, n.RecipientID, n.Message, n.Type,
		n.RelatedQuestionID, n.RelatedCommentID, n.RelatedQuizID, n.CreatedAt)
	return err
}

// GetByID returns a notification by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	const query = `SELECT id, recipient_id, message, type, related_question_id, related_comment_id, related_quiz_id, is_read, created_at
		FROM notifications WHERE id = $1`
	var n models.Notification
	err := r.pool.QueryRow(ctx, query, id).Scan(&n.ID, &n.RecipientID, &n.Message, &n.Type,
		&n.RelatedQuestionID, &n.RelatedCommentID, &n.RelatedQuizID, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListUnread returns all unread notifications for a user, newest first.
func (r *Repository) ListUnread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	const query = `SELECT id, recipient_id, message, type, related_question_id, related_comment_id, related_quiz_id, is_read, created_at
		FROM notifications WHERE recipient_id = $1 AND NOT is_read ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.Type,
			&n.RelatedQuestionID, &n.RelatedCommentID, &n.RelatedQuizID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead flips is_read to true. Idempotent: marking an already-read
// notification affects zero rows and is not an error.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	return err
}
