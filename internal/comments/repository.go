package comments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Repository handles comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a comments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const commentColumns = `id, question_id, author_id, content, upvoter_ids, downvoter_ids, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var cm models.Comment
	err := row.Scan(&cm.ID, &cm.QuestionID, &cm.AuthorID, &cm.Content, &cm.Upvoters, &cm.Downvoters, &cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// Create inserts a new comment under a question.
func (r *Repository) Create(ctx context.Context, cm *models.Comment) error {
	const query = `INSERT INTO comments (question_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, cm.QuestionID, cm.AuthorID, cm.Content).
		Scan(&cm.ID, &cm.CreatedAt, &cm.UpdatedAt)
}

// GetByID returns a comment by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

// ListByQuestion returns a question's comments, oldest first.
func (r *Repository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE question_id = $1 ORDER BY created_at`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Comment
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// Update rewrites the comment's content.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	const query = `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + commentColumns
	return scanComment(r.pool.QueryRow(ctx, query, id, content))
}

// Delete removes a comment.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetEntity returns the vote projection for the vote ledger.
func (r *Repository) GetEntity(ctx context.Context, id uuid.UUID) (*models.VotableEntity, error) {
	cm, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cm.Votable(), nil
}

// SaveVotes writes back the vote sets.
func (r *Repository) SaveVotes(ctx context.Context, id uuid.UUID, sets models.VoteSets) error {
	sets = sets.NonNil()
	ct, err := r.pool.Exec(ctx,
		`UPDATE comments SET upvoter_ids = $2, downvoter_ids = $3, updated_at = NOW() WHERE id = $1`,
		id, sets.Upvoters, sets.Downvoters)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
