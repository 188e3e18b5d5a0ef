package questions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Repository handles question persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a questions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const questionColumns = `id, author_id, title, content, upvoter_ids, downvoter_ids, created_at, updated_at`

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.AuthorID, &q.Title, &q.Content, &q.Upvoters, &q.Downvoters, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a new question.
func (r *Repository) Create(ctx context.Context, q *models.Question) error {
	const query = `INSERT INTO questions (author_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, q.AuthorID, q.Title, q.Content).
		Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID returns a question by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// List returns all questions, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update rewrites the question's title and content.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title, content string) (*models.Question, error) {
	const query = `UPDATE questions SET title = $2, content = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + questionColumns
	return scanQuestion(r.pool.QueryRow(ctx, query, id, title, content))
}

// Delete removes a question; comments cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
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
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.Votable(), nil
}

// SaveVotes writes back the vote sets. Field-level update only; the rest of
// the row is untouched.
func (r *Repository) SaveVotes(ctx context.Context, id uuid.UUID, sets models.VoteSets) error {
	sets = sets.NonNil()
	ct, err := r.pool.Exec(ctx,
		`UPDATE questions SET upvoter_ids = $2, downvoter_ids = $3, updated_at = NOW() WHERE id = $1`,
		id, sets.Upvoters, sets.Downvoters)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
