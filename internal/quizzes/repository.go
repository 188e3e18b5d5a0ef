package quizzes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Repository handles quiz persistence. Questions and the three attempt maps
// live in jsonb columns; writes touch only the fields they own.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a quizzes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const quizColumns = `id, author_id, title, questions, deadline, is_active,
	answers, scores, cleared_attempts, upvoter_ids, downvoter_ids, created_at, updated_at`

func scanQuiz(row pgx.Row) (*models.Quiz, error) {
	var q models.Quiz
	err := row.Scan(&q.ID, &q.AuthorID, &q.Title, &q.Questions, &q.Deadline, &q.IsActive,
		&q.Answers, &q.Scores, &q.ClearedAttempts, &q.Upvoters, &q.Downvoters, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a new quiz.
func (r *Repository) Create(ctx context.Context, q *models.Quiz) error {
	const query = `INSERT INTO quizzes (author_id, title, questions, deadline)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, answers, scores, cleared_attempts, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, q.AuthorID, q.Title, q.Questions, q.Deadline).
		Scan(&q.ID, &q.IsActive, &q.Answers, &q.Scores, &q.ClearedAttempts, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID returns a quiz by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// List returns all quizzes, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.Quiz, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+quizColumns+` FROM quizzes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update rewrites the quiz's title and deadline.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title string, deadline time.Time) (*models.Quiz, error) {
	const query = `UPDATE quizzes SET title = $2, deadline = $3, updated_at = NOW()
		WHERE id = $1 RETURNING ` + quizColumns
	return scanQuiz(r.pool.QueryRow(ctx, query, id, title, deadline))
}

// Delete removes a quiz.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SaveAttempts writes back the three attempt maps in one statement.
func (r *Repository) SaveAttempts(ctx context.Context, id uuid.UUID, answers map[string]int, scores map[string]int, cleared map[string]bool) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET answers = $2, scores = $3, cleared_attempts = $4, updated_at = NOW() WHERE id = $1`,
		id, answers, scores, cleared)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkExpired flips is_active to false. The WHERE clause makes the flip a
// compare-and-set: of all racing callers (lazy checks, the sweep), exactly
// one observes an affected row and owns the result notifications.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// ListExpiredActive returns quizzes still flagged active whose deadline has
// passed.
func (r *Repository) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE is_active AND deadline <= $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// GetEntity returns the vote projection for the vote ledger.
func (r *Repository) GetEntity(ctx context.Context, id uuid.UUID) (*models.VotableEntity, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.Votable(), nil
}

// SaveVotes writes back the vote sets.
func (r *Repository) SaveVotes(ctx context.Context, id uuid.UUID, sets models.VoteSets) error {
	sets = sets.NonNil()
	ct, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET upvoter_ids = $2, downvoter_ids = $3, updated_at = NOW() WHERE id = $1`,
		id, sets.Upvoters, sets.Downvoters)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
