package rating

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, r Rating) (Rating, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Rating{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO ratings (id, user_id, rated_by, rating, review, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $6)
		 ON CONFLICT (user_id, rated_by) DO UPDATE
		 SET rating = EXCLUDED.rating, review = EXCLUDED.review, updated_at = EXCLUDED.updated_at
		 RETURNING id, user_id, rated_by, rating, COALESCE(review, ''), created_at, updated_at`,
		r.ID, r.UserID, r.RatedBy, r.Rating, r.Review, r.UpdatedAt)

	var saved Rating
	if err := row.Scan(&saved.ID, &saved.UserID, &saved.RatedBy, &saved.Rating,
		&saved.Review, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return Rating{}, err
	}

	// Recompute the denormalized aggregates from all current rows. O(n)
	// per rating, traded for a projection that can never drift.
	_, err = tx.Exec(ctx,
		`UPDATE users SET
			average_rating = (SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE user_id = $1),
			review_count   = (SELECT COUNT(*) FROM ratings WHERE user_id = $1)
		 WHERE id = $1`,
		r.UserID)
	if err != nil {
		return Rating{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Rating{}, err
	}
	return saved, nil
}
