package wallet

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertTransaction = `
	INSERT INTO wallet_transactions (id, user_id, type, amount, payment_id, mission_id, description, created_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, NULLIF($6, '')::uuid, $7, $8)`

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, t Transaction) error {
	_, err := s.pool.Exec(ctx, insertTransaction,
		t.ID, t.UserID, t.Type, t.Amount, t.PaymentID, t.MissionID, t.Description, t.CreatedAt)
	return err
}

func (s *PostgresStore) Withdraw(ctx context.Context, t Transaction) (bool, error) {
	// Single statement so the balance check and the insert cannot be
	// split by a concurrent withdrawal.
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO wallet_transactions (id, user_id, type, amount, description, created_at)
		SELECT $1, $2, 'DEBIT', $3, $4, $5
		WHERE (
			SELECT COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount ELSE -amount END), 0)
			FROM wallet_transactions WHERE user_id = $2
		) >= $3`,
		t.ID, t.UserID, t.Amount, t.Description, t.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, amount, COALESCE(payment_id::text, ''),
		       COALESCE(mission_id::text, ''), description, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount,
			&t.PaymentID, &t.MissionID, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
