package payment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/wallet"
)

const paymentColumns = `id, mission_id, client_id, provider_id, amount, commission,
	provider_earnings, payment_method, escrow_status, status, completed_at, created_at`

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, p Payment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO payments (id, mission_id, client_id, provider_id, amount, commission,
		                       provider_earnings, payment_method, escrow_status, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.MissionID, p.ClientID, p.ProviderID, p.Amount, p.Commission,
		p.ProviderEarnings, p.PaymentMethod, p.EscrowStatus, p.Status, p.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE missions SET payment_status = 'PROCESSING' WHERE id = $1`,
		p.MissionID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Payment, error) {
	return scanPayment(s.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

func (s *PostgresStore) Release(ctx context.Context, id string, at time.Time, credit wallet.Transaction) (Payment, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Payment{}, false, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`UPDATE payments
		 SET escrow_status = 'RELEASED', status = 'RELEASED', completed_at = $2
		 WHERE id = $1 AND escrow_status = 'HELD'
		 RETURNING `+paymentColumns,
		id, at)
	p, err := scanPayment(row)
	if apperr.IsKind(err, apperr.KindNotFound) {
		// Already released (or gone) — nothing to credit.
		return Payment{}, false, nil
	}
	if err != nil {
		return Payment{}, false, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO wallet_transactions (id, user_id, type, amount, payment_id, mission_id, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		credit.ID, credit.UserID, credit.Type, credit.Amount,
		credit.PaymentID, credit.MissionID, credit.Description, credit.CreatedAt,
	)
	if err != nil {
		return Payment{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Payment{}, false, err
	}
	return p, true, nil
}

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.MissionID, &p.ClientID, &p.ProviderID, &p.Amount, &p.Commission,
		&p.ProviderEarnings, &p.PaymentMethod, &p.EscrowStatus, &p.Status,
		&p.CompletedAt, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, apperr.NotFound("Payment not found")
	}
	return p, err
}
