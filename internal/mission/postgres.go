package mission

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missio-app/missio/internal/apperr"
)

const missionColumns = `id, client_id, COALESCE(provider_id::text, ''), service_type, title,
	description, COALESCE(category, ''), COALESCE(level, ''), scheduled_date,
	duration_minutes, price, commission, status, payment_status, completed_at, created_at`

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, m Mission) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO missions (id, client_id, service_type, title, description, category,
		                       level, scheduled_date, duration_minutes, price, commission,
		                       status, payment_status, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14)`,
		m.ID, m.ClientID, m.ServiceType, m.Title, m.Description, m.Category,
		m.Level, m.ScheduledDate, m.DurationMinutes, m.Price, m.Commission,
		m.Status, m.PaymentStatus, m.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Mission, error) {
	return scanMission(s.pool.QueryRow(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = $1`, id))
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Mission, int, error) {
	where := `($1 = '' OR service_type = $1)
		AND ($2 = '' OR status = $2)
		AND ($3 = '' OR client_id::text = $3)
		AND ($4 = '' OR provider_id::text = $4)`
	args := []any{f.ServiceType, f.Status, f.ClientID, f.ProviderID}

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM missions WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE `+where+`
		 ORDER BY created_at DESC
		 LIMIT $5 OFFSET $6`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (s *PostgresStore) Accept(ctx context.Context, id, providerID string) (Mission, bool, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE missions
		 SET provider_id = $2, status = 'ACCEPTED'
		 WHERE id = $1 AND status = 'PENDING'
		 RETURNING `+missionColumns,
		id, providerID)
	m, err := scanMission(row)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return Mission{}, false, nil
	}
	return m, err == nil, err
}

func (s *PostgresStore) Complete(ctx context.Context, id, providerID string, at time.Time) (Mission, bool, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE missions
		 SET status = 'COMPLETED', completed_at = $3
		 WHERE id = $1 AND provider_id = $2 AND status <> 'COMPLETED'
		 RETURNING `+missionColumns,
		id, providerID, at)
	m, err := scanMission(row)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return Mission{}, false, nil
	}
	return m, err == nil, err
}

func scanMission(row pgx.Row) (Mission, error) {
	var m Mission
	err := row.Scan(
		&m.ID, &m.ClientID, &m.ProviderID, &m.ServiceType, &m.Title,
		&m.Description, &m.Category, &m.Level, &m.ScheduledDate,
		&m.DurationMinutes, &m.Price, &m.Commission, &m.Status,
		&m.PaymentStatus, &m.CompletedAt, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Mission{}, apperr.NotFound("Mission not found")
	}
	return m, err
}
