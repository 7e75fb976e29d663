package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missio-app/missio/internal/apperr"
)

const userColumns = `id, email, password, name, COALESCE(phone, ''), COALESCE(profile_image, ''),
	role, COALESCE(bio, ''), is_verified, average_rating, review_count,
	specialties, COALESCE(hourly_rate, 0), COALESCE(location, ''), created_at`

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, u User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password, name, phone, profile_image, role, bio,
		                    is_verified, average_rating, review_count, specialties,
		                    hourly_rate, location, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, 0), $14, $15)`,
		u.ID, u.Email, u.Password, u.Name, u.Phone, u.ProfileImage, u.Role, u.Bio,
		u.IsVerified, u.AverageRating, u.ReviewCount, u.Specialties,
		u.HourlyRate, u.Location, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("Email already registered")
	}
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *PostgresStore) Update(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`UPDATE users SET
			name          = COALESCE($2, name),
			phone         = COALESCE($3, phone),
			bio           = COALESCE($4, bio),
			profile_image = COALESCE($5, profile_image),
			specialties   = COALESCE($6, specialties),
			hourly_rate   = COALESCE($7, hourly_rate),
			location      = COALESCE($8, location)
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, upd.Name, upd.Phone, upd.Bio, upd.ProfileImage, upd.Specialties,
		upd.HourlyRate, upd.Location))
}

func (s *PostgresStore) ListProviders(ctx context.Context, f ProviderFilter) ([]User, int, error) {
	where := `role = 'PROVIDER' AND is_verified AND average_rating >= $1
		AND ($2 = '' OR $2 = ANY(specialties))`

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE `+where, f.MinRating, f.Specialty,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where+`
		 ORDER BY average_rating DESC
		 LIMIT $3 OFFSET $4`,
		f.MinRating, f.Specialty, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := s.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (s *PostgresStore) scanOne(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.ProfileImage,
		&u.Role, &u.Bio, &u.IsVerified, &u.AverageRating, &u.ReviewCount,
		&u.Specialties, &u.HourlyRate, &u.Location, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("User not found")
	}
	return u, err
}
