package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Println("Connected to Postgres successfully")
	return pool, nil
}

// EnsureSchema creates the tables and indexes the handlers rely on.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT,
			profile_image TEXT,
			role TEXT NOT NULL CHECK (role IN ('CLIENT', 'PROVIDER')),
			bio TEXT,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			specialties TEXT[] NOT NULL DEFAULT '{}',
			hourly_rate BIGINT,
			location TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS missions (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL REFERENCES users(id),
			provider_id UUID NULL REFERENCES users(id),
			service_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT,
			level TEXT,
			scheduled_date TIMESTAMPTZ NOT NULL,
			duration_minutes INTEGER NOT NULL,
			price BIGINT NOT NULL CHECK (price >= 0),
			commission BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'COMPLETED')),
			payment_status TEXT NOT NULL DEFAULT 'NONE' CHECK (payment_status IN ('NONE', 'PROCESSING')),
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_missions_client ON missions(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_missions_provider ON missions(provider_id)`,
		`CREATE INDEX IF NOT EXISTS idx_missions_status ON missions(status)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			mission_id UUID NOT NULL REFERENCES missions(id),
			client_id UUID NOT NULL REFERENCES users(id),
			provider_id UUID NOT NULL REFERENCES users(id),
			amount BIGINT NOT NULL CHECK (amount > 0),
			commission BIGINT NOT NULL,
			provider_earnings BIGINT NOT NULL,
			payment_method TEXT NOT NULL,
			escrow_status TEXT NOT NULL DEFAULT 'HELD' CHECK (escrow_status IN ('HELD', 'RELEASED')),
			status TEXT NOT NULL DEFAULT 'HELD' CHECK (status IN ('HELD', 'RELEASED')),
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_mission ON payments(mission_id)`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			type TEXT NOT NULL CHECK (type IN ('CREDIT', 'DEBIT')),
			amount BIGINT NOT NULL CHECK (amount > 0),
			payment_id UUID NULL REFERENCES payments(id),
			mission_id UUID NULL REFERENCES missions(id),
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_tx_user_created ON wallet_transactions(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			rated_by UUID NOT NULL REFERENCES users(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			review TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, rated_by)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
