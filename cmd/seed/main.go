// Command seed inserts a verified test client and provider. Safe to run
// repeatedly: existing accounts (matched by email) are left untouched.
package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/missio-app/missio/internal/config"
	"github.com/missio-app/missio/internal/db"
)

type seedUser struct {
	email       string
	name        string
	role        string
	bio         string
	specialties []string
	hourlyRate  *int64
	location    string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for seeding")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rate := int64(50000)
	seeds := []seedUser{
		{
			email:       "client@missio.test",
			name:        "Test Client",
			role:        "CLIENT",
			bio:         "Seeded client account",
			specialties: []string{},
			location:    "Paris",
		},
		{
			email:       "provider@missio.test",
			name:        "Test Provider",
			role:        "PROVIDER",
			bio:         "Seeded provider account",
			specialties: []string{"PLUMBING", "ELECTRICAL"},
			hourlyRate:  &rate,
			location:    "Lyon",
		},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	for _, s := range seeds {
		tag, err := pool.Exec(ctx, `
			INSERT INTO users (id, email, password, name, role, bio, is_verified, specialties, hourly_rate, location)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $9)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New().String(), s.email, string(hashed), s.name, s.role, s.bio, s.specialties, s.hourlyRate, s.location,
		)
		if err != nil {
			log.Fatalf("seed %s: %v", s.email, err)
		}
		if tag.RowsAffected() == 1 {
			log.Printf("seeded %s (%s)", s.email, s.role)
		} else {
			log.Printf("skipped %s, already exists", s.email)
		}
	}
}
