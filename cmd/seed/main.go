package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/rimsapp/rims-activation/config"
	"github.com/rimsapp/rims-activation/pkg/activation"
	"github.com/rimsapp/rims-activation/pkg/credentials"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "researcher@example.edu"
	password := "Valid123!"
	name := "Demo Researcher"

	if s := credentials.CheckStrength(password); !s.Valid() {
		log.Fatalf("seed password does not meet strength requirements: %+v", s)
	}
	hash, err := credentials.Hash(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	tokens := activation.NewGenerator(cfg.ActivationTokenTTL)
	token, err := tokens.New()
	if err != nil {
		log.Fatalf("failed to generate activation token: %v", err)
	}
	expires := tokens.ExpiryFrom(time.Now())

	// Seeded account starts pending so the activation flow can be exercised
	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, name, account_type, password_hash, email_verified, email_verify_token, email_verify_expires)
		VALUES ($1, $2, $3, $4, false, $5, $6)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, credentials.NormalizeEmail(email), name, "researcher", hash, token, expires).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)
	fmt.Printf("activation token (valid until %s): %s\n", expires.Format(time.RFC3339), token)
}
