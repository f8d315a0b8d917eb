package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin operator and a small starter taxonomy. It is a no-op when users
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Default admin operator. 2FA is not enabled — they must set it up on
	// first login.
	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, "admin", "admin@cityguide.local", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter categories so the public site has something to render.
	starter := []struct {
		name, slug string
		order      int
	}{
		{"Food & Drink", "food-drink", 0},
		{"Shopping", "shopping", 1},
		{"Culture", "culture", 2},
		{"Nightlife", "nightlife", 3},
	}
	for _, c := range starter {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, display_order)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.order)
		if err != nil {
			return fmt.Errorf("seed insert category: %w", err)
		}
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)

	return nil
}
