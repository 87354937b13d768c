package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and two example categories (one fixed, one numbered series)
// so the ingestion form has something to submit against.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
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

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@statbank.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Example fixed category with a small closed field set.
	_, err = db.Exec(`
		INSERT INTO categories (code, name, kind, description)
		VALUES ('blood_type', 'Blood Type', 'fixed', 'Donor counts by blood type')
	`)
	if err != nil {
		return fmt.Errorf("seed category blood_type: %w", err)
	}

	fields := []struct {
		code, name string
		order      int
	}{
		{"a_pos", "A+", 0},
		{"a_neg", "A-", 1},
		{"b_pos", "B+", 2},
		{"b_neg", "B-", 3},
		{"o_pos", "O+", 4},
		{"o_neg", "O-", 5},
		{"ab_pos", "AB+", 6},
		{"ab_neg", "AB-", 7},
	}
	for _, f := range fields {
		_, err = db.Exec(`
			INSERT INTO fields (category_code, field_code, field_name, sort_order)
			VALUES ($1, $2, $3, $4)
		`, "blood_type", f.code, f.name, f.order)
		if err != nil {
			return fmt.Errorf("seed field %s: %w", f.code, err)
		}
	}

	// Example numbered-series category with no fixed field set.
	_, err = db.Exec(`
		INSERT INTO categories (code, name, kind, description, series_label)
		VALUES ('recipients_by_zone', 'Recipients by Zone', 'numbered_series',
		        'Recipient counts per administrative sub-zone', 'zone')
	`)
	if err != nil {
		return fmt.Errorf("seed category recipients_by_zone: %w", err)
	}

	slog.Info("database seeded with default admin user and example categories",
		"email", "admin@statbank.local",
		"password", "admin",
	)

	return nil
}
