package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bloodhelp-bot/pkg"
)

// Repository wraps database operations for donor and recipient
// records. A single postgres database backs both tables.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a new Repository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// InsertDonor stores a completed donor registration.
func (r *Repository) InsertDonor(ctx context.Context, rec pkg.NormalizedRecord) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO donors (id, full_name, blood_type, phone, city)
         VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), rec.FullName, rec.BloodType, rec.Phone, rec.City,
	)
	if err != nil {
		return fmt.Errorf("db: insert donor: %w", err)
	}
	return nil
}

// InsertRecipient stores a blood request before the donor search runs.
func (r *Repository) InsertRecipient(ctx context.Context, rec pkg.NormalizedRecord) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO recipients (id, full_name, blood_type, phone, city)
         VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), rec.FullName, rec.BloodType, rec.Phone, rec.City,
	)
	if err != nil {
		return fmt.Errorf("db: insert recipient: %w", err)
	}
	return nil
}

// SearchDonors returns donors with the exact blood type whose city
// contains the given city, case-insensitively, oldest first.
func (r *Repository) SearchDonors(ctx context.Context, bloodType, city string) ([]pkg.DonorMatch, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT full_name, phone, city
         FROM donors
         WHERE blood_type = $1 AND city ILIKE $2
         ORDER BY created_at ASC`,
		bloodType, "%"+city+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("db: search donors: %w", err)
	}
	defer rows.Close()

	var matches []pkg.DonorMatch
	for rows.Next() {
		var m pkg.DonorMatch
		if err := rows.Scan(&m.FullName, &m.Phone, &m.City); err != nil {
			return nil, fmt.Errorf("db: scan donor row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: iterate donor rows: %w", err)
	}
	return matches, nil
}
