package storage

import (
	"context"
	"fmt"

	"github.com/claude/strideplan/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetPreferences fetches a user's heart-rate settings. A user with no
// stored row gets the defaults; zone conversion must always have something
// to work with.
func (db *DB) GetPreferences(ctx context.Context, userID int) (models.Preferences, error) {
	var p models.Preferences
	err := db.Pool.QueryRow(ctx,
		`SELECT max_hr, resting_hr FROM user_preferences WHERE user_id = $1`,
		userID).Scan(&p.MaxHR, &p.RestingHR)
	if err == pgx.ErrNoRows {
		return models.Preferences{}.WithDefaults(), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("fetching preferences: %w", err)
	}
	return p.WithDefaults(), nil
}

// UpsertPreferences stores a user's heart-rate settings.
func (db *DB) UpsertPreferences(ctx context.Context, userID int, p models.Preferences) error {
	p = p.WithDefaults()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, max_hr, resting_hr)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET max_hr = $2, resting_hr = $3, updated_at = now()`,
		userID, p.MaxHR, p.RestingHR)
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}
