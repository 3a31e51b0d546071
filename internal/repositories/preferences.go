package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/skillstream/internal/session"
)

// PreferenceRepository stores string preferences by key. It implements [session.Storage].
type PreferenceRepository struct {
	db *sql.DB
}

var _ session.Storage = (*PreferenceRepository)(nil)

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Load returns [session.ErrNoValue] when key has never been saved.
func (r *PreferenceRepository) Load(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrNoValue
	}
	if err != nil {
		return "", fmt.Errorf("failed to load preference %s: %w", key, err)
	}
	return value, nil
}

// Save inserts or overwrites key.
func (r *PreferenceRepository) Save(key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *PreferenceRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// All returns every stored preference.
func (r *PreferenceRepository) All() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM preferences ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	prefs := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs[k] = v
	}
	return prefs, rows.Err()
}
