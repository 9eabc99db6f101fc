package store

import (
	"database/sql"
	"errors"
)

// Setting keys used by the application.
const (
	SettingSensitivity = "sensitivity"
	SettingLocation    = "location"
)

// SettingsRepository provides key-value persistence for settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value for a key, or fallback when the key is unset.
func (r *SettingsRepository) Get(key, fallback string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return "", err
	}
	return value, nil
}

// Set stores the value for a key, replacing any existing value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
