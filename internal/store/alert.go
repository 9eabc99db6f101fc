package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/raksha/internal/alert"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// AlertRepository provides persistence for emitted alerts.
type AlertRepository struct {
	db *sql.DB
}

// Alerts returns the alert repository for this store.
func (s *Store) Alerts() *AlertRepository {
	return &AlertRepository{db: s.db}
}

// Publish inserts an emitted alert, satisfying alert.Sink so the
// repository can be wired directly into a detection session.
func (r *AlertRepository) Publish(a *alert.Alert) error {
	return r.Create(a)
}

// Create inserts a new alert into the database.
func (r *AlertRepository) Create(a *alert.Alert) error {
	_, err := r.db.Exec(
		`INSERT INTO alerts (id, created_at, gesture, confidence, evidence, location, processed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Timestamp, string(a.Gesture), a.Confidence, a.Evidence, a.Location, a.Processed,
	)
	return err
}

// GetByID retrieves an alert by its ID.
func (r *AlertRepository) GetByID(id string) (*alert.Alert, error) {
	a := &alert.Alert{}
	var gestureType string

	err := r.db.QueryRow(
		`SELECT id, created_at, gesture, confidence, evidence, location, processed
		 FROM alerts WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Timestamp, &gestureType, &a.Confidence, &a.Evidence, &a.Location, &a.Processed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Gesture = alert.Type(gestureType)
	return a, nil
}

// List retrieves alerts newest first, up to limit. A limit of 0 or less
// returns everything.
func (r *AlertRepository) List(limit int) ([]*alert.Alert, error) {
	query := `SELECT id, created_at, gesture, confidence, evidence, location, processed
		 FROM alerts ORDER BY created_at DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a := &alert.Alert{}
		var gestureType string

		err := rows.Scan(&a.ID, &a.Timestamp, &gestureType, &a.Confidence, &a.Evidence, &a.Location, &a.Processed)
		if err != nil {
			return nil, err
		}

		a.Gesture = alert.Type(gestureType)
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return alerts, nil
}

// ListSince retrieves alerts created after the given time, newest first.
func (r *AlertRepository) ListSince(since time.Time) ([]*alert.Alert, error) {
	rows, err := r.db.Query(
		`SELECT id, created_at, gesture, confidence, evidence, location, processed
		 FROM alerts WHERE created_at > ? ORDER BY created_at DESC`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a := &alert.Alert{}
		var gestureType string

		if err := rows.Scan(&a.ID, &a.Timestamp, &gestureType, &a.Confidence, &a.Evidence, &a.Location, &a.Processed); err != nil {
			return nil, err
		}

		a.Gesture = alert.Type(gestureType)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// SetProcessed updates the processed flag on an alert.
func (r *AlertRepository) SetProcessed(id string, processed bool) error {
	result, err := r.db.Exec(`UPDATE alerts SET processed = ? WHERE id = ?`, processed, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an alert from the database by its ID.
func (r *AlertRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
