package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Alerts table - emitted detection and manual-capture records
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			gesture TEXT NOT NULL CHECK(gesture IN ('victory', 'manual')),
			confidence REAL NOT NULL,
			evidence BLOB,
			location TEXT NOT NULL DEFAULT '',
			processed INTEGER NOT NULL DEFAULT 0
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for the alert-history views
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_processed ON alerts(processed)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
