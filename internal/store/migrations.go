package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Results table - one row per solved puzzle
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			discs INTEGER NOT NULL CHECK(discs > 0),
			moves INTEGER NOT NULL CHECK(moves >= 0),
			duration_ms INTEGER NOT NULL CHECK(duration_ms >= 0),
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_discs ON results(discs, moves, duration_ms)`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
