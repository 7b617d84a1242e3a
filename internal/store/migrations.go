package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Patterns table - stores shape pattern definitions
		`CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			confidence REAL NOT NULL DEFAULT 1.0,
			samples INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Pattern points table - stores the template path of each pattern
		`CREATE TABLE IF NOT EXISTS pattern_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern_id TEXT NOT NULL REFERENCES patterns(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			t_ms INTEGER NOT NULL
		)`,

		// Pattern samples table - stores raw recorded strokes for training
		`CREATE TABLE IF NOT EXISTS pattern_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern_id TEXT NOT NULL REFERENCES patterns(id) ON DELETE CASCADE,
			sample_index INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Actions table - binds classified gestures and recognized
		// patterns to plugin actions
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			trigger_kind TEXT NOT NULL CHECK(trigger_kind IN ('gesture', 'pattern')),
			trigger_value TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(trigger_kind, trigger_value)
		)`,

		// Settings table - stores daemon settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_pattern_points_pattern_id ON pattern_points(pattern_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pattern_samples_pattern_id ON pattern_samples(pattern_id)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_trigger ON actions(trigger_kind, trigger_value)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
