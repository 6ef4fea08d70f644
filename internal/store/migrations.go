package store

import (
	"fmt"
)

// migrate runs all pending migrations
func (s *Store) migrate() error {
	createMigrationsTableSQL := `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			version INTEGER NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := s.db.Exec(createMigrationsTableSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	s.logger.Debug("Current schema version", "version", currentVersion)

	migrations := []struct {
		version int
		sql     string
	}{
		{
			version: 1,
			sql: `
				CREATE TABLE batch_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id TEXT NOT NULL UNIQUE,
					direction TEXT NOT NULL,
					folder TEXT NOT NULL,
					output_folder TEXT,
					codec TEXT,
					level INTEGER DEFAULT 0,
					pattern TEXT,
					files_discovered INTEGER DEFAULT 0,
					files_failed INTEGER DEFAULT 0,
					total_source_bytes INTEGER DEFAULT 0,
					total_target_bytes INTEGER DEFAULT 0,
					elapsed_ms INTEGER DEFAULT 0,
					retained BOOLEAN DEFAULT 1,
					start_time DATETIME NOT NULL,
					end_time DATETIME
				);

				CREATE TABLE batch_files (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					batch_run_id INTEGER NOT NULL,
					source_path TEXT NOT NULL,
					target_path TEXT,
					codec TEXT,
					source_size INTEGER DEFAULT 0,
					target_size INTEGER DEFAULT 0,
					elapsed_ms INTEGER DEFAULT 0,
					error TEXT,
					FOREIGN KEY(batch_run_id) REFERENCES batch_runs(id)
				);

				CREATE INDEX idx_batch_files_run ON batch_files(batch_run_id);
			`,
		},
	}

	for _, mig := range migrations {
		if mig.version > currentVersion {
			s.logger.Debug("Running migration", "version", mig.version)

			if err := s.runMigration(mig.version, mig.sql); err != nil {
				return fmt.Errorf("failed to run migration %d: %w", mig.version, err)
			}

			s.logger.Debug("Migration completed", "version", mig.version)
		}
	}

	return nil
}

// runMigration executes a migration and records it
func (s *Store) runMigration(version int, sql string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(sql); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	insertSQL := "INSERT INTO migrations (version) VALUES (?)"
	if _, err := tx.Exec(insertSQL, version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	return nil
}
