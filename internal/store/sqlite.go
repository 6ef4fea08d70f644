package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed batch history
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a new Store, opening the SQLite database and running migrations
func New(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes
	// writers from the CLI.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Store initialized successfully", "path", dbPath)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// ============================================================================
// BatchRun Operations
// ============================================================================

// RecordBatch inserts a BatchRun together with its per-file rows in one
// transaction and sets the IDs on run and files.
func (s *Store) RecordBatch(run *BatchRun, files []BatchFile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const runQuery = `
		INSERT INTO batch_runs (
			run_id, direction, folder, output_folder, codec, level, pattern,
			files_discovered, files_failed, total_source_bytes, total_target_bytes,
			elapsed_ms, retained, start_time, end_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(
		runQuery,
		run.RunID, run.Direction, run.Folder, run.OutputFolder, run.Codec,
		run.Level, run.Pattern, run.FilesDiscovered, run.FilesFailed,
		run.TotalSourceBytes, run.TotalTargetBytes, run.ElapsedMillis,
		run.Retained, run.StartTime, run.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	const fileQuery = `
		INSERT INTO batch_files (
			batch_run_id, source_path, target_path, codec, source_size,
			target_size, elapsed_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.Prepare(fileQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare batch file insert: %w", err)
	}
	defer stmt.Close()

	fileIDs := make([]int64, len(files))
	for i := range files {
		f := &files[i]
		res, err := stmt.Exec(
			id, f.SourcePath, f.TargetPath, f.Codec, f.SourceSize,
			f.TargetSize, f.ElapsedMillis, f.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to insert batch file %s: %w", f.SourcePath, err)
		}
		fileIDs[i], err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch run: %w", err)
	}

	run.ID = id
	for i := range files {
		files[i].ID = fileIDs[i]
		files[i].BatchRunID = id
	}
	return nil
}

const batchRunColumns = `
	id, run_id, direction, folder, output_folder, codec, level, pattern,
	files_discovered, files_failed, total_source_bytes, total_target_bytes,
	elapsed_ms, retained, start_time, end_time
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatchRun(row rowScanner) (*BatchRun, error) {
	run := &BatchRun{}
	err := row.Scan(
		&run.ID, &run.RunID, &run.Direction, &run.Folder, &run.OutputFolder,
		&run.Codec, &run.Level, &run.Pattern, &run.FilesDiscovered,
		&run.FilesFailed, &run.TotalSourceBytes, &run.TotalTargetBytes,
		&run.ElapsedMillis, &run.Retained, &run.StartTime, &run.EndTime,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetBatchRun retrieves a BatchRun by its uuid
func (s *Store) GetBatchRun(runID string) (*BatchRun, error) {
	query := "SELECT " + batchRunColumns + " FROM batch_runs WHERE run_id = ?"

	run, err := scanBatchRun(s.db.QueryRow(query, runID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("batch run not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to query batch run: %w", err)
	}
	return run, nil
}

// ListBatchRuns retrieves BatchRuns newest first. direction filters by
// "compress" or "decompress" when non-empty; failedOnly keeps runs with at
// least one failed file.
func (s *Store) ListBatchRuns(direction string, failedOnly bool, limit int) ([]BatchRun, error) {
	query := "SELECT " + batchRunColumns + " FROM batch_runs WHERE 1=1"
	var args []interface{}

	if direction != "" {
		query += " AND direction = ?"
		args = append(args, direction)
	}
	if failedOnly {
		query += " AND files_failed > 0"
	}

	query += " ORDER BY start_time DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch runs: %w", err)
	}
	defer rows.Close()

	var runs []BatchRun
	for rows.Next() {
		run, err := scanBatchRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch runs: %w", err)
	}

	return runs, nil
}

// ============================================================================
// BatchFile Operations
// ============================================================================

// ListBatchFiles retrieves the per-file rows of a BatchRun in insertion order
func (s *Store) ListBatchFiles(batchRunID int64) ([]BatchFile, error) {
	const query = `
		SELECT id, batch_run_id, source_path, target_path, codec, source_size,
		       target_size, elapsed_ms, error
		FROM batch_files WHERE batch_run_id = ? ORDER BY id
	`

	rows, err := s.db.Query(query, batchRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch files: %w", err)
	}
	defer rows.Close()

	var files []BatchFile
	for rows.Next() {
		f := BatchFile{}
		err := rows.Scan(
			&f.ID, &f.BatchRunID, &f.SourcePath, &f.TargetPath, &f.Codec,
			&f.SourceSize, &f.TargetSize, &f.ElapsedMillis, &f.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch files: %w", err)
	}

	return files, nil
}

// CountBatchRuns returns the number of recorded runs
func (s *Store) CountBatchRuns() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM batch_runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count batch runs: %w", err)
	}
	return count, nil
}
