// Package journal persists batch-run history in SQLite. The CSV artifacts
// in the output root remain the definitive record of outcomes; the journal
// exists so operators can inspect past runs with "trcconv status".
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. There is no
// migration path; the journal is disposable history.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRun inserts a new run row and returns it.
func (s *Store) BeginRun(ctx context.Context, sourceDir, outputDir, targetFormat string) (*Run, error) {
	run := &Run{
		ID:           uuid.NewString(),
		SourceDir:    sourceDir,
		OutputDir:    outputDir,
		TargetFormat: targetFormat,
		StartedAt:    time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_dir, output_dir, target_format, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourceDir, run.OutputDir, run.TargetFormat,
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordEvent appends one per-file outcome to a run.
func (s *Store) RecordEvent(ctx context.Context, runID, sourcePath string, outcome Outcome, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_events (run_id, source_path, outcome, reason, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		runID, sourcePath, string(outcome), nullableString(reason),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert file event: %w", err)
	}
	return nil
}

// FinishRun stamps the run as finished and stores aggregate counts.
func (s *Store) FinishRun(ctx context.Context, runID string, counts Counts) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, discovered = ?, accepted = ?, rejected_rate = ?,
            unreadable = ?, converted = ?, skipped = ?, failed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		counts.Discovered, counts.Accepted, counts.RejectedRate,
		counts.Unreadable, counts.Converted, counts.Skipped, counts.Failed,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run %s", runID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_dir, output_dir, target_format, started_at, finished_at,
            discovered, accepted, rejected_rate, unreadable, converted, skipped, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Events returns the per-file events of one run in insertion order.
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_path, outcome, COALESCE(reason, ''), created_at
         FROM file_events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var createdAt string
		if err := rows.Scan(&event.SourcePath, &event.Outcome, &event.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString
	err := rows.Scan(
		&run.ID, &run.SourceDir, &run.OutputDir, &run.TargetFormat,
		&startedAt, &finishedAt,
		&run.Counts.Discovered, &run.Counts.Accepted, &run.Counts.RejectedRate,
		&run.Counts.Unreadable, &run.Counts.Converted, &run.Counts.Skipped,
		&run.Counts.Failed,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if finishedAt.Valid {
		ts, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err == nil {
			run.FinishedAt = &ts
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
