// Package audit persists a history of packaging runs to SQLite so operators
// can inspect what the plugin produced and how long generation took. Audit
// failures are never allowed to fail a generation request.
package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded packaging run.
type Run struct {
	ID           string
	Provider     string
	Model        string
	ReviewPass   bool
	FileCount    int
	DurationMs   int64
	Success      bool
	ErrorMessage string
	CreatedAt    time.Time
}

// Store is a SQLite-backed run-history store. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure audit schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS packaging_runs (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		model TEXT,
		review_pass BOOLEAN NOT NULL,
		file_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON packaging_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_success ON packaging_runs(success);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun persists one run.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO packaging_runs
			(id, provider, model, review_pass, file_count, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Provider, run.Model, run.ReviewPass,
		run.FileCount, run.DurationMs, run.Success, run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, provider, model, review_pass, file_count, duration_ms, success, error_message, created_at
		FROM packaging_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var model, errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Provider, &model, &r.ReviewPass,
			&r.FileCount, &r.DurationMs, &r.Success, &errMsg, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Model = model.String
		r.ErrorMessage = errMsg.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
