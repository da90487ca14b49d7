// Package storage records audit run summaries in a local SQLite
// database so operators can compare runs over time.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/google/uuid"
)

// Run is the summary of one audit run.
type Run struct {
	ID            string
	Domain        string
	Scheme        string
	ReportPath    string
	PagesScanned  int
	ImagesFlagged int
	Broken        int
	ProbablyOK    int
	PageErrors    int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// NewRun creates a Run with a fresh id and start time for a scan that
// is about to begin.
func NewRun(domain, scheme string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Domain:    domain,
		Scheme:    scheme,
		StartedAt: time.Now().UTC(),
	}
}

// History provides SQLite-backed storage for run summaries.
type History struct {
	db     *sql.DB
	dbPath string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	domain         TEXT NOT NULL,
	scheme         TEXT NOT NULL,
	report_path    TEXT NOT NULL,
	pages_scanned  INTEGER NOT NULL,
	images_flagged INTEGER NOT NULL,
	broken         INTEGER NOT NULL,
	probably_ok    INTEGER NOT NULL,
	page_errors    INTEGER NOT NULL,
	started_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain, started_at);
`

// Open opens or creates the history database under dir.
func Open(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	dbPath := filepath.Join(dir, "imagecheck.db")
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &History{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Path returns the history database file location.
func (h *History) Path() string {
	return h.dbPath
}

// RecordRun inserts a completed run summary.
func (h *History) RecordRun(ctx context.Context, run *Run) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, domain, scheme, report_path, pages_scanned, images_flagged,
			broken, probably_ok, page_errors, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Domain, run.Scheme, run.ReportPath, run.PagesScanned,
		run.ImagesFlagged, run.Broken, run.ProbablyOK, run.PageErrors,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first. When domain is
// non-empty only that domain's runs are returned.
func (h *History) RecentRuns(ctx context.Context, domain string, limit int) ([]*Run, error) {
	query := `
		SELECT id, domain, scheme, report_path, pages_scanned, images_flagged,
		       broken, probably_ok, page_errors, started_at, finished_at
		FROM runs`
	args := []any{}
	if domain != "" {
		query += " WHERE domain = ?"
		args = append(args, domain)
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID, &run.Domain, &run.Scheme, &run.ReportPath,
			&run.PagesScanned, &run.ImagesFlagged, &run.Broken,
			&run.ProbablyOK, &run.PageErrors, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
