// Package history persists check outcomes across runs so pass rates and
// durations can be inspected later. Recording is best-effort: storage
// failures degrade gracefully and never fail a run.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/calloway/checkmate/internal/runner"
)

//go:embed schema.sql
var schemaSQL string

// Store manages the SQLite database of past check runs.
type Store struct {
	db     *sql.DB
	dbPath string
}

// CheckStats summarizes the recorded outcomes of one check.
type CheckStats struct {
	CheckName   string
	Runs        int
	Passes      int
	AvgDuration time.Duration
	LastRun     time.Time
}

// NewStore opens (or creates) the database at dbPath and initializes the
// schema. Use ":memory:" for an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordReport stores every outcome of one orchestration run under the
// given run ID.
func (s *Store) RecordReport(ctx context.Context, runID string, report runner.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO check_runs (run_id, check_name, mode, passed, duration_ms) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, outcome := range report.Outcomes {
		passed := 0
		if outcome.Passed {
			passed = 1
		}
		if _, err := stmt.ExecContext(ctx, runID, outcome.Name, outcome.Mode.String(), passed, outcome.Duration.Milliseconds()); err != nil {
			return fmt.Errorf("insert outcome for %s: %w", outcome.Name, err)
		}
	}

	return tx.Commit()
}

// Stats aggregates recorded outcomes per check, most-run first.
func (s *Store) Stats(ctx context.Context) ([]CheckStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT check_name,
		       COUNT(*),
		       SUM(passed),
		       AVG(duration_ms),
		       MAX(created_at)
		FROM check_runs
		GROUP BY check_name
		ORDER BY COUNT(*) DESC, check_name`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []CheckStats
	for rows.Next() {
		var cs CheckStats
		var avgMillis float64
		var lastRun string
		if err := rows.Scan(&cs.CheckName, &cs.Runs, &cs.Passes, &avgMillis, &lastRun); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		cs.AvgDuration = time.Duration(avgMillis) * time.Millisecond
		if ts, err := time.Parse("2006-01-02 15:04:05", lastRun); err == nil {
			cs.LastRun = ts
		}
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}
