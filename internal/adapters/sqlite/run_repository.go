package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// RunRepository implements domain.RunRepository with SQLite.
// Summary figures get their own columns for ad-hoc queries; the full run
// (sources, plane, options, grid) is kept as a JSON payload.
type RunRepository struct {
	db *sql.DB
}

// runPayload is the JSON-encoded remainder of a run
type runPayload struct {
	Sources []domain.LightSource      `json:"sources"`
	Plane   domain.PlaneSpec          `json:"plane"`
	Options domain.CalcOptions        `json:"options"`
	Result  *domain.CalculationResult `json:"result"`
}

// NewRunRepository creates a SQLite-backed repository
func NewRunRepository(dbPath string) (*RunRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS coverage_runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		avg_ppfd REAL NOT NULL,
		min_ppfd REAL NOT NULL,
		max_ppfd REAL NOT NULL,
		uniformity REAL NOT NULL,
		dli REAL NOT NULL,
		confidence TEXT NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_coverage_runs_created_at ON coverage_runs(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &RunRepository{db: db}, nil
}

// SaveRun stores a run in SQLite, replacing any run with the same ID
func (r *RunRepository) SaveRun(ctx context.Context, run *domain.CoverageRun) error {
	if run.Result == nil {
		return fmt.Errorf("run %s has no result", run.ID)
	}

	payload, err := json.Marshal(runPayload{
		Sources: run.Sources,
		Plane:   run.Plane,
		Options: run.Options,
		Result:  run.Result,
	})
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO coverage_runs
			(id, name, created_at, avg_ppfd, min_ppfd, max_ppfd, uniformity, dli, confidence, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res := run.Result
	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Name, run.CreatedAt.UnixMilli(),
		res.AveragePPFD, res.MinPPFD, res.MaxPPFD, res.Uniformity, res.DLI, res.Confidence,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID
func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.CoverageRun, error) {
	query := `SELECT id, name, created_at, payload FROM coverage_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// GetRunsInRange returns all runs created within [start, end)
func (r *RunRepository) GetRunsInRange(ctx context.Context, start, end time.Time) ([]*domain.CoverageRun, error) {
	query := `
		SELECT id, name, created_at, payload
		FROM coverage_runs
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.CoverageRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// GetLatestRun returns the most recent run
func (r *RunRepository) GetLatestRun(ctx context.Context) (*domain.CoverageRun, error) {
	query := `
		SELECT id, name, created_at, payload
		FROM coverage_runs
		ORDER BY created_at DESC
		LIMIT 1
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	return run, nil
}

// DeleteOldRuns removes runs older than specified duration
func (r *RunRepository) DeleteOldRuns(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	query := `DELETE FROM coverage_runs WHERE created_at < ?`

	_, err := r.db.ExecContext(ctx, query, cutoff.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to delete old runs: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *RunRepository) Close() error {
	return r.db.Close()
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.CoverageRun, error) {
	var (
		run       domain.CoverageRun
		createdAt int64
		raw       string
	)
	if err := s.Scan(&run.ID, &run.Name, &createdAt, &raw); err != nil {
		return nil, err
	}

	var p runPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", run.ID, err)
	}

	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	run.Sources = p.Sources
	run.Plane = p.Plane
	run.Options = p.Options
	run.Result = p.Result
	return &run, nil
}
