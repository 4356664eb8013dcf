package domain

import (
	"context"
	"time"
)

// RunRepository defines operations for storing/retrieving coverage runs
// This is a PORT - adapters (SQLite, Mongo, Memory) will implement it
type RunRepository interface {
	// SaveRun persists a run
	SaveRun(ctx context.Context, run *CoverageRun) error

	// GetRun retrieves a specific run by ID
	GetRun(ctx context.Context, id string) (*CoverageRun, error)

	// GetRunsInRange retrieves all runs created within time range, oldest first.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetRunsInRange(ctx context.Context, start, end time.Time) ([]*CoverageRun, error)

	// GetLatestRun retrieves the most recent run
	GetLatestRun(ctx context.Context) (*CoverageRun, error)

	// DeleteOldRuns removes runs older than specified duration
	DeleteOldRuns(ctx context.Context, olderThan time.Duration) error
}
