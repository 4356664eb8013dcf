package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// RunRepository implements domain.RunRepository with in-memory storage
// Runs are lost on restart; use the sqlite or mongo adapters to keep history
type RunRepository struct {
	mu   sync.RWMutex
	runs map[string]*domain.CoverageRun
}

// NewRunRepository creates an empty in-memory repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		runs: make(map[string]*domain.CoverageRun),
	}
}

// SaveRun stores a run in memory, replacing any run with the same ID
func (r *RunRepository) SaveRun(ctx context.Context, run *domain.CoverageRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[run.ID] = run
	return nil
}

// GetRun retrieves a run by ID
func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.CoverageRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.runs[id]
	if !exists {
		return nil, domain.ErrRunNotFound
	}

	return run, nil
}

// GetRunsInRange returns all runs created within [start, end)
func (r *RunRepository) GetRunsInRange(ctx context.Context, start, end time.Time) ([]*domain.CoverageRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.CoverageRun
	for _, run := range r.runs {
		if !run.CreatedAt.Before(start) && run.CreatedAt.Before(end) {
			results = append(results, run)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	return results, nil
}

// GetLatestRun returns the most recent run
func (r *RunRepository) GetLatestRun(ctx context.Context) (*domain.CoverageRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.CoverageRun
	for _, run := range r.runs {
		if latest == nil || run.CreatedAt.After(latest.CreatedAt) {
			latest = run
		}
	}

	if latest == nil {
		return nil, domain.ErrRunNotFound
	}
	return latest, nil
}

// DeleteOldRuns removes runs older than specified duration
func (r *RunRepository) DeleteOldRuns(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	for id, run := range r.runs {
		if run.CreatedAt.Before(cutoff) {
			delete(r.runs, id)
		}
	}

	return nil
}
