package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// Pruner periodically deletes coverage runs past their retention
type Pruner struct {
	repo      domain.RunRepository
	interval  time.Duration
	retention time.Duration
}

// NewPruner creates a new background retention worker
func NewPruner(repo domain.RunRepository, interval, retention time.Duration) *Pruner {
	return &Pruner{
		repo:      repo,
		interval:  interval,
		retention: retention,
	}
}

// Start prunes once immediately, then every interval.
// This runs in a goroutine until context is cancelled
func (p *Pruner) Start(ctx context.Context) {
	log.Info().
		Dur("interval", p.interval).
		Dur("retention", p.retention).
		Msg("starting run pruner")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pruneOnce(ctx)

	for {
		select {
		case <-ticker.C:
			p.pruneOnce(ctx)

		case <-ctx.Done():
			log.Info().Msg("stopping run pruner")
			return
		}
	}
}

func (p *Pruner) pruneOnce(ctx context.Context) {
	if err := p.repo.DeleteOldRuns(ctx, p.retention); err != nil {
		log.Error().Err(err).Msg("failed to delete old runs")
		return
	}
	log.Debug().Dur("retention", p.retention).Msg("pruned old coverage runs")
}
