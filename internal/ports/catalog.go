package ports

import (
	"context"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// FixtureCatalog resolves named fixture models into photometric data
// This is a PORT - adapters (built-in table, YAML file) will implement it
type FixtureCatalog interface {
	// Lookup returns the fixture for model, or domain.ErrFixtureNotFound
	Lookup(ctx context.Context, model string) (domain.Fixture, error)

	// List returns every fixture, sorted by model
	List(ctx context.Context) ([]domain.Fixture, error)
}
