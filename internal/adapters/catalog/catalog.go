// Package catalog implements ports.FixtureCatalog from a built-in table and
// optional YAML catalog files.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// Catalog is an in-memory fixture table keyed by lower-cased model name.
type Catalog struct {
	mu       sync.RWMutex
	fixtures map[string]domain.Fixture
}

// file is the on-disk YAML layout:
//
//	fixtures:
//	  - model: led-bar-600
//	    ppf: 1620
//	    beam_angle: 120
//	    wattage: 600
type file struct {
	Fixtures []domain.Fixture `yaml:"fixtures"`
}

// New builds a catalog from fixtures. Later entries replace earlier ones with the same model.
func New(fixtures ...domain.Fixture) (*Catalog, error) {
	c := &Catalog{fixtures: make(map[string]domain.Fixture, len(fixtures))}
	if err := c.Add(fixtures...); err != nil {
		return nil, err
	}
	return c, nil
}

// Builtin returns generic fixtures covering common horticultural lamp classes.
func Builtin() *Catalog {
	c, err := New(builtinFixtures...)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in fixture: %v", err))
	}
	return c
}

// LoadFile reads a YAML catalog and layers it over the built-in fixtures.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c := Builtin()
	if err := c.Add(f.Fixtures...); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Add validates and inserts fixtures.
func (c *Catalog) Add(fixtures ...domain.Fixture) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, f := range fixtures {
		if strings.TrimSpace(f.Model) == "" {
			return fmt.Errorf("fixture %d: model is required", i)
		}
		// Validate photometry the same way a placed source would be.
		if err := f.Place(f.Model, 0, 0, 1).Validate(); err != nil {
			return fmt.Errorf("fixture %q: %w", f.Model, err)
		}
		c.fixtures[key(f.Model)] = f
	}
	return nil
}

// Lookup implements ports.FixtureCatalog.
func (c *Catalog) Lookup(ctx context.Context, model string) (domain.Fixture, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.fixtures[key(model)]
	if !ok {
		return domain.Fixture{}, fmt.Errorf("%w: %q", domain.ErrFixtureNotFound, model)
	}
	return f, nil
}

// List implements ports.FixtureCatalog.
func (c *Catalog) List(ctx context.Context) ([]domain.Fixture, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Fixture, 0, len(c.fixtures))
	for _, f := range c.fixtures {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

func key(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}
