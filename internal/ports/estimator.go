package ports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// Units accepted on requests. Feet are converted to metres before computing.
const (
	UnitsMeters = "m"
	UnitsFeet   = "ft"
)

// EstimatorConfig bounds and tunes the Estimator
type EstimatorConfig struct {
	// MaxGridPoints rejects planes that would sample more points than this (0 = unlimited)
	MaxGridPoints int

	// ParallelThreshold is the sources×points product above which rows are sharded
	ParallelThreshold int

	// Workers for sharded runs (0 = GOMAXPROCS)
	Workers int

	// Defaults are the options a request starts from
	Defaults domain.CalcOptions
}

// DefaultEstimatorConfig returns limits suited to a single service instance
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MaxGridPoints:     1_000_000,
		ParallelThreshold: 200_000,
		Defaults:          domain.DefaultOptions(),
	}
}

// ComputeRequest is a coverage computation as received from a transport
type ComputeRequest struct {
	Name    string
	Units   string // "m" (default) or "ft"
	Sources []domain.LightSource
	Plane   domain.PlaneSpec
	Options domain.CalcOptions
	Persist bool
}

// Estimator resolves fixtures, runs the coverage estimator and keeps run history
type Estimator struct {
	catalog FixtureCatalog
	repo    domain.RunRepository
	cfg     EstimatorConfig
}

// NewEstimator creates the application service used by the gRPC and HTTP adapters
func NewEstimator(catalog FixtureCatalog, repo domain.RunRepository, cfg EstimatorConfig) *Estimator {
	return &Estimator{
		catalog: catalog,
		repo:    repo,
		cfg:     cfg,
	}
}

// DefaultOptions returns the options new requests should start from
func (e *Estimator) DefaultOptions() domain.CalcOptions {
	return e.cfg.Defaults
}

// Compute runs one coverage calculation and, if requested, stores it
func (e *Estimator) Compute(ctx context.Context, req ComputeRequest) (*domain.CoverageRun, error) {
	sources, plane, err := normalizeUnits(req.Units, req.Sources, req.Plane)
	if err != nil {
		return nil, err
	}

	sources, err = e.resolveFixtures(ctx, sources)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateInputs(sources, plane, req.Options); err != nil {
		return nil, err
	}

	if n := plane.PointCount(); e.cfg.MaxGridPoints > 0 && n > float64(e.cfg.MaxGridPoints) {
		return nil, fmt.Errorf("%w: %.4g points exceeds limit of %d; use a coarser resolution",
			domain.ErrGridTooLarge, n, e.cfg.MaxGridPoints)
	}
	points := plane.GridPoints()

	started := time.Now()
	var result *domain.CalculationResult
	if work := points * len(sources); e.cfg.ParallelThreshold > 0 && work > e.cfg.ParallelThreshold {
		result, err = domain.ComputeCoverageParallel(ctx, sources, plane, req.Options, e.cfg.Workers)
	} else {
		result, err = domain.ComputeCoverage(sources, plane, req.Options)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("name", req.Name).
		Int("sources", len(sources)).
		Int("grid_points", points).
		Float64("avg_ppfd", result.AveragePPFD).
		Float64("dli", result.DLI).
		Str("confidence", result.Confidence).
		Dur("took", time.Since(started)).
		Msg("computed coverage")

	for _, w := range result.Warnings {
		log.Warn().Str("source", w.SourceID).Float64("beam_angle", w.BeamAngle).Str("code", w.Code).Msg(w.Message)
	}

	run := domain.NewCoverageRun(req.Name, sources, plane, req.Options, result)
	if req.Persist && e.repo != nil {
		if err := e.repo.SaveRun(ctx, run); err != nil {
			log.Error().Err(err).Str("run_id", run.ID).Msg("failed to save coverage run")
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	return run, nil
}

// GetRun returns a stored run by ID
func (e *Estimator) GetRun(ctx context.Context, id string) (*domain.CoverageRun, error) {
	return e.repo.GetRun(ctx, id)
}

// LatestRun returns the most recently stored run
func (e *Estimator) LatestRun(ctx context.Context) (*domain.CoverageRun, error) {
	return e.repo.GetLatestRun(ctx)
}

// ListRuns returns runs created in [start, end)
func (e *Estimator) ListRuns(ctx context.Context, start, end time.Time) ([]*domain.CoverageRun, error) {
	return e.repo.GetRunsInRange(ctx, start, end)
}

// ListFixtures returns the fixture catalog
func (e *Estimator) ListFixtures(ctx context.Context) ([]domain.Fixture, error) {
	return e.catalog.List(ctx)
}

// resolveFixtures fills PPF and beam angle from the catalog for sources that
// name a fixture model but leave those fields empty. Explicit values win.
func (e *Estimator) resolveFixtures(ctx context.Context, sources []domain.LightSource) ([]domain.LightSource, error) {
	out := make([]domain.LightSource, len(sources))
	copy(out, sources)

	for i, s := range out {
		if s.FixtureModel == "" || (s.PPF > 0 && s.BeamAngle > 0) {
			continue
		}
		if e.catalog == nil {
			return nil, fmt.Errorf("source %d: %w: no catalog configured", i, domain.ErrFixtureNotFound)
		}
		f, err := e.catalog.Lookup(ctx, s.FixtureModel)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		if s.PPF <= 0 {
			out[i].PPF = f.PPF
		}
		if s.BeamAngle <= 0 {
			out[i].BeamAngle = f.BeamAngle
		}
	}
	return out, nil
}

func normalizeUnits(units string, sources []domain.LightSource, plane domain.PlaneSpec) ([]domain.LightSource, domain.PlaneSpec, error) {
	switch strings.ToLower(strings.TrimSpace(units)) {
	case "", UnitsMeters:
		return sources, plane, nil
	case UnitsFeet:
	default:
		return nil, plane, &domain.InvalidInputError{Field: "units", Reason: fmt.Sprintf("unknown units %q (want m or ft)", units)}
	}

	out := make([]domain.LightSource, len(sources))
	for i, s := range sources {
		s.X = domain.FeetToMeters(s.X)
		s.Y = domain.FeetToMeters(s.Y)
		s.Z = domain.FeetToMeters(s.Z)
		out[i] = s
	}
	plane = domain.PlaneSpec{
		Width:      domain.FeetToMeters(plane.Width),
		Length:     domain.FeetToMeters(plane.Length),
		Resolution: domain.FeetToMeters(plane.Resolution),
	}
	return out, plane, nil
}

// IsClientError reports whether err was caused by the request rather than the service
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrGridTooLarge)
}
