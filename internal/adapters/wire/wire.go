// Package wire converts between the pb wire contract and the domain model.
// The gRPC and HTTP adapters share it so both surfaces accept and return the
// same shapes.
package wire

import (
	"fmt"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/pb"
)

// ToComputeRequest converts req, filling unset options from defaults.
func ToComputeRequest(req *pb.ComputeCoverageRequest, defaults domain.CalcOptions) (ports.ComputeRequest, error) {
	if req.Plane == nil {
		return ports.ComputeRequest{}, &domain.InvalidInputError{Field: "plane", Reason: "is required"}
	}

	sources := make([]domain.LightSource, 0, len(req.Sources))
	for i, s := range req.Sources {
		if s == nil {
			return ports.ComputeRequest{}, &domain.InvalidInputError{Field: "sources", Reason: fmt.Sprintf("entry %d is null", i)}
		}
		sources = append(sources, domain.LightSource{
			ID:           s.Id,
			X:            s.X,
			Y:            s.Y,
			Z:            s.Z,
			PPF:          s.Ppf,
			BeamAngle:    s.BeamAngle,
			FixtureModel: s.FixtureModel,
			Spectrum:     s.Spectrum,
		})
	}

	return ports.ComputeRequest{
		Name:    req.Name,
		Units:   req.Units,
		Sources: sources,
		Plane: domain.PlaneSpec{
			Width:      req.Plane.Width,
			Length:     req.Plane.Length,
			Resolution: req.Plane.Resolution,
		},
		Options: mergeOptions(defaults, req.Options),
		Persist: req.Persist,
	}, nil
}

func mergeOptions(opts domain.CalcOptions, in *pb.Options) domain.CalcOptions {
	if in == nil {
		return opts
	}
	if in.PhotoperiodHours != nil {
		opts.PhotoperiodHours = *in.PhotoperiodHours
	}
	if in.Reflectance != nil {
		opts.Reflectance = *in.Reflectance
	}
	if c := in.Calibration; c != nil {
		cal := &opts.Calibration
		setIfNonZero(&cal.ReferenceBeamAngle, c.ReferenceBeamAngle)
		setIfNonZero(&cal.ConcentrationBase, c.ConcentrationBase)
		setIfNonZero(&cal.ConcentrationExponent, c.ConcentrationExponent)
		setIfNonZero(&cal.WideBeamThreshold, c.WideBeamThreshold)
		setIfNonZero(&cal.NarrowBeamThreshold, c.NarrowBeamThreshold)
		if c.Falloff != "" {
			cal.Falloff = domain.Falloff(c.Falloff)
		}
	}
	return opts
}

func setIfNonZero(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// FromRun converts a run; the sampled grid is only included when asked for.
func FromRun(run *domain.CoverageRun, includeGrid bool) *pb.CoverageRun {
	out := &pb.CoverageRun{
		Id:        run.ID,
		Name:      run.Name,
		CreatedAt: run.CreatedAt.Unix(),
		Sources:   make([]*pb.LightSource, len(run.Sources)),
		Plane: &pb.Plane{
			Width:      run.Plane.Width,
			Length:     run.Plane.Length,
			Resolution: run.Plane.Resolution,
		},
	}
	for i, s := range run.Sources {
		out.Sources[i] = &pb.LightSource{
			Id:           s.ID,
			X:            s.X,
			Y:            s.Y,
			Z:            s.Z,
			Ppf:          s.PPF,
			BeamAngle:    s.BeamAngle,
			FixtureModel: s.FixtureModel,
			Spectrum:     s.Spectrum,
		}
	}
	if run.Result != nil {
		out.Result = FromResult(run.Result, includeGrid)
	}
	return out
}

// FromResult converts a calculation result.
func FromResult(r *domain.CalculationResult, includeGrid bool) *pb.CoverageResult {
	out := &pb.CoverageResult{
		MinPpfd:     r.MinPPFD,
		MaxPpfd:     r.MaxPPFD,
		AveragePpfd: r.AveragePPFD,
		Uniformity:  r.Uniformity,
		MinMaxRatio: r.MinMaxRatio,
		Dli:         r.DLI,
		Category:    r.Category,
		Confidence:  r.Confidence,
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, &pb.Warning{
			Code:      w.Code,
			SourceId:  w.SourceID,
			BeamAngle: w.BeamAngle,
			Message:   w.Message,
		})
	}
	if r.Grid != nil {
		out.Columns = int32(r.Grid.Columns)
		out.Rows = int32(r.Grid.Rows)
		if includeGrid {
			out.Grid = r.Grid.Values
		}
	}
	return out
}

// FromFixture converts a catalog entry.
func FromFixture(f domain.Fixture) *pb.Fixture {
	return &pb.Fixture{
		Model:        f.Model,
		Manufacturer: f.Manufacturer,
		Ppf:          f.PPF,
		BeamAngle:    f.BeamAngle,
		Wattage:      f.Wattage,
		Efficacy:     f.Efficacy(),
	}
}

// Statistics holds DLI statistics over a set of runs
type Statistics struct {
	Average float64
	Min     float64
	Max     float64
}

// CalculateStatistics computes DLI stats for a set of runs
func CalculateStatistics(runs []*domain.CoverageRun) Statistics {
	var (
		sum   float64
		n     int
		stats Statistics
	)

	for _, r := range runs {
		if r.Result == nil {
			continue
		}
		dli := r.Result.DLI
		if n == 0 || dli < stats.Min {
			stats.Min = dli
		}
		if n == 0 || dli > stats.Max {
			stats.Max = dli
		}
		sum += dli
		n++
	}

	if n > 0 {
		stats.Average = sum / float64(n)
	}
	return stats
}
