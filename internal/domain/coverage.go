package domain

import (
	"math"
	"strconv"
)

// ComputeCoverage estimates the PPFD delivered by sources onto the plane and
// derives min/max/average, uniformity and DLI from it.
//
// Each source is modelled as its PPF spread uniformly over a disk of
// EffectiveRadius centred under the fixture, with a smooth tail beyond the
// disk (see Falloff). Contributions are summed per grid point and scaled by
// (1 + reflectance).
//
// Failures are *InvalidInputError or ErrGridTooLarge; physically implausible
// results are returned as data.
func ComputeCoverage(sources []LightSource, plane PlaneSpec, opts CalcOptions) (*CalculationResult, error) {
	if err := ValidateInputs(sources, plane, opts); err != nil {
		return nil, err
	}

	grid := NewSampleGrid(plane)
	kernels := newKernels(sources, opts.Calibration)
	fillRows(grid, kernels, 0, grid.Rows, 1+opts.Reflectance)

	return summarize(grid, sources, opts), nil
}

// ValidateInputs runs every check ComputeCoverage performs before sampling.
func ValidateInputs(sources []LightSource, plane PlaneSpec, opts CalcOptions) error {
	if len(sources) == 0 {
		return invalid("sources", "at least one light source is required")
	}
	if err := plane.Validate(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// A source this far outside the room almost always means feet were passed as metres
	// (or the reverse).
	margin := plane.Diagonal()
	for i, s := range sources {
		field := sourceField(i, s)
		if err := s.validate(field); err != nil {
			return err
		}
		if !plane.contains(s.X, s.Y, margin) {
			return invalid(field, "position (%g, %g) is more than a plane diagonal (%g) outside the plane; check units",
				s.X, s.Y, margin)
		}
	}

	// Every sample is bounded by the summed peaks, so a finite bound keeps the grid finite.
	var bound float64
	for _, s := range sources {
		bound += newKernel(s, opts.Calibration).peak
	}
	if !isFinite(bound * (1 + opts.Reflectance)) {
		return invalid("sources", "combined ppf is too large to model")
	}
	return nil
}

// MinEffectiveRadius is the smallest disk a source may concentrate into (1 mm).
// Needle-thin beams are modelled as this disk rather than a singular peak.
const MinEffectiveRadius = 1e-3

// EffectiveRadius is the radius of the concentrated disk a source lights at the canopy:
// z·tan(beam/2) shrunk by the square root of the concentration factor, never below
// MinEffectiveRadius.
func EffectiveRadius(src LightSource, cal Calibration) float64 {
	theoretical := src.Z * math.Tan(src.BeamAngle/2*math.Pi/180)
	re := theoretical / math.Sqrt(cal.ConcentrationFactor(src.BeamAngle))
	if math.IsNaN(re) || re < MinEffectiveRadius {
		return MinEffectiveRadius
	}
	return re
}

// Contribution returns the PPFD a single source delivers at plane point (x, y),
// before any reflectance bonus.
func Contribution(src LightSource, x, y float64, cal Calibration) float64 {
	k := newKernel(src, cal)
	return k.at(x, y)
}

// kernel caches the per-source terms that do not depend on the grid point.
// Distances go through math.Hypot so that huge heights or offsets never overflow.
type kernel struct {
	x, y    float64
	z       float64
	re      float64
	edge    float64 // slant distance from the source to the disk rim
	peak    float64
	falloff Falloff
}

func newKernel(src LightSource, cal Calibration) kernel {
	re := EffectiveRadius(src, cal)
	return kernel{
		x:       src.X,
		y:       src.Y,
		z:       src.Z,
		re:      re,
		edge:    math.Hypot(re, src.Z),
		peak:    src.PPF / (math.Pi * re * re),
		falloff: cal.Falloff,
	}
}

func newKernels(sources []LightSource, cal Calibration) []kernel {
	ks := make([]kernel, len(sources))
	for i, s := range sources {
		ks[i] = newKernel(s, cal)
	}
	return ks
}

func (k kernel) at(x, y float64) float64 {
	r := math.Hypot(x-k.x, y-k.y)
	if r <= k.re {
		return k.peak
	}

	switch k.falloff {
	case FalloffGaussian:
		// In units of sigma = re/2.
		d := 2 * (r - k.re) / k.re
		return k.peak * math.Exp(-d*d/2)
	default:
		// Ratio of z/(r²+z²)^1.5 at r and at the disk edge.
		q := k.edge / math.Hypot(r, k.z)
		if math.IsNaN(q) || q > 1 {
			q = 1
		}
		return k.peak * q * q * q
	}
}

// fillRows accumulates every kernel into grid rows [from, to).
// Rows are independent, so disjoint ranges may be filled concurrently.
func fillRows(grid *SampleGrid, kernels []kernel, from, to int, gain float64) {
	for row := from; row < to; row++ {
		for col := 0; col < grid.Columns; col++ {
			x, y := grid.Point(col, row)
			var sum float64
			for _, k := range kernels {
				sum += k.at(x, y)
			}
			grid.Values[row*grid.Columns+col] = sum * gain
		}
	}
}

func sourceField(i int, s LightSource) string {
	if s.ID != "" {
		return "sources[" + s.ID + "]"
	}
	return "sources[" + strconv.Itoa(i) + "]"
}
