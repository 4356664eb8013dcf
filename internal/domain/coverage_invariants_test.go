package domain

// Invariant tests for the coverage estimator: properties that must hold for
// any valid input rather than for a single worked example.

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvariant_PeakDecreasesWithMountingHeight(t *testing.T) {
	t.Parallel()

	for _, falloff := range []Falloff{FalloffCosineCubed, FalloffGaussian} {
		cal := DefaultCalibration()
		cal.Falloff = falloff

		prev := 0.0
		for i, z := range []float64{0.3, 0.5, 0.91, 1.5, 2.5, 4} {
			src := LightSource{X: 1, Y: 1, Z: z, PPF: 1620, BeamAngle: 120}
			peak := Contribution(src, 1, 1, cal)
			require.Greater(t, peak, 0.0)
			if i > 0 {
				assert.Less(t, peak, prev, "peak at z=%v should be below the previous height", z)
			}
			prev = peak
		}
	}
}

func TestInvariant_Superposition(t *testing.T) {
	t.Parallel()

	plane := PlaneSpec{Width: 3, Length: 2, Resolution: 0.2}
	sources := []LightSource{
		{ID: "a", X: 0.8, Y: 1, Z: 0.6, PPF: 900, BeamAngle: 120},
		{ID: "b", X: 2.2, Y: 1, Z: 0.9, PPF: 1700, BeamAngle: 100},
		{ID: "c", X: 1.5, Y: 0.2, Z: 1.2, PPF: 400, BeamAngle: 150},
	}
	opts := DefaultOptions()

	combined, err := ComputeCoverage(sources, plane, opts)
	require.NoError(t, err)

	sum := make([]float64, combined.Grid.Len())
	for _, s := range sources {
		single, err := ComputeCoverage([]LightSource{s}, plane, opts)
		require.NoError(t, err)
		for i, v := range single.Grid.Values {
			sum[i] += v
		}
	}

	for i := range sum {
		assert.InDelta(t, sum[i], combined.Grid.Values[i], 1e-9*sum[i]+1e-12, "point %d", i)
	}
}

func TestInvariant_RotationalSymmetry(t *testing.T) {
	t.Parallel()

	for _, falloff := range []Falloff{FalloffCosineCubed, FalloffGaussian} {
		opts := DefaultOptions()
		opts.Calibration.Falloff = falloff
		plane := PlaneSpec{Width: 4, Length: 4, Resolution: 0.1}
		src := LightSource{X: 2, Y: 2, Z: 0.5, PPF: 1200, BeamAngle: 110}

		res, err := ComputeCoverage([]LightSource{src}, plane, opts)
		require.NoError(t, err)

		g := res.Grid
		require.Equal(t, g.Columns, g.Rows)
		n := g.Columns
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				v := g.At(col, row)
				rotated := g.At(row, n-1-col)
				assert.InDelta(t, v, rotated, 1e-9*v+1e-12, "(%d,%d) under %s", col, row, falloff)
			}
		}
	}
}

func TestInvariant_UniformityWithinUnitInterval(t *testing.T) {
	t.Parallel()

	cases := [][]LightSource{
		{{X: 0, Y: 0, Z: 0.3, PPF: 100, BeamAngle: 30}},
		{{X: 5, Y: 5, Z: 10, PPF: 5000, BeamAngle: 180}},
		{{X: 2.5, Y: 2.5, Z: 1, PPF: 1620, BeamAngle: 120}, {X: 1, Y: 4, Z: 1, PPF: 1620, BeamAngle: 120}},
		{{X: -3, Y: 8, Z: 0.2, PPF: 1e6, BeamAngle: 5}},
		{{X: 2.5, Y: 2.5, Z: 1, PPF: 1620, BeamAngle: 1e-100}},
		{{X: 2.5, Y: 2.5, Z: 1, PPF: 1620, BeamAngle: 1e-200}},
	}
	plane := PlaneSpec{Width: 5, Length: 5, Resolution: 0.25}

	for i, sources := range cases {
		res, err := ComputeCoverage(sources, plane, DefaultOptions())
		require.NoError(t, err, "case %d", i)

		assertFiniteResult(t, res)

		assert.GreaterOrEqual(t, res.Uniformity, 0.0, "case %d", i)
		assert.LessOrEqual(t, res.Uniformity, 1.0, "case %d", i)
		assert.GreaterOrEqual(t, res.MinMaxRatio, 0.0, "case %d", i)
		assert.LessOrEqual(t, res.MinMaxRatio, 1.0, "case %d", i)
		assert.LessOrEqual(t, res.MinPPFD, res.AveragePPFD, "case %d", i)
		assert.LessOrEqual(t, res.AveragePPFD, res.MaxPPFD, "case %d", i)
	}
}

func TestInvariant_FalloffIsContinuousAndDecaying(t *testing.T) {
	t.Parallel()

	for _, falloff := range []Falloff{FalloffCosineCubed, FalloffGaussian} {
		cal := DefaultCalibration()
		cal.Falloff = falloff
		src := LightSource{X: 0, Y: 0, Z: 1, PPF: 1000, BeamAngle: 120}
		re := EffectiveRadius(src, cal)
		peak := Contribution(src, 0, 0, cal)

		assert.Equal(t, peak, Contribution(src, re, 0, cal), "disk edge under %s", falloff)
		assert.InDelta(t, peak, Contribution(src, re*1.0001, 0, cal), peak*1e-3, "just past the edge under %s", falloff)

		prev := peak
		for _, r := range []float64{1.1, 1.5, 2, 3, 5} {
			v := Contribution(src, re*r, 0, cal)
			assert.Greater(t, v, 0.0, "tail at %v·Re must not be zero under %s", r, falloff)
			assert.Less(t, v, prev, "tail at %v·Re must decay under %s", r, falloff)
			prev = v
		}
	}
}

func TestInvariant_ConcentrationDecreasesWithBeamAngle(t *testing.T) {
	t.Parallel()

	cal := DefaultCalibration()
	assert.InDelta(t, cal.ConcentrationBase, cal.ConcentrationFactor(cal.ReferenceBeamAngle), 1e-12)

	prev := cal.ConcentrationFactor(10)
	for _, beam := range []float64{30, 60, 90, 120, 140, 180} {
		f := cal.ConcentrationFactor(beam)
		assert.Less(t, f, prev, "beam %v", beam)
		prev = f
	}
}

func TestInvariant_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	plane := PlaneSpec{Width: 6, Length: 3.7, Resolution: 0.1}
	sources := []LightSource{
		{X: 1, Y: 1, Z: 0.9, PPF: 1620, BeamAngle: 120},
		{X: 3, Y: 2, Z: 0.9, PPF: 1620, BeamAngle: 120},
		{X: 5, Y: 3, Z: 0.6, PPF: 800, BeamAngle: 80},
	}
	opts := DefaultOptions()

	seq, err := ComputeCoverage(sources, plane, opts)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3, 16} {
		par, err := ComputeCoverageParallel(context.Background(), sources, plane, opts, workers)
		require.NoError(t, err)
		assert.Equal(t, seq.Grid.Values, par.Grid.Values, "workers=%d", workers)
		assert.Equal(t, seq.AveragePPFD, par.AveragePPFD, "workers=%d", workers)
		assert.Equal(t, seq.Warnings, par.Warnings, "workers=%d", workers)
	}
}

func TestInvariant_ParallelHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plane := PlaneSpec{Width: 2, Length: 2, Resolution: 0.1}
	_, err := ComputeCoverageParallel(ctx, []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1000, BeamAngle: 120}}, plane, DefaultOptions(), 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestInvariant_ParallelRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := ComputeCoverageParallel(context.Background(), nil, PlaneSpec{Width: 1, Length: 1, Resolution: 0.5}, DefaultOptions(), 2)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestInvariant_InputsNotMutated(t *testing.T) {
	t.Parallel()

	sources := []LightSource{{ID: "a", X: 1, Y: 1, Z: 1, PPF: 1000, BeamAngle: 120, Spectrum: map[string]float64{"red": 0.6}}}
	before := sources[0]

	_, err := ComputeCoverage(sources, PlaneSpec{Width: 2, Length: 2, Resolution: 0.5}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, before, sources[0])
}

func assertFiniteResult(t *testing.T, res *CalculationResult) {
	t.Helper()
	stats := map[string]float64{
		"min":        res.MinPPFD,
		"max":        res.MaxPPFD,
		"average":    res.AveragePPFD,
		"uniformity": res.Uniformity,
		"min/max":    res.MinMaxRatio,
		"dli":        res.DLI,
	}
	for name, v := range stats {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is %v", name, v)
	}
	for i, v := range res.Grid.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("grid value %d is %v", i, v)
		}
	}
}

func TestInvariant_ExtremeInputsStayFinite(t *testing.T) {
	t.Parallel()

	plane := PlaneSpec{Width: 2, Length: 2, Resolution: 0.1}
	tests := []struct {
		name    string
		sources []LightSource
	}{
		{name: "needle beam", sources: []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1620, BeamAngle: 1e-100}}},
		{name: "smallest beam", sources: []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1620, BeamAngle: math.SmallestNonzeroFloat64}}},
		{name: "almost hemispherical", sources: []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1620, BeamAngle: 179.999}}},
		{name: "hemispherical", sources: []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1620, BeamAngle: 180}}},
		{name: "hairline above canopy", sources: []LightSource{{X: 1, Y: 1, Z: 1e-300, PPF: 1620, BeamAngle: 120}}},
		{name: "stadium height", sources: []LightSource{{X: 1, Y: 1, Z: 1e6, PPF: 1620, BeamAngle: 120}}},
		{name: "orbital height", sources: []LightSource{{X: 1, Y: 1, Z: 1e300, PPF: 1620, BeamAngle: 1e-200}}},
		{name: "enormous output", sources: []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1e300, BeamAngle: 60}}},
		{name: "grid sum overflows", sources: []LightSource{
			{X: 0.5, Y: 1, Z: 1, PPF: 1.5e308, BeamAngle: 120},
			{X: 1.5, Y: 1, Z: 1, PPF: 1.5e308, BeamAngle: 120},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, falloff := range []Falloff{FalloffCosineCubed, FalloffGaussian} {
				opts := DefaultOptions()
				opts.Calibration.Falloff = falloff

				res, err := ComputeCoverage(tt.sources, plane, opts)
				require.NoError(t, err, falloff)

				assertFiniteResult(t, res)
				assert.GreaterOrEqual(t, res.Uniformity, 0.0, falloff)
				assert.LessOrEqual(t, res.Uniformity, 1.0, falloff)
				assert.GreaterOrEqual(t, res.MinMaxRatio, 0.0, falloff)
				assert.LessOrEqual(t, res.MinMaxRatio, 1.0, falloff)
			}
		})
	}
}

func TestInvariant_UnmodellableInputsAreTypedErrors(t *testing.T) {
	t.Parallel()

	src := LightSource{X: 1, Y: 1, Z: 1, PPF: 1620, BeamAngle: 120}
	tests := []struct {
		name    string
		sources []LightSource
		plane   PlaneSpec
		target  error
	}{
		{
			name:    "grid count overflows int",
			sources: []LightSource{src},
			plane:   PlaneSpec{Width: 1e10, Length: 1e10, Resolution: 1e-10},
			target:  ErrGridTooLarge,
		},
		{
			name:    "micron resolution on a field",
			sources: []LightSource{src},
			plane:   PlaneSpec{Width: 4000, Length: 4000, Resolution: 1e-6},
			target:  ErrGridTooLarge,
		},
		{
			name:    "subnormal resolution",
			sources: []LightSource{src},
			plane:   PlaneSpec{Width: 2, Length: 2, Resolution: math.SmallestNonzeroFloat64},
			target:  ErrGridTooLarge,
		},
		{
			name:    "peak irradiance overflows",
			sources: []LightSource{{X: 1, Y: 1, Z: 1, PPF: 1e308, BeamAngle: 1e-100}},
			plane:   PlaneSpec{Width: 2, Length: 2, Resolution: 0.5},
			target:  ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := ComputeCoverage(tt.sources, tt.plane, DefaultOptions())
				assert.ErrorIs(t, err, tt.target)
			})
			require.NotPanics(t, func() {
				_, err := ComputeCoverageParallel(context.Background(), tt.sources, tt.plane, DefaultOptions(), 4)
				assert.ErrorIs(t, err, tt.target)
			})
		})
	}
}

func TestPlaneSpec_PointCountDoesNotWrap(t *testing.T) {
	t.Parallel()

	huge := PlaneSpec{Width: 1e10, Length: 1e10, Resolution: 1e-10}
	assert.Greater(t, huge.PointCount(), 1e39)
	assert.Equal(t, math.MaxInt, huge.GridPoints())
	assert.ErrorIs(t, huge.Validate(), ErrGridTooLarge)

	ok := PlaneSpec{Width: 1.1, Length: 0.7, Resolution: 0.1}
	assert.Equal(t, 77.0, ok.PointCount())
	assert.Equal(t, 77, ok.GridPoints())
	assert.NoError(t, ok.Validate())
}

func TestRatio_UndefinedIsZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ratio(math.Inf(1), math.Inf(1)))
	assert.Equal(t, 0.0, ratio(math.NaN(), 1))
	assert.Equal(t, 0.0, ratio(1, 0))
	assert.Equal(t, 1.0, ratio(1.0000001, 1))
	assert.Equal(t, 0.5, ratio(1, 2))
}
