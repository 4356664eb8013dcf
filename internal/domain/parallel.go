package domain

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ComputeCoverageParallel is ComputeCoverage with grid rows sharded across workers.
// The result is identical to the sequential one: each point still sums its sources
// in input order. Returns ctx.Err() if the context ends before every shard starts.
func ComputeCoverageParallel(ctx context.Context, sources []LightSource, plane PlaneSpec, opts CalcOptions, workers int) (*CalculationResult, error) {
	if err := ValidateInputs(sources, plane, opts); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	grid := NewSampleGrid(plane)
	kernels := newKernels(sources, opts.Calibration)
	gain := 1 + opts.Reflectance

	// A few shards per worker keeps the tail short when rows differ in cost.
	chunk := grid.Rows / (workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for from := 0; from < grid.Rows; from += chunk {
		from := from
		to := min(from+chunk, grid.Rows)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fillRows(grid, kernels, from, to, gain)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(grid, sources, opts), nil
}
