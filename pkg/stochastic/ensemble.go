package stochastic

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs many independent sample paths of one generator across
// a bounded worker pool.
type Ensemble struct {
	Paths   int
	Workers int    // 0 means GOMAXPROCS
	Seed    uint64 // run seed; per-path sources derive from it
}

// PathGen produces the i-th sample path from its dedicated source.
type PathGen func(i int, src rand.Source) ([]float64, error)

// PathSet holds the output of an ensemble run: Data[i] is the i-th
// path, all paths equal length.
type PathSet struct {
	Dt   float64
	Data [][]float64
}

// Run executes gen for every path index on the worker pool. Identical
// (Seed, Paths, gen) give an identical PathSet regardless of Workers:
// each path's randomness comes from SplitSource(Seed, i) and results
// land at their own index.
func (e Ensemble) Run(ctx context.Context, gen PathGen) (*PathSet, error) {
	if e.Paths <= 0 {
		return nil, ErrBadPaths
	}
	if gen == nil {
		return nil, ErrNilGen
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	data := make([][]float64, e.Paths)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < e.Paths; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := gen(i, SplitSource(e.Seed, i))
			if err != nil {
				return fmt.Errorf("path %d: %w", i, err)
			}
			data[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// All paths must agree on length for the column statistics.
	for i := 1; i < len(data); i++ {
		if len(data[i]) != len(data[0]) {
			return nil, fmt.Errorf("stochastic: path %d has length %d, want %d", i, len(data[i]), len(data[0]))
		}
	}

	return &PathSet{Data: data}, nil
}

// Steps returns the number of samples per path.
func (ps *PathSet) Steps() int {
	if ps == nil || len(ps.Data) == 0 {
		return 0
	}
	return len(ps.Data[0])
}

// MeanSeries returns the per-step mean across paths.
func (ps *PathSet) MeanSeries() ([]float64, error) {
	if ps.Steps() == 0 {
		return nil, ErrNoData
	}

	out := make([]float64, ps.Steps())
	for step := range out {
		sum := 0.0
		for _, path := range ps.Data {
			sum += path[step]
		}
		out[step] = sum / float64(len(ps.Data))
	}
	return out, nil
}

// QuantileSeries returns the per-step empirical p-quantile across
// paths.
func (ps *PathSet) QuantileSeries(p float64) ([]float64, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: %g", ErrBadQuantile, p)
	}
	if ps.Steps() == 0 {
		return nil, ErrNoData
	}

	out := make([]float64, ps.Steps())
	column := make([]float64, len(ps.Data))
	for step := range out {
		for i, path := range ps.Data {
			column[i] = path[step]
		}
		sort.Float64s(column)
		out[step] = stat.Quantile(p, stat.Empirical, column, nil)
	}
	return out, nil
}

// Finals returns the last sample of every path.
func (ps *PathSet) Finals() ([]float64, error) {
	n := ps.Steps()
	if n == 0 {
		return nil, ErrNoData
	}

	out := make([]float64, len(ps.Data))
	for i, path := range ps.Data {
		out[i] = path[n-1]
	}
	return out, nil
}
