package sim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// RunResult is the outcome of one headless run.
type RunResult struct {
	Seed       uint64
	Ticks      int
	Elapsed    float64
	Population int
	Metrics    map[string]float64
}

// EnsembleConfig describes a batch of runs that differ only in seed.
type EnsembleConfig struct {
	Model     dynamo.ModelID
	Params    map[string]float64
	Runs      int
	SeedStart uint64
	Ticks     int
	Dt        float64
	Speed     float64
	Bounds    dynamo.Bounds
	// Metrics builds a fresh metric set for each run.
	Metrics func() []Metric
	Workers int
}

// Run executes a single headless run with cfg and seed.
func Run(ctx context.Context, cfg EnsembleConfig, seed uint64, opts ...Option) (*RunResult, error) {
	opts = append([]Option{WithSeed(seed), WithBounds(cfg.Bounds)}, opts...)
	e, err := New(cfg.Model, opts...)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if len(cfg.Params) > 0 {
		if err := e.SetParameters(cfg.Params); err != nil {
			return nil, fmt.Errorf("seed %d: %w", seed, err)
		}
	}
	if cfg.Speed > 0 {
		e.SetSpeed(cfg.Speed)
	}
	if cfg.Metrics != nil {
		for _, m := range cfg.Metrics() {
			e.AddMetric(m)
		}
	}

	tok := e.Play()
	ticks := 0
	for ticks < cfg.Ticks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.TickWith(tok, cfg.Dt) {
			break
		}
		ticks++
	}

	st := e.Snapshot()
	return &RunResult{
		Seed:       seed,
		Ticks:      ticks,
		Elapsed:    st.Elapsed,
		Population: len(st.Particles),
		Metrics:    e.Metrics(),
	}, nil
}

// Ensemble runs cfg.Runs seeds concurrently. Results are ordered by seed.
func Ensemble(ctx context.Context, cfg EnsembleConfig, opts ...Option) ([]*RunResult, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("ensemble: runs must be positive, got %d", cfg.Runs)
	}
	if !(cfg.Dt > 0) {
		return nil, fmt.Errorf("ensemble: dt must be positive, got %v", cfg.Dt)
	}

	results := make([]*RunResult, cfg.Runs)
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i := 0; i < cfg.Runs; i++ {
		g.Go(func() error {
			r, err := Run(ctx, cfg, cfg.SeedStart+uint64(i), opts...)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats summarises one quantity across runs.
type Stats struct {
	Name         string
	Mean, StdDev float64
	Min, Max     float64
}

// Summarize reports population plus every metric across results, sorted
// by name.
func Summarize(results []*RunResult) []Stats {
	series := map[string][]float64{}
	for _, r := range results {
		series["population"] = append(series["population"], float64(r.Population))
		for k, v := range r.Metrics {
			series[k] = append(series[k], v)
		}
	}
	names := make([]string, 0, len(series))
	for k := range series {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]Stats, 0, len(names))
	for _, name := range names {
		xs := series[name]
		mean, std := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 {
			std = 0
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, x := range xs {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
		out = append(out, Stats{Name: name, Mean: mean, StdDev: std, Min: lo, Max: hi})
	}
	return out
}
