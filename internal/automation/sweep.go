package automation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/oceansim/internal/analysis"
	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/sim"
)

// ParameterSweep varies one parameter across its range and records a
// metric for every (value, seed) pair.
type ParameterSweep struct {
	Model     dynamo.ModelID
	Param     string
	Min, Max  float64 // both zero means the parameter's own bounds
	Steps     int
	Seeds     int
	SeedStart uint64
	Ticks     int
	Dt        float64
	Metric    string
	Params    map[string]float64
	Workers   int
}

func (sw *ParameterSweep) bounds() (float64, float64, error) {
	m, err := catalog.Default().Get(sw.Model)
	if err != nil {
		return 0, 0, err
	}
	p, ok := m.Defaults().Get(sw.Param)
	if !ok {
		return 0, 0, &dynamo.ParameterError{ID: sw.Param, Wrapped: dynamo.ErrUnknownParameter}
	}
	lo, hi := sw.Min, sw.Max
	if lo == 0 && hi == 0 {
		lo, hi = p.Min, p.Max
	}
	if !p.Accepts(lo) || !p.Accepts(hi) || lo > hi {
		return 0, 0, &dynamo.ParameterError{ID: sw.Param, Value: lo, Min: p.Min, Max: p.Max, Wrapped: dynamo.ErrParameterOutOfRange}
	}
	return lo, hi, nil
}

// Values returns the parameter values the sweep visits.
func (sw *ParameterSweep) Values() ([]float64, error) {
	lo, hi, err := sw.bounds()
	if err != nil {
		return nil, err
	}
	steps := sw.Steps
	if steps < 2 {
		steps = 2
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(steps-1)
	}
	// Rounding can push the last point just past hi.
	out[steps-1] = hi
	return out, nil
}

// RunSweep evaluates every point of sw concurrently.
func RunSweep(ctx context.Context, sw *ParameterSweep) ([]analysis.ResponsePoint, error) {
	values, err := sw.Values()
	if err != nil {
		return nil, err
	}
	seeds := sw.Seeds
	if seeds < 1 {
		seeds = 1
	}
	if _, ok := metrics.Lookup(metrics.ForModel(sw.Model), sw.Metric); !ok {
		return nil, fmt.Errorf("sweep: model %s has no metric %q", sw.Model, sw.Metric)
	}

	points := make([]analysis.ResponsePoint, len(values))
	g, ctx := errgroup.WithContext(ctx)
	if sw.Workers > 0 {
		g.SetLimit(sw.Workers)
	}
	for i, v := range values {
		points[i] = analysis.ResponsePoint{Param: v, Values: make([]float64, seeds)}
		params := make(map[string]float64, len(sw.Params)+1)
		for k, pv := range sw.Params {
			params[k] = pv
		}
		params[sw.Param] = v

		for s := 0; s < seeds; s++ {
			g.Go(func() error {
				cfg := sim.EnsembleConfig{
					Model:   sw.Model,
					Params:  params,
					Ticks:   sw.Ticks,
					Dt:      sw.Dt,
					Metrics: func() []sim.Metric { return metrics.ForModel(sw.Model) },
				}
				r, err := sim.Run(ctx, cfg, sw.SeedStart+uint64(s))
				if err != nil {
					return fmt.Errorf("%s=%g: %w", sw.Param, v, err)
				}
				points[i].Values[s] = r.Metrics[sw.Metric]
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
