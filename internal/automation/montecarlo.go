package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/sim"
)

// MonteCarloConfig perturbs every parameter around its default and
// records one metric per trial.
type MonteCarloConfig struct {
	Model        dynamo.ModelID
	Perturbation float64 // fraction of each parameter's range
	NumTrials    int
	Ticks        int
	Dt           float64
	Seed         uint64
	Metric       string
}

type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Value   float64
}

// RunMonteCarlo executes the trials in order. Trial i uses engine seed
// Seed+i, so the whole batch is reproducible.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	m, err := catalog.Default().Get(cfg.Model)
	if err != nil {
		return nil, err
	}
	if _, ok := metrics.Lookup(metrics.ForModel(cfg.Model), cfg.Metric); !ok {
		return nil, fmt.Errorf("monte carlo: model %s has no metric %q", cfg.Model, cfg.Metric)
	}

	rng := dynamo.NewRand(cfg.Seed)
	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		params := make(map[string]float64)
		for _, p := range m.Parameters() {
			v := p.Value + dynamo.Jitter(rng, cfg.Perturbation*(p.Max-p.Min))
			params[p.ID] = min(p.Max, max(p.Min, v))
		}

		r, err := sim.Run(ctx, sim.EnsembleConfig{
			Model:   cfg.Model,
			Params:  params,
			Ticks:   cfg.Ticks,
			Dt:      cfg.Dt,
			Metrics: func() []sim.Metric { return metrics.ForModel(cfg.Model) },
		}, cfg.Seed+uint64(trial))
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		results = append(results, MonteCarloResult{TrialID: trial, Params: params, Value: r.Metrics[cfg.Metric]})
	}
	return results, nil
}

// MonteCarloStats counts trials at or above threshold and below it.
func MonteCarloStats(results []MonteCarloResult, threshold float64) (above int, below int) {
	for _, r := range results {
		if r.Value >= threshold {
			above++
		} else {
			below++
		}
	}
	return
}
