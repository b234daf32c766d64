// Package optim searches model parameters for the best value of a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/oceansim/internal/config"
	"github.com/san-kum/oceansim/internal/experiment"
)

var ErrNoCandidates = errors.New("optim: no parameter combinations")

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective; by default lower is better.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	out[n-1] = hi
	return out
}

// Result is one evaluated combination.
type Result struct {
	Params map[string]float64
	Value  float64
}

// Search runs base once per combination, overriding its parameters, and
// returns the best combination together with every evaluation in visit
// order.
func (g *GridSearch) Search(ctx context.Context, base config.Config, metricName string) (Result, []Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Result{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	s := &search{g: g, base: base, metric: metricName}
	s.best.Value = math.Inf(1)
	if g.Maximize {
		s.best.Value = math.Inf(-1)
	}
	if err := s.visit(ctx, 0, map[string]float64{}); err != nil {
		return Result{}, s.all, err
	}
	if len(s.all) == 0 {
		return Result{}, nil, ErrNoCandidates
	}
	return s.best, s.all, nil
}

type search struct {
	g      *GridSearch
	base   config.Config
	metric string
	best   Result
	all    []Result
}

func (s *search) visit(ctx context.Context, depth int, current map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(s.g.paramNames) {
		return s.evaluate(ctx, current)
	}

	name := s.g.paramNames[depth]
	for _, val := range s.g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		if err := s.visit(ctx, depth+1, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *search) evaluate(ctx context.Context, current map[string]float64) error {
	cfg := s.base
	cfg.Params = make(map[string]float64, len(s.base.Params)+len(current))
	for k, v := range s.base.Params {
		cfg.Params[k] = v
	}
	for k, v := range current {
		cfg.Params[k] = v
	}

	x := experiment.New(cfg, nil)
	if err := x.Setup(); err != nil {
		return fmt.Errorf("optim %v: %w", current, err)
	}
	run, err := x.Run(ctx)
	if err != nil {
		return fmt.Errorf("optim %v: %w", current, err)
	}
	val, ok := run.Metrics[s.metric]
	if !ok {
		return fmt.Errorf("optim: model %s has no metric %q", cfg.Model, s.metric)
	}

	r := Result{Params: current, Value: val}
	s.all = append(s.all, r)
	if (s.g.Maximize && val > s.best.Value) || (!s.g.Maximize && val < s.best.Value) {
		s.best = r
	}
	return nil
}
