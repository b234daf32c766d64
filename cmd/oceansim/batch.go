package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/oceansim/internal/analysis"
	"github.com/san-kum/oceansim/internal/automation"
	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/config"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/export"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/optim"
	"github.com/san-kum/oceansim/internal/sim"
)

var workers int

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func sweepCmd() *cobra.Command {
	var (
		lo, hi       float64
		steps, seeds int
		metric       string
	)
	cmd := &cobra.Command{
		Use:   "sweep [model] [param]",
		Short: "sweep one parameter across its range and report a metric",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args[:1])
			if err != nil {
				return err
			}
			id := dynamo.ModelID(cfg.Model)
			if metric == "" {
				metric = metrics.Headline(id)
			}
			sw := &automation.ParameterSweep{
				Model:     id,
				Param:     args[1],
				Min:       lo,
				Max:       hi,
				Steps:     steps,
				Seeds:     seeds,
				SeedStart: cfg.Seed,
				Ticks:     cfg.Ticks(),
				Dt:        cfg.Dt,
				Metric:    metric,
				Params:    cfg.Params,
				Workers:   workers,
			}

			ctx, stop := interruptible()
			defer stop()
			start := time.Now()
			points, err := automation.RunSweep(ctx, sw)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s vs %s (%d seeds, %d ticks) in %v\n\n",
				cfg.Model, metric, sw.Param, max(seeds, 1), sw.Ticks, time.Since(start).Round(time.Millisecond))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tMEAN\tSTDDEV\n", sw.Param)
			for _, p := range points {
				mean, std := stat.MeanStdDev(p.Values, nil)
				if len(p.Values) < 2 {
					std = 0
				}
				fmt.Fprintf(w, "%.4g\t%.6f\t%.6f\n", p.Param, mean, std)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(analysis.ResponseToASCII(points, 60, 16))
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Float64Var(&lo, "min", 0, "lowest value (default: parameter minimum)")
	cmd.Flags().Float64Var(&hi, "max", 0, "highest value (default: parameter maximum)")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of values")
	cmd.Flags().IntVar(&seeds, "seeds", 3, "seeds per value")
	cmd.Flags().StringVar(&metric, "metric", "", "metric to record (default: the model's headline metric)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 means unlimited)")
	return cmd
}

func ensembleCmd() *cobra.Command {
	var runs int
	cmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run many seeds of one configuration and summarise them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			id := dynamo.ModelID(cfg.Model)

			ctx, stop := interruptible()
			defer stop()
			start := time.Now()
			results, err := sim.Ensemble(ctx, sim.EnsembleConfig{
				Model:     id,
				Params:    cfg.Params,
				Runs:      runs,
				SeedStart: cfg.Seed,
				Ticks:     cfg.Ticks(),
				Dt:        cfg.Dt,
				Speed:     cfg.Speed,
				Bounds:    cfg.Bounds(),
				Metrics:   func() []sim.Metric { return metrics.ForModel(id) },
				Workers:   workers,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d runs, seeds %d..%d, in %v\n\n",
				cfg.Model, runs, cfg.Seed, cfg.Seed+uint64(runs)-1, time.Since(start).Round(time.Millisecond))
			return printStats(sim.Summarize(results))
		},
	}
	addRunFlags(cmd)
	cmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 means unlimited)")
	return cmd
}

func printStats(stats []sim.Stats) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", s.Name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func monteCarloCmd() *cobra.Command {
	var (
		trials       int
		perturbation float64
		metric       string
		threshold    float64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "perturb every parameter around its default and count outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			id := dynamo.ModelID(cfg.Model)
			if metric == "" {
				metric = metrics.Headline(id)
			}

			ctx, stop := interruptible()
			defer stop()
			results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Model:        id,
				Perturbation: perturbation,
				NumTrials:    trials,
				Ticks:        cfg.Ticks(),
				Dt:           cfg.Dt,
				Seed:         cfg.Seed,
				Metric:       metric,
			})
			if err != nil {
				return err
			}

			values := make([]float64, len(results))
			for i, r := range results {
				values[i] = r.Value
			}
			mean, std := stat.MeanStdDev(values, nil)
			above, below := automation.MonteCarloStats(results, threshold)
			fmt.Printf("%s: %d trials, ±%.0f%% of each range\n", cfg.Model, len(results), perturbation*100)
			fmt.Printf("  %s mean %.6f stddev %.6f\n", metric, mean, std)
			fmt.Printf("  >= %g: %d\n  <  %g: %d\n", threshold, above, threshold, below)
			plotSeries(map[string][]float64{metric + " by trial": values})
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	cmd.Flags().Float64Var(&perturbation, "perturbation", 0.1, "jitter as a fraction of each parameter's range")
	cmd.Flags().StringVar(&metric, "metric", "", "metric to record (default: the model's headline metric)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "outcome threshold")
	return cmd
}

func scriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			ctx, stop := interruptible()
			defer stop()
			b := config.DefaultConfig().Bounds()
			res, err := automation.RunScenario(ctx, sc, logger, sim.WithBounds(b))
			if err != nil {
				return err
			}

			fmt.Printf("scenario: %s (%s)\n", res.Name, sc.Model)
			if sc.Description != "" {
				fmt.Println(sc.Description)
			}
			for _, ev := range res.Events {
				status := "ok"
				if ev.Err != nil {
					status = ev.Err.Error()
				}
				fmt.Printf("  %7.2fs  tick %-6d %-6s %s\n", ev.At, ev.Tick, ev.Action, status)
			}
			fmt.Printf("final: %s at %.2fs, %d particles\n", res.Final.Phase, res.Final.Elapsed, len(res.Final.Particles))
			printMetrics(res.Metrics)
			plotSeries(res.Series)
			if pngPath != "" {
				if err := export.SaveChart(pngPath, res.Name, res.Series, sc.Dt); err != nil {
					return err
				}
				fmt.Printf("chart: %s\n", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write a metric chart to this PNG file")
	return cmd
}

func optimizeCmd() *cobra.Command {
	var (
		params   []string
		steps    int
		metric   string
		maximize bool
	)
	cmd := &cobra.Command{
		Use:   "optimize [model]",
		Short: "grid search parameters for the best value of a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			id := dynamo.ModelID(cfg.Model)
			if metric == "" {
				metric = metrics.Headline(id)
			}
			m, err := catalog.Default().Get(id)
			if err != nil {
				return err
			}
			defaults := m.Defaults()

			ranges := make([][]float64, len(params))
			for i, name := range params {
				p, ok := defaults.Get(name)
				if !ok {
					return &dynamo.ParameterError{ID: name, Wrapped: dynamo.ErrUnknownParameter}
				}
				ranges[i] = optim.Linspace(p.Min, p.Max, steps)
			}
			g := optim.NewGridSearch(params, ranges)
			g.Maximize = maximize

			ctx, stop := interruptible()
			defer stop()
			best, all, err := g.Search(ctx, *cfg, metric)
			if err != nil {
				return err
			}
			goal := "minimum"
			if maximize {
				goal = "maximum"
			}
			fmt.Printf("%s: %s of %s over %d combinations\n", cfg.Model, goal, metric, len(all))
			for _, name := range params {
				fmt.Printf("  %s = %.4g\n", name, best.Params[name])
			}
			fmt.Printf("  %s = %.6f\n", metric, best.Value)
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringSliceVarP(&params, "param", "p", nil, "parameter to search (repeatable)")
	cmd.Flags().IntVar(&steps, "steps", 5, "values per parameter")
	cmd.Flags().StringVar(&metric, "metric", "", "objective metric (default: the model's headline metric)")
	cmd.Flags().BoolVar(&maximize, "maximize", false, "look for the largest value instead of the smallest")
	cmd.MarkFlagRequired("param")
	return cmd
}
