package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/oceansim/internal/experiment"
	"github.com/san-kum/oceansim/internal/export"
	"github.com/san-kum/oceansim/internal/storage"
)

var (
	pngPath string
	noSave  bool
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation headlessly and report its metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(cmd)
	cmd.Flags().StringVar(&pngPath, "png", "", "write a metric chart to this PNG file")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	x := experiment.New(*cfg, logger)
	if err := x.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %.1fs (dt %.4f, seed %d)...\n", cfg.Model, cfg.Duration, cfg.Dt, cfg.Seed)
	start := time.Now()
	run, err := x.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("ticks: %d, simulated: %.2fs\n", run.Ticks, run.Duration)

	printMetrics(run.Metrics)
	plotSeries(run.Series)

	if pngPath != "" {
		if err := export.SaveChart(pngPath, cfg.Model, run.Series, run.Dt); err != nil {
			return err
		}
		fmt.Printf("chart: %s\n", pngPath)
	}
	if !noSave {
		id, err := storage.New(dataDir).Save(*run)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

func printMetrics(ms map[string]float64) {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, ms[name])
	}
}

func plotSeries(series map[string][]float64) {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		))
	}
}

func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tTIME\tSIMULATED\tDT\tSEED\tTICKS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
					run.ID,
					run.Model,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Seed,
					run.Ticks,
				)
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := storage.New(dataDir).Get(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("run: %s\nmodel: %s\nticks: %d\n", run.ID, run.Model, run.Ticks)
			plotSeries(run.Series)
			if pngPath != "" {
				if err := export.SaveChart(pngPath, run.ID, run.Series, run.Dt); err != nil {
					return err
				}
				fmt.Printf("chart: %s\n", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write the chart to this PNG file")
	return cmd
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := storage.New(dataDir).Get(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(os.Stdout, run)
		},
	}
}
