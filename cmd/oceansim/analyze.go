package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/oceansim/internal/analysis"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/experiment"
	"github.com/san-kum/oceansim/internal/export"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/render"
	"github.com/san-kum/oceansim/internal/sim"
)

func frameCmd() *cobra.Command {
	var (
		out           string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "frame [model]",
		Short: "render the frame at --time seconds to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}

			e, err := sim.New(dynamo.ModelID(cfg.Model),
				sim.WithSeed(cfg.Seed),
				sim.WithBounds(cfg.Bounds()),
				sim.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer e.Close()
			if len(cfg.Params) > 0 {
				if err := e.SetParameters(cfg.Params); err != nil {
					return err
				}
			}
			e.SetSpeed(cfg.Speed)
			n := sim.RunFor(e, e.Play(), cfg.Ticks(), cfg.Dt)

			svg := export.NewSVG(float64(width), float64(height))
			if err := e.Draw(svg); err != nil {
				return err
			}
			if out == "" {
				out = cfg.Model + ".svg"
			}
			if err := svg.Save(out); err != nil {
				return err
			}
			fmt.Printf("%s after %d ticks (%.2fs): %s\n", cfg.Model, n, e.Snapshot().Elapsed, out)
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <model>.svg)")
	cmd.Flags().IntVar(&width, "width", 960, "image width")
	cmd.Flags().IntVar(&height, "height", 540, "image height")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		metric   string
		trackID  int
		trackSVG string
	)
	cmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "run headlessly and analyse a metric's dynamics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			id := dynamo.ModelID(cfg.Model)
			if metric == "" {
				metric = metrics.Headline(id)
			}
			if _, ok := metrics.Lookup(metrics.ForModel(id), metric); !ok {
				return fmt.Errorf("model %s has no metric %q", id, metric)
			}

			x := experiment.New(*cfg, logger)
			if err := x.Setup(); err != nil {
				return err
			}
			track := analysis.Track{ID: trackID}
			var last []dynamo.Particle
			x.Engine().AddObserver(sim.ObserverFunc(func(f render.Frame) {
				last = append(last[:0], f.Particles...)
				if trackID >= 0 {
					track.Record(f.Particles)
				}
			}))

			ctx, stop := interruptible()
			defer stop()
			run, err := x.Run(ctx)
			if err != nil {
				return err
			}

			series := run.Series[metric]
			rate := 1 / cfg.Dt
			fmt.Printf("%s: %s over %d ticks\n", cfg.Model, metric, len(series))
			fmt.Printf("  final:          %.6f\n", run.Metrics[metric])
			freq, power := analysis.DominantFrequency(series, rate)
			fmt.Printf("  dominant freq:  %.4f Hz (power %.4g)\n", freq, power)
			fmt.Printf("  period:         %.4f s\n", analysis.Period(series, rate))
			fmt.Printf("  growth rate:    %.6f /s\n", analysis.GrowthRate(series, cfg.Dt))
			fmt.Printf("  doubling time:  %.4f s\n", analysis.DoublingTime(series, cfg.Dt))
			plotSeries(map[string][]float64{metric: series})

			b := cfg.Bounds()
			fmt.Printf("\ndensity at %.2fs (%d particles):\n", run.Duration, len(last))
			fmt.Println(analysis.DensityMap(last, b, 60, 20))

			if trackID < 0 {
				return nil
			}
			if len(track.Points) == 0 {
				fmt.Printf("\nparticle %d never appeared\n", trackID)
				return nil
			}
			fmt.Printf("\ntrack of particle %d (%d points):\n", trackID, len(track.Points))
			fmt.Println(track.ToASCII(b, 60, 20))
			if trackSVG != "" {
				doc := export.TrackToSVG(track, b, 800, 450, "")
				if err := os.WriteFile(trackSVG, []byte(doc), 0o644); err != nil {
					return err
				}
				fmt.Printf("track svg: %s\n", trackSVG)
			}
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringVar(&metric, "metric", "", "metric to analyse (default: the model's headline metric)")
	cmd.Flags().IntVar(&trackID, "track", -1, "particle id to trace")
	cmd.Flags().StringVar(&trackSVG, "track-svg", "", "write the traced path to this SVG file")
	return cmd
}
