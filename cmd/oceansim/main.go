package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/oceansim/internal/config"
	"github.com/san-kum/oceansim/internal/dynamo"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	seed       uint64

	dt        float64
	duration  float64
	speed     float64
	preset    string
	overrides map[string]string
)

// main registers the commands and runs the root command. With no
// subcommand the terminal UI opens on the configured model.
func main() {
	rootCmd := &cobra.Command{
		Use:           "oceansim",
		Short:         "marine pollution particle simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", ".oceansim", "directory for stored runs")
	pf.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	pf.Uint64Var(&seed, "seed", config.DefaultSeed, "population seed")
	addLiveFlags(rootCmd, "oceansim.log")

	rootCmd.AddCommand(
		modelsCmd(), paramsCmd(), presetsCmd(),
		runCmd(), runsCmd(), plotCmd(), exportJSONCmd(),
		liveCmd(), guiCmd(), frameCmd(), analyzeCmd(),
		sweepCmd(), ensembleCmd(), monteCarloCmd(), optimizeCmd(),
		scriptCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// addRunFlags registers the flags every simulation command shares.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in host seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in host seconds")
	cmd.Flags().Float64Var(&speed, "speed", 1, "speed multiplier (0.25 to 4)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "parameter overrides, e.g. --set viscosity=0.8")
}

func newLogger(w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "oceansim",
		ReportTimestamp: true,
	}), nil
}

// loadConfig resolves the run configuration: defaults, then the config
// file, then the model argument and preset, then flags that were set
// explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	flags := cmd.Flags()
	if flags.Lookup("preset") != nil && preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg.Apply(p)
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if len(overrides) > 0 {
		params := make(map[string]float64, len(cfg.Params)+len(overrides))
		for k, v := range cfg.Params {
			params[k] = v
		}
		for k, s := range overrides {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("--set %s: %w", k, err)
			}
			params[k] = v
		}
		cfg.Params = params
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func modelArg(args []string) dynamo.ModelID {
	if len(args) == 0 {
		return ""
	}
	return dynamo.ModelID(args[0])
}
