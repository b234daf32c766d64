package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/oceansim/internal/config"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/gui"
	"github.com/san-kum/oceansim/internal/sim"
	"github.com/san-kum/oceansim/internal/viz"
)

var (
	fps   int
	theme string
)

// addLiveFlags registers the UI flags. logTo is the default log file;
// empty means stderr.
func addLiveFlags(cmd *cobra.Command, logTo string) {
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
	cmd.Flags().String("log-file", logTo, "log destination")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "parameter overrides, e.g. --set viscosity=0.8")
}

func liveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [model]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addLiveFlags(cmd, "oceansim.log")
	return cmd
}

func guiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui [model]",
		Short: "desktop window view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()
			gui.Run(s.ctl, "oceansim", s.cfg.FPS, s.log)
			return nil
		},
	}
	addLiveFlags(cmd, "")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()
	return viz.Run(s.ctl, viz.LiveConfig{Theme: s.cfg.Theme, FPS: s.cfg.FPS, Logger: s.log})
}

// session is one interactive engine plus its log destination.
type session struct {
	ctl *sim.Controls
	cfg *config.Config
	log *log.Logger
	out io.Closer
}

func (s *session) Close() error {
	s.ctl.Engine().Close()
	if s.out != nil {
		return s.out.Close()
	}
	return nil
}

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	var w io.Writer = os.Stderr
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w, s.out = f, f
	}
	if s.log, err = newLogger(w); err != nil {
		s.closeOut()
		return nil, err
	}

	e, err := sim.New(dynamo.ModelID(cfg.Model),
		sim.WithSeed(cfg.Seed),
		sim.WithBounds(cfg.Bounds()),
		sim.WithLogger(s.log),
	)
	if err != nil {
		s.closeOut()
		return nil, err
	}
	if len(cfg.Params) > 0 {
		if err := e.SetParameters(cfg.Params); err != nil {
			e.Close()
			s.closeOut()
			return nil, err
		}
	}
	e.SetSpeed(cfg.Speed)
	s.ctl = sim.NewControls(e)
	s.log.Info("session started", "model", cfg.Model, "seed", cfg.Seed)
	return s, nil
}

func (s *session) closeOut() {
	if s.out != nil {
		s.out.Close()
	}
}
