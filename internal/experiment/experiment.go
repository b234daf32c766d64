// Package experiment runs one configured simulation headlessly and
// collects everything needed to store or plot it.
package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/oceansim/internal/config"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/sim"
	"github.com/san-kum/oceansim/internal/storage"
)

type Experiment struct {
	cfg     config.Config
	log     *log.Logger
	engine  *sim.Engine
	metrics []sim.Metric
}

func New(cfg config.Config, logger *log.Logger) *Experiment {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Experiment{cfg: cfg, log: logger}
}

// Setup validates the config and builds the engine with the model's
// metrics attached.
func (x *Experiment) Setup(opts ...sim.Option) error {
	if err := x.cfg.Validate(); err != nil {
		return err
	}
	opts = append([]sim.Option{
		sim.WithSeed(x.cfg.Seed),
		sim.WithBounds(x.cfg.Bounds()),
		sim.WithLogger(x.log),
	}, opts...)
	e, err := sim.New(dynamo.ModelID(x.cfg.Model), opts...)
	if err != nil {
		return err
	}
	if len(x.cfg.Params) > 0 {
		if err := e.SetParameters(x.cfg.Params); err != nil {
			e.Close()
			return err
		}
	}
	e.SetSpeed(x.cfg.Speed)
	x.metrics = metrics.ForModel(e.Model().ID)
	e.SetMetrics(x.metrics...)
	x.engine = e
	return nil
}

// Engine returns the underlying engine for adding observers.
func (x *Experiment) Engine() *sim.Engine { return x.engine }

// Run plays the engine for the configured duration and closes it.
func (x *Experiment) Run(ctx context.Context) (*storage.Run, error) {
	if x.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	defer x.engine.Close()

	ticks := x.cfg.Ticks()
	tok := x.engine.Play()
	n := 0
	for n < ticks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !x.engine.TickWith(tok, x.cfg.Dt) {
			break
		}
		n++
	}
	x.log.Debug("experiment finished", "model", x.cfg.Model, "ticks", n)

	st := x.engine.Snapshot()
	run := &storage.Run{
		RunMetadata: storage.RunMetadata{
			Model:    st.Model,
			Seed:     x.cfg.Seed,
			Dt:       x.cfg.Dt,
			Duration: st.Elapsed,
			Speed:    st.Speed,
			Ticks:    n,
			Params:   x.engine.Parameters().Values(),
			Metrics:  x.engine.Metrics(),
		},
		Series: make(map[string][]float64, len(x.metrics)),
	}
	for _, m := range x.metrics {
		if h, ok := m.(metrics.History); ok {
			run.Series[m.Name()] = h.History()
		}
	}
	return run, nil
}
