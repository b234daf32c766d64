package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/sim"
)

// Actions understood by a scenario step.
const (
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionReset = "reset"
	ActionSpeed = "speed"
)

// Scenario is a scripted run of one model.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Model       string             `yaml:"model"`
	Seed        uint64             `yaml:"seed"`
	Dt          float64            `yaml:"dt"`
	Duration    float64            `yaml:"duration"`
	Params      map[string]float64 `yaml:"params"`
	Steps       []ScenarioStep     `yaml:"steps"`
}

// ScenarioStep fires once the host clock reaches At seconds. Host time
// keeps running while paused, so a step can resume a paused run.
type ScenarioStep struct {
	At     float64            `yaml:"at"`
	Set    map[string]float64 `yaml:"set,omitempty"`
	Action string             `yaml:"action,omitempty"`
	Value  float64            `yaml:"value,omitempty"`
}

// Event records a step as it was applied.
type Event struct {
	At     float64
	Tick   int
	Action string
	Err    error
}

type ScenarioResult struct {
	Name    string
	Events  []Event
	Final   sim.State
	Metrics map[string]float64
	Series  map[string][]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Dt == 0 {
		sc.Dt = 1.0 / 60
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Model == "" {
		return fmt.Errorf("scenario %q: model is required", sc.Name)
	}
	if sc.Dt <= 0 || sc.Duration <= 0 {
		return fmt.Errorf("scenario %q: dt and duration must be positive", sc.Name)
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "", ActionPlay, ActionPause, ActionReset, ActionSpeed:
		default:
			return fmt.Errorf("scenario %q step %d: unknown action %q", sc.Name, i+1, st.Action)
		}
		if st.Action == "" && len(st.Set) == 0 {
			return fmt.Errorf("scenario %q step %d: nothing to do", sc.Name, i+1)
		}
	}
	return nil
}

// RunScenario executes sc on a fresh engine. Rejected parameter edits are
// recorded on their event and do not stop the run.
func RunScenario(ctx context.Context, sc *Scenario, logger *log.Logger, opts ...sim.Option) (*ScenarioResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	opts = append([]sim.Option{sim.WithSeed(sc.Seed), sim.WithLogger(logger)}, opts...)
	e, err := sim.New(dynamo.ModelID(sc.Model), opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	defer e.Close()

	if err := e.SetParameters(sc.Params); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	ms := metrics.ForModel(e.Model().ID)
	for _, m := range ms {
		e.AddMetric(m)
	}

	res := &ScenarioResult{Name: sc.Name}
	tok := e.Play()
	next := 0
	ticks := int(sc.Duration/sc.Dt + 0.5)
	for i := 0; i <= ticks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		now := float64(i) * sc.Dt
		for next < len(sc.Steps) && sc.Steps[next].At <= now+1e-9 {
			ev, t := apply(e, sc.Steps[next], tok)
			ev.At, ev.Tick = now, i
			tok = t
			res.Events = append(res.Events, ev)
			logger.Info("scenario step", "scenario", sc.Name, "at", now, "action", ev.Action, "err", ev.Err)
			next++
		}
		if i < ticks {
			e.TickWith(tok, sc.Dt)
		}
	}

	res.Final = e.Snapshot()
	res.Metrics = e.Metrics()
	res.Series = make(map[string][]float64, len(ms))
	for _, m := range ms {
		if h, ok := m.(metrics.History); ok {
			res.Series[m.Name()] = h.History()
		}
	}
	return res, nil
}

func apply(e *sim.Engine, st ScenarioStep, tok sim.Token) (Event, sim.Token) {
	ev := Event{Action: st.Action}
	if len(st.Set) > 0 {
		if ev.Action == "" {
			ev.Action = "set"
		}
		ev.Err = e.SetParameters(st.Set)
	}
	switch st.Action {
	case ActionPlay:
		tok = e.Play()
	case ActionPause:
		e.Pause()
	case ActionReset:
		e.Reset()
	case ActionSpeed:
		e.SetSpeed(st.Value)
	}
	return ev, tok
}
