package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
	"github.com/san-kum/oceansim/internal/render"
)

func newEngine(t *testing.T, id dynamo.ModelID, opts ...Option) *Engine {
	t.Helper()
	e, err := New(id, opts...)
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestNew_UnknownModel(t *testing.T) {
	if _, err := New("kelp"); !errors.Is(err, dynamo.ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestSelect_UnknownKeepsModel(t *testing.T) {
	e := newEngine(t, dynamo.OilSpill)
	e.Play()
	e.Tick(0.016)

	err := e.Select("kelp")
	if !errors.Is(err, dynamo.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	st := e.Snapshot()
	if st.Model != dynamo.OilSpill {
		t.Errorf("model changed to %q", st.Model)
	}
	if st.Phase != Stopped || len(st.Particles) != 0 {
		t.Errorf("engine not stopped after refused selection: %v with %d particles", st.Phase, len(st.Particles))
	}
}

func TestTransitions(t *testing.T) {
	e := newEngine(t, dynamo.FoodChain)

	if err := e.Advance(0.016); !errors.Is(err, dynamo.ErrInvalidTransition) {
		t.Errorf("tick while stopped: %v", err)
	}
	e.Pause()
	if e.Phase() != Stopped {
		t.Errorf("pause from stopped moved to %v", e.Phase())
	}

	tok := e.Play()
	if e.Phase() != Running || !tok.Valid() {
		t.Fatalf("play: phase %v, token valid %v", e.Phase(), tok.Valid())
	}
	if again := e.Play(); again.gen != tok.gen {
		t.Error("play while running must return the live token")
	}

	e.Pause()
	if tok.Valid() {
		t.Error("pause must cancel the token")
	}
	if err := e.Advance(0.016); !errors.Is(err, dynamo.ErrInvalidTransition) {
		t.Errorf("tick while paused: %v", err)
	}

	resumed := e.Play()
	if resumed.gen == tok.gen {
		t.Error("resume must hand out a new token")
	}
	if e.TickWith(tok, 0.016) {
		t.Error("stale token ticked")
	}
	if !e.TickWith(resumed, 0.016) {
		t.Error("live token did not tick")
	}

	e.Reset()
	if resumed.Valid() || e.Phase() != Stopped {
		t.Error("reset must stop and cancel")
	}
}

func TestAdvance_InvalidDt(t *testing.T) {
	e := newEngine(t, dynamo.Cleanup)
	e.Play()
	for _, dt := range []float64{0, -1} {
		if err := e.Advance(dt); !errors.Is(err, dynamo.ErrInvalidTransition) {
			t.Errorf("dt %v: got %v", dt, err)
		}
	}
	if e.Snapshot().Tick != 0 {
		t.Error("invalid dt must not tick")
	}
}

func TestClose(t *testing.T) {
	e, _ := New(dynamo.OilSpill)
	tok := e.Play()
	e.Close()
	if tok.Valid() {
		t.Error("close must cancel the token")
	}
	if e.Play().Valid() {
		t.Error("play after close must return a dead token")
	}
	e.Tick(0.016)
	if e.Snapshot().Tick != 0 {
		t.Error("tick after close")
	}
	e.Close()
}

func TestSetSpeed_Clamped(t *testing.T) {
	e := newEngine(t, dynamo.OilSpill)
	tests := []struct{ in, want float64 }{
		{1, 1}, {0.1, MinSpeed}, {10, MaxSpeed}, {2.5, 2.5},
	}
	for _, tt := range tests {
		e.SetSpeed(tt.in)
		if got := e.Speed(); got != tt.want {
			t.Errorf("SetSpeed(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetParameter(t *testing.T) {
	e := newEngine(t, dynamo.OilSpill)
	before := e.Parameters()

	if err := e.SetParameter("viscosity", 5); !errors.Is(err, dynamo.ErrParameterOutOfRange) {
		t.Errorf("expected ErrParameterOutOfRange, got %v", err)
	}
	if e.Parameters() != before {
		t.Error("rejected edit replaced the set")
	}
	if err := e.SetParameter("salinity", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}

	if err := e.SetParameter("viscosity", 0.9); err != nil {
		t.Fatal(err)
	}
	if got := e.Parameters().Value("viscosity"); got != 0.9 {
		t.Errorf("viscosity = %v", got)
	}
	if before.Value("viscosity") != 0.5 {
		t.Error("old set was mutated")
	}
}

func TestResize(t *testing.T) {
	e := newEngine(t, dynamo.PlasticDispersal)
	e.Play()
	e.Tick(0.016)

	if err := e.Resize(dynamo.Bounds{Width: 0, Height: 10}); !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
		t.Errorf("zero width: %v", err)
	}
	if e.Phase() != Running {
		t.Error("rejected resize must not reset")
	}
	if err := e.Resize(dynamo.Bounds{Width: 400, Height: 300}); err != nil {
		t.Fatal(err)
	}
	if st := e.Snapshot(); st.Phase != Stopped || len(st.Particles) != 0 {
		t.Error("resize must reset")
	}
}

func TestParallelStepMatchesSequential(t *testing.T) {
	run := func(threshold int) State {
		e := newEngine(t, dynamo.PlasticDispersal, WithSeed(17))
		e.parallel = threshold
		if err := e.SetParameter("pollutant_density", 150); err != nil {
			t.Fatal(err)
		}
		tok := e.Play()
		RunFor(e, tok, 40, 0.016)
		return e.Snapshot()
	}
	seq := run(1 << 20)
	par := run(0)
	if len(seq.Particles) != physics.MaxParticles {
		t.Fatalf("expected %d particles, got %d", physics.MaxParticles, len(seq.Particles))
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel tick diverged from sequential tick")
	}
}

type panicRule struct{ physics.Rule }

func (panicRule) Step(dynamo.Particle, *dynamo.ParameterSet, physics.Env) dynamo.Particle {
	panic("boom")
}

func TestTick_RecoversPanics(t *testing.T) {
	e := newEngine(t, dynamo.FoodChain)
	tok := e.Play()
	before := e.Snapshot()

	e.mu.Lock()
	e.rule = panicRule{e.rule}
	e.mu.Unlock()

	if e.TickWith(tok, 0.016) {
		t.Error("panicking tick reported success")
	}
	after := e.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("failed tick changed state")
	}
}

// brokenSurface panics on the first draw call.
type brokenSurface struct{}

func (brokenSurface) Size() (float64, float64)                                { return 10, 10 }
func (brokenSurface) Gradient(_, _ colorful.Color)                            { panic("device lost") }
func (brokenSurface) Line(_, _, _, _, _ float64, _ colorful.Color, _ float64) {}
func (brokenSurface) Circle(_, _, _ float64, _ colorful.Color, _ float64)     {}
func (brokenSurface) Ring(_, _, _, _ float64, _ colorful.Color, _ float64)    {}
func (brokenSurface) Text(_, _ float64, _ string, _ colorful.Color)           {}

func TestTick_SurvivesRendererPanic(t *testing.T) {
	e := newEngine(t, dynamo.OilSpill, WithSurface(brokenSurface{}))
	tok := e.Play()
	if !e.TickWith(tok, 0.016) {
		t.Fatal("draw failure must not fail the tick")
	}
	if e.Snapshot().Tick != 1 {
		t.Error("physics did not advance")
	}
	if err := e.Draw(brokenSurface{}); err == nil {
		t.Error("Draw must report the recovered panic")
	}
	if err := e.Draw(nil); !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
		t.Errorf("nil surface: %v", err)
	}
}

type panicMetric struct{ countingMetric }

func (*panicMetric) Observe(render.Frame) { panic("metric") }

func TestTick_SurvivesCallbackPanics(t *testing.T) {
	e := newEngine(t, dynamo.OilSpill)
	e.AddMetric(&panicMetric{})
	e.AddObserver(ObserverFunc(func(render.Frame) { panic("observer") }))
	after := &countingMetric{}
	e.AddMetric(after)
	calls := 0
	e.AddObserver(ObserverFunc(func(render.Frame) { calls++ }))

	tok := e.Play()
	if !e.TickWith(tok, 0.016) {
		t.Fatal("callback failure must not fail the tick")
	}
	if e.Snapshot().Tick != 1 {
		t.Error("physics did not advance")
	}
	if after.n != 1 || calls != 1 {
		t.Errorf("later callbacks skipped: metric %d observer %d", after.n, calls)
	}
}

func TestFrame_CarriesCaptureRadius(t *testing.T) {
	e := newEngine(t, dynamo.Cleanup)
	e.mu.Lock()
	e.rule.(*physics.Cleanup).CaptureRadius = 75
	e.mu.Unlock()
	if got := e.Frame().Capture; got != 75 {
		t.Errorf("frame capture radius %v, want 75", got)
	}
	if err := e.Select(dynamo.OilSpill); err != nil {
		t.Fatal(err)
	}
	if got := e.Frame().Capture; got != 0 {
		t.Errorf("oil spill frame capture radius %v, want 0", got)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	e := newEngine(t, dynamo.CoralBleaching)
	e.Play()
	s := e.Snapshot()
	s.Particles[0].X = -100
	if e.Snapshot().Particles[0].X == -100 {
		t.Error("snapshot shares particles with the engine")
	}
}

type countingMetric struct{ n int }

func (m *countingMetric) Name() string         { return "frames" }
func (m *countingMetric) Observe(render.Frame) { m.n++ }
func (m *countingMetric) Value() float64       { return float64(m.n) }
func (m *countingMetric) Reset()               { m.n = 0 }

func TestMetricsAndObservers(t *testing.T) {
	e := newEngine(t, dynamo.OilSpill)
	m := &countingMetric{}
	e.AddMetric(m)
	var seen []float64
	e.AddObserver(ObserverFunc(func(f render.Frame) { seen = append(seen, f.Elapsed) }))

	tok := e.Play()
	RunFor(e, tok, 5, 0.1)
	if e.Metrics()["frames"] != 5 {
		t.Errorf("metric saw %v frames", e.Metrics()["frames"])
	}
	if len(seen) != 5 || seen[4] < 0.49 {
		t.Errorf("observer saw %v", seen)
	}
	e.Reset()
	if m.n != 0 {
		t.Error("reset must reset metrics")
	}
}

func TestDrive_StopsOnPause(t *testing.T) {
	e := newEngine(t, dynamo.Cleanup)
	tok := e.Play()
	done := make(chan error, 1)
	go func() { done <- Drive(context.Background(), e, tok, time.Millisecond, 0.016) }()

	time.Sleep(20 * time.Millisecond)
	e.Pause()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Drive returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Drive kept running after pause")
	}
	if e.Snapshot().Tick == 0 {
		t.Error("Drive never ticked")
	}
}

func TestDrive_StopsOnContext(t *testing.T) {
	e := newEngine(t, dynamo.Cleanup)
	tok := e.Play()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := Drive(ctx, e, tok, time.Millisecond, 0.016); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline, got %v", err)
	}
}

func TestToken_Zero(t *testing.T) {
	var tok Token
	if tok.Valid() {
		t.Error("zero token must be cancelled")
	}
	select {
	case <-tok.Done():
	default:
		t.Error("zero token Done must be closed")
	}
	if tok.Context().Err() == nil {
		t.Error("zero token context must be cancelled")
	}
}

func TestParticlePool(t *testing.T) {
	p := NewParticlePool(8)
	s := p.Get(5)
	if len(s) != 5 {
		t.Fatalf("len %d", len(s))
	}
	p.Put(s)
	if big := p.Get(100); len(big) != 100 {
		t.Errorf("oversized get returned len %d", len(big))
	}
	p.Put(nil)
}

func TestEnsemble(t *testing.T) {
	cfg := EnsembleConfig{
		Model:     dynamo.OilSpill,
		Params:    map[string]float64{"spill_volume": 20},
		Runs:      4,
		SeedStart: 10,
		Ticks:     30,
		Dt:        0.016,
		Metrics:   func() []Metric { return []Metric{&countingMetric{}} },
	}
	res, err := Ensemble(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range res {
		if r.Seed != 10+uint64(i) || r.Ticks != 30 || r.Population != 60 {
			t.Errorf("run %d: %+v", i, r)
		}
	}
	stats := Summarize(res)
	if len(stats) != 2 || stats[0].Name != "frames" || stats[1].Name != "population" {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats[1].Mean != 60 || stats[1].StdDev != 0 {
		t.Errorf("population stats %+v", stats[1])
	}

	cfg.Params = map[string]float64{"spill_volume": 1000}
	if _, err := Ensemble(context.Background(), cfg); !errors.Is(err, dynamo.ErrParameterOutOfRange) {
		t.Errorf("expected ErrParameterOutOfRange, got %v", err)
	}
}
