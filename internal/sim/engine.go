package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
	"github.com/san-kum/oceansim/internal/render"
)

// ParallelThreshold is the population above which a tick is split across
// goroutines.
const ParallelThreshold = 256

// DefaultBounds is the surface size used when none is given.
var DefaultBounds = dynamo.Bounds{Width: 800, Height: 500}

// Engine owns one simulation: the active model, its parameters and the
// particle state. All methods are safe for concurrent use; transport calls
// and ticks are serialised.
type Engine struct {
	mu sync.Mutex

	catalog *catalog.Registry
	log     *log.Logger
	seed    uint64
	bounds  dynamo.Bounds
	surface render.Surface

	model    *catalog.SimulationModel
	rule     physics.Rule
	renderer *render.Renderer
	params   atomic.Pointer[dynamo.ParameterSet]

	phase     Phase
	elapsed   float64
	speed     float64
	tick      uint64
	particles []dynamo.Particle
	pool      *ParticlePool
	parallel  int

	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	metrics   []Metric
	observers []Observer
}

type Option func(*Engine)

func WithSeed(seed uint64) Option { return func(e *Engine) { e.seed = seed } }

func WithBounds(b dynamo.Bounds) Option {
	return func(e *Engine) {
		if b.Valid() {
			e.bounds = b
		}
	}
}

// WithSurface sets the surface every tick is drawn on.
func WithSurface(s render.Surface) Option { return func(e *Engine) { e.surface = s } }

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithCatalog(r *catalog.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.catalog = r
		}
	}
}

// New builds an engine with id selected and stopped.
func New(id dynamo.ModelID, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog:  catalog.Default(),
		log:      log.New(io.Discard),
		seed:     1,
		bounds:   DefaultBounds,
		speed:    1,
		pool:     NewParticlePool(physics.MaxParticles),
		parallel: ParallelThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Select(id); err != nil {
		return nil, err
	}
	return e, nil
}

// Select makes id the active model with default parameters. On failure
// the previous model stays selected and the engine is left stopped.
func (e *Engine) Select(id dynamo.ModelID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &dynamo.TransitionError{Action: "select", Phase: "closed"}
	}

	m, err := e.catalog.Get(id)
	if err == nil {
		var rule physics.Rule
		rule, err = physics.For(id, e.seed)
		if err == nil {
			e.resetLocked()
			e.model = m
			e.rule = rule
			e.renderer = render.New(id)
			e.params.Store(m.Defaults())
			e.log.Debug("model selected", "model", id)
			return nil
		}
	}
	e.resetLocked()
	e.log.Warn("model selection refused", "model", id, "err", err)
	return err
}

// Play starts or resumes the run and returns its token. From Stopped the
// population is seeded first. Playing while running returns the live token.
func (e *Engine) Play() Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.model == nil {
		return Token{}
	}
	switch e.phase {
	case Running:
		return e.tokenLocked()
	case Stopped:
		e.particles = physics.CreatePopulation(e.rule, e.params.Load(), e.bounds, dynamo.NewRand(e.seed))
		e.log.Debug("population seeded", "model", e.model.ID, "count", len(e.particles))
	}
	e.phase = Running
	e.gen++
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e.tokenLocked()
}

// Pause freezes a running simulation. It is a no-op in any other phase.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != Running {
		e.log.Debug("ignored", "err", &dynamo.TransitionError{Action: "pause", Phase: e.phase.String()})
		return
	}
	e.phase = Paused
	e.cancelLocked()
}

// Reset discards particles and elapsed time but keeps the model and its
// parameters.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.cancelLocked()
	e.phase = Stopped
	e.elapsed = 0
	e.tick = 0
	e.pool.Put(e.particles)
	e.particles = nil
	for _, m := range e.metrics {
		m.Reset()
	}
}

// Close tears the engine down. Every token is cancelled and later calls
// are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.resetLocked()
	e.closed = true
	e.surface = nil
	e.log.Debug("engine closed")
}

func (e *Engine) cancelLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) tokenLocked() Token {
	if e.ctx == nil || e.cancel == nil {
		return Token{}
	}
	return Token{ctx: e.ctx, gen: e.gen}
}

// Token returns the live run token, cancelled unless running.
func (e *Engine) Token() Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tokenLocked()
}

// Tick advances the simulation by dt host seconds. It does nothing unless
// the engine is running.
func (e *Engine) Tick(dt float64) {
	_ = e.Advance(dt)
}

// TickWith ticks only if tok is still the live token. It reports whether
// a tick happened.
func (e *Engine) TickWith(tok Token, dt float64) bool {
	if !tok.Valid() {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if tok.gen != e.gen || !tok.Valid() {
		return false
	}
	return e.advanceLocked(dt) == nil
}

// Advance is Tick with the reason for a skipped tick reported.
func (e *Engine) Advance(dt float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advanceLocked(dt)
}

func (e *Engine) advanceLocked(dt float64) error {
	if e.closed {
		return &dynamo.TransitionError{Action: "tick", Phase: "closed"}
	}
	if e.phase != Running {
		return &dynamo.TransitionError{Action: "tick", Phase: e.phase.String()}
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("tick: invalid dt %v: %w", dt, dynamo.ErrInvalidTransition)
	}

	step := dt * e.speed
	next, err := e.stepLocked(step, e.elapsed+step, e.tick)
	if err != nil {
		e.log.Error("tick failed, state kept", "model", e.model.ID, "tick", e.tick, "err", err)
		return err
	}
	e.pool.Put(e.particles)
	e.particles = next
	e.elapsed += step
	e.tick++

	frame := e.frameLocked()
	e.drawLocked(e.surface, frame)
	for _, m := range e.metrics {
		e.notify("metric", func() { m.Observe(frame) })
	}
	for _, o := range e.observers {
		e.notify("observer", func() { o.OnFrame(frame) })
	}
	return nil
}

// notify runs one metric or observer callback. A panic is logged and the
// remaining callbacks still run.
func (e *Engine) notify(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("frame callback failed", "kind", kind, "tick", e.tick, "err", r)
		}
	}()
	fn()
}

// stepLocked computes the next population into a fresh slice. The
// current slice is only read.
func (e *Engine) stepLocked(dt, elapsed float64, tick uint64) ([]dynamo.Particle, error) {
	cur := e.particles
	params := e.params.Load()
	agents := physics.AgentPositions(cur)
	next := e.pool.Get(len(cur))

	var (
		failMu sync.Mutex
		failed error
	)
	work := func(start, end int) {
		defer func() {
			if r := recover(); r != nil {
				failMu.Lock()
				failed = fmt.Errorf("physics panic: %v", r)
				failMu.Unlock()
			}
		}()
		for i := start; i < end; i++ {
			env := physics.Env{
				Dt:      dt,
				Elapsed: elapsed,
				Bounds:  e.bounds,
				Rand:    dynamo.Stream(e.seed, tick, cur[i].ID),
				Agents:  agents,
			}
			next[i] = physics.Advance(e.rule, cur[i], params, env)
		}
	}
	if len(cur) > e.parallel {
		dynamo.ParallelFor(len(cur), 64, work)
	} else {
		work(0, len(cur))
	}
	if failed != nil {
		e.pool.Put(next)
		return nil, failed
	}

	live := next[:0]
	for _, p := range next {
		if p.Alive() {
			live = append(live, p)
		}
	}
	return live, nil
}

func (e *Engine) frameLocked() render.Frame {
	f := render.Frame{
		Elapsed:   e.elapsed,
		Bounds:    e.bounds,
		Particles: e.particles,
		Params:    e.params.Load(),
	}
	if e.model != nil {
		f.Model = e.model.ID
	}
	if fp, ok := e.rule.(physics.FlowProvider); ok {
		f.Flow = fp.Flow()
	}
	if cp, ok := e.rule.(physics.CaptureProvider); ok {
		f.Capture = cp.Reach()
	}
	return f
}

func (e *Engine) drawLocked(s render.Surface, f render.Frame) (err error) {
	if s == nil || e.renderer == nil {
		return dynamo.ErrSurfaceUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
			e.log.Error("draw failed", "err", err)
		}
	}()
	if err = e.renderer.Draw(s, f); err != nil {
		e.log.Debug("draw skipped", "err", err)
	}
	return err
}

// Draw paints the current state onto s without advancing it.
func (e *Engine) Draw(s render.Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drawLocked(s, e.frameLocked())
}

// SetSpeed sets the time multiplier, clamped to [MinSpeed, MaxSpeed].
func (e *Engine) SetSpeed(m float64) {
	if math.IsNaN(m) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = math.Max(MinSpeed, math.Min(MaxSpeed, m))
}

func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetParameter swaps in a parameter set with id set to v. A rejected
// edit leaves the current set in place.
func (e *Engine) SetParameter(id string, v float64) error {
	for {
		cur := e.params.Load()
		next, err := cur.With(id, v)
		if err != nil {
			e.log.Debug("parameter rejected", "id", id, "value", v, "err", err)
			return err
		}
		if e.params.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

// SetParameters applies several edits as one swap.
func (e *Engine) SetParameters(values map[string]float64) error {
	for {
		cur := e.params.Load()
		next, err := cur.WithValues(values)
		if err != nil {
			return err
		}
		if e.params.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

// Parameters returns the live parameter set. Sets are immutable.
func (e *Engine) Parameters() *dynamo.ParameterSet { return e.params.Load() }

func (e *Engine) Model() *catalog.SimulationModel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model
}

func (e *Engine) Catalog() *catalog.Registry { return e.catalog }

func (e *Engine) Rule() physics.Rule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rule
}

func (e *Engine) Bounds() dynamo.Bounds {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bounds
}

// SetSurface replaces the surface ticks are drawn on. nil disables drawing.
func (e *Engine) SetSurface(s render.Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.surface = s
	}
}

// Resize changes the simulation bounds. A change of size resets the run.
func (e *Engine) Resize(b dynamo.Bounds) error {
	if !b.Valid() {
		return fmt.Errorf("resize to %vx%v: %w", b.Width, b.Height, dynamo.ErrSurfaceUnavailable)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if b == e.bounds {
		return nil
	}
	e.bounds = b
	e.resetLocked()
	e.log.Debug("resized", "width", b.Width, "height", b.Height)
	return nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := State{
		Phase:     e.phase,
		Elapsed:   e.elapsed,
		Speed:     e.speed,
		Tick:      e.tick,
		Particles: dynamo.CloneParticles(e.particles),
	}
	if e.model != nil {
		s.Model = e.model.ID
	}
	return s
}

// Frame returns a copy of the current frame, safe to keep.
func (e *Engine) Frame() render.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.frameLocked()
	f.Particles = dynamo.CloneParticles(f.Particles)
	return f
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) AddMetric(m Metric) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = append(e.metrics, m)
}

// SetMetrics replaces every registered metric with ms.
func (e *Engine) SetMetrics(ms ...Metric) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = append([]Metric(nil), ms...)
}

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Metrics returns the current value of every registered metric.
func (e *Engine) Metrics() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
