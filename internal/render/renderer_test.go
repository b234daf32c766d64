package render

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
)

type op struct {
	kind  string
	x, y  float64
	r     float64
	alpha float64
	text  string
}

// recorder is a Surface that remembers every call.
type recorder struct {
	w, h float64
	ops  []op
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) Gradient(_, _ colorful.Color) {
	r.ops = append(r.ops, op{kind: "gradient"})
}
func (r *recorder) Line(x0, y0, _, _, _ float64, _ colorful.Color, a float64) {
	r.ops = append(r.ops, op{kind: "line", x: x0, y: y0, alpha: a})
}
func (r *recorder) Circle(x, y, rad float64, _ colorful.Color, a float64) {
	r.ops = append(r.ops, op{kind: "circle", x: x, y: y, r: rad, alpha: a})
}
func (r *recorder) Ring(x, y, rad, _ float64, _ colorful.Color, a float64) {
	r.ops = append(r.ops, op{kind: "ring", x: x, y: y, r: rad, alpha: a})
}
func (r *recorder) Text(x, y float64, s string, _ colorful.Color) {
	r.ops = append(r.ops, op{kind: "text", x: x, y: y, text: s})
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

func frameFor(t *testing.T, id dynamo.ModelID, elapsed float64) Frame {
	t.Helper()
	m, err := catalog.Default().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	b := dynamo.Bounds{Width: 800, Height: 500}
	rule, _ := physics.For(id, 1)
	params := m.Defaults()
	f := Frame{
		Model:     id,
		Elapsed:   elapsed,
		Bounds:    b,
		Particles: physics.CreatePopulation(rule, params, b, dynamo.NewRand(1)),
		Params:    params,
	}
	if fp, ok := rule.(physics.FlowProvider); ok {
		f.Flow = fp.Flow()
	}
	if cp, ok := rule.(physics.CaptureProvider); ok {
		f.Capture = cp.Reach()
	}
	return f
}

func TestDraw_SurfaceUnavailable(t *testing.T) {
	r := New(dynamo.OilSpill)
	f := frameFor(t, dynamo.OilSpill, 0)

	if err := r.Draw(nil, f); !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
		t.Errorf("nil surface: got %v", err)
	}
	for _, size := range [][2]float64{{0, 100}, {100, 0}, {math.NaN(), 10}} {
		rec := &recorder{w: size[0], h: size[1]}
		if err := r.Draw(rec, f); !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
			t.Errorf("size %v: got %v", size, err)
		}
		if len(rec.ops) != 0 {
			t.Errorf("size %v: drew %d ops on unusable surface", size, len(rec.ops))
		}
	}
}

func TestDraw_Order(t *testing.T) {
	f := frameFor(t, dynamo.FoodChain, 1)
	rec := &recorder{w: 800, h: 500}
	if err := New(dynamo.FoodChain).Draw(rec, f); err != nil {
		t.Fatal(err)
	}
	if rec.ops[0].kind != "gradient" {
		t.Fatalf("first op %q, want gradient", rec.ops[0].kind)
	}
	waves := 3 * waveSegments
	for i := 1; i <= waves; i++ {
		if rec.ops[i].kind != "line" {
			t.Fatalf("op %d = %q, want wave line", i, rec.ops[i].kind)
		}
	}
	for i := range f.Particles {
		if got := rec.ops[1+waves+i]; got.kind != "circle" {
			t.Fatalf("op %d = %q, want particle circle", 1+waves+i, got.kind)
		}
	}
	if rec.count("text") != physics.TrophicLevels {
		t.Errorf("ladder drew %d labels, want %d", rec.count("text"), physics.TrophicLevels)
	}
}

func TestDraw_DoesNotMutateFrame(t *testing.T) {
	for _, id := range catalog.Default().IDs() {
		f := frameFor(t, id, 2.5)
		before := dynamo.CloneParticles(f.Particles)
		if err := New(id).Draw(&recorder{w: 400, h: 250}, f); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(before, f.Particles) {
			t.Errorf("%s: Draw mutated particles", id)
		}
	}
}

func TestDraw_ScalesToSurface(t *testing.T) {
	f := Frame{
		Bounds:    dynamo.Bounds{Width: 800, Height: 500},
		Particles: []dynamo.Particle{{X: 400, Y: 250, Size: 4, Life: 1, MaxLife: 1}},
	}
	rec := &recorder{w: 400, h: 250}
	if err := New("").Draw(rec, f); err != nil {
		t.Fatal(err)
	}
	c := rec.ops[len(rec.ops)-1]
	if c.kind != "circle" || c.x != 200 || c.y != 125 || c.r != 2 {
		t.Errorf("unexpected scaled circle %+v", c)
	}
}

func TestParticleAlpha(t *testing.T) {
	tests := []struct {
		life, max, want float64
	}{
		{10, 10, 1},
		{5, 10, 0.625},
		{0.0001, 10, 0.2500075},
		{0, 0, 0.25},
	}
	for _, tt := range tests {
		got := ParticleAlpha(dynamo.Particle{Life: tt.life, MaxLife: tt.max})
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("alpha(%v/%v) = %v, want %v", tt.life, tt.max, got, tt.want)
		}
	}
}

func TestSpillRadius_Grows(t *testing.T) {
	b := dynamo.Bounds{Width: 800, Height: 500}
	prev := SpillRadius(b, 0.5, 0)
	for _, el := range []float64{1, 2, 5} {
		r := SpillRadius(b, 0.5, el)
		if r <= prev {
			t.Errorf("radius at %vs = %v, not above %v", el, r, prev)
		}
		prev = r
	}
	if SpillRadius(b, 0.5, 1e6) > 0.45*500 {
		t.Error("radius must be capped")
	}
	if SpillRadius(b, 1, 3) >= SpillRadius(b, 0.1, 3) {
		t.Error("viscous oil must spread slower")
	}
}

func TestCurrentArrows_Grid(t *testing.T) {
	f := frameFor(t, dynamo.PlasticDispersal, 0)
	f.Particles = nil
	rec := &recorder{w: 800, h: 500}
	OverlayFor(dynamo.PlasticDispersal).Draw(rec, f, newView(f, 800, 500))
	if got := rec.count("line"); got != 8*5*3 {
		t.Errorf("drew %d arrow strokes, want %d", got, 8*5*3)
	}

	f.Flow = nil
	rec = &recorder{w: 800, h: 500}
	OverlayFor(dynamo.PlasticDispersal).Draw(rec, f, newView(f, 800, 500))
	if len(rec.ops) != 0 {
		t.Error("no flow field must mean no arrows")
	}
}

type fixedFlow struct{}

func (fixedFlow) Sample(_, _, _ float64) r2.Vec { return r2.Vec{X: 1} }

func TestCurrentArrows_FollowFlow(t *testing.T) {
	f := Frame{Bounds: dynamo.Bounds{Width: 80, Height: 50}, Flow: fixedFlow{}}
	rec := &recorder{w: 80, h: 50}
	currentArrows{cols: 1, rows: 1}.Draw(rec, f, newView(f, 80, 50))
	if rec.ops[0].x != 40 || rec.ops[0].y != 25 {
		t.Errorf("arrow starts at (%v, %v), want cell centre", rec.ops[0].x, rec.ops[0].y)
	}
}

func TestSweepPath_RingsPerAgent(t *testing.T) {
	f := frameFor(t, dynamo.Cleanup, 0)
	agents := 0
	for _, p := range f.Particles {
		if p.Category == dynamo.CleaningAgent {
			agents++
		}
	}
	rec := &recorder{w: 800, h: 500}
	OverlayFor(dynamo.Cleanup).Draw(rec, f, newView(f, 800, 500))
	if rec.count("ring") != agents {
		t.Errorf("drew %d capture rings, want %d", rec.count("ring"), agents)
	}
}

func TestSweepPath_RingRadiusFollowsRule(t *testing.T) {
	tests := []struct {
		capture, want float64
	}{
		{0, physics.CaptureRadius},
		{physics.CaptureRadius, physics.CaptureRadius},
		{90, 90},
	}
	for _, tt := range tests {
		f := frameFor(t, dynamo.Cleanup, 0)
		f.Capture = tt.capture
		rec := &recorder{w: 800, h: 500}
		OverlayFor(dynamo.Cleanup).Draw(rec, f, newView(f, 800, 500))
		for _, o := range rec.ops {
			if o.kind == "ring" && math.Abs(o.r-tt.want) > 1e-9 {
				t.Errorf("capture %v: ring radius %v, want %v", tt.capture, o.r, tt.want)
			}
		}
	}
}

func TestOverlayFor_Unknown(t *testing.T) {
	if OverlayFor("kelp") != nil {
		t.Error("unknown model must have no overlay")
	}
}
