package physics

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
)

var testBounds = dynamo.Bounds{Width: 800, Height: 500}

func defaults(t *testing.T, id dynamo.ModelID) *dynamo.ParameterSet {
	t.Helper()
	m, err := catalog.Default().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return m.Defaults()
}

func TestFor_AllModels(t *testing.T) {
	for _, id := range catalog.Default().IDs() {
		r, err := For(id, 1)
		if err != nil {
			t.Fatalf("For(%s): %v", id, err)
		}
		if r.Model() != id {
			t.Errorf("For(%s) returned rule for %s", id, r.Model())
		}
		if _, ok := defaults(t, id).Get(r.CountParameter()); !ok {
			t.Errorf("%s count parameter %q not declared", id, r.CountParameter())
		}
	}
	if _, err := For("kelp", 1); !errors.Is(err, dynamo.ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestPopulationSize(t *testing.T) {
	tests := []struct {
		model dynamo.ModelID
		value float64
		want  int
	}{
		{dynamo.PlasticDispersal, 50, 100},
		{dynamo.PlasticDispersal, 150, 300},
		{dynamo.OilSpill, 100, 300},
		{dynamo.OilSpill, 10, 30},
		{dynamo.FoodChain, 30, 90},
		{dynamo.CoralBleaching, 40, 80},
		{dynamo.Cleanup, 60, 120},
	}
	for _, tt := range tests {
		r, _ := For(tt.model, 1)
		params, err := defaults(t, tt.model).With(r.CountParameter(), tt.value)
		if err != nil {
			t.Fatal(err)
		}
		if got := PopulationSize(r, params); got != tt.want {
			t.Errorf("%s(%v) = %d, want %d", tt.model, tt.value, got, tt.want)
		}
	}
}

func TestPopulationSize_Clamped(t *testing.T) {
	d := NewDispersal(1)
	d.Mult = 0
	if got := PopulationSize(d, defaults(t, dynamo.PlasticDispersal)); got != 1 {
		t.Errorf("zero multiplier gave %d particles, want 1", got)
	}
	d.Mult = 100
	if got := PopulationSize(d, defaults(t, dynamo.PlasticDispersal)); got != MaxParticles {
		t.Errorf("huge multiplier gave %d particles, want %d", got, MaxParticles)
	}
}

func TestCreatePopulation_Deterministic(t *testing.T) {
	for _, id := range catalog.Default().IDs() {
		params := defaults(t, id)
		ra, _ := For(id, 7)
		rb, _ := For(id, 7)
		a := CreatePopulation(ra, params, testBounds, dynamo.NewRand(42))
		b := CreatePopulation(rb, params, testBounds, dynamo.NewRand(42))
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: same seed gave different populations", id)
		}
		c := CreatePopulation(ra, params, testBounds, dynamo.NewRand(43))
		if reflect.DeepEqual(a, c) {
			t.Errorf("%s: different seeds gave identical populations", id)
		}
	}
}

func TestCreatePopulation_Invariants(t *testing.T) {
	for _, id := range catalog.Default().IDs() {
		params := defaults(t, id)
		r, _ := For(id, 3)
		ps := CreatePopulation(r, params, testBounds, dynamo.NewRand(9))
		if len(ps) != PopulationSize(r, params) {
			t.Errorf("%s: %d particles, want %d", id, len(ps), PopulationSize(r, params))
		}
		for i, p := range ps {
			if p.ID != i {
				t.Errorf("%s: particle %d has id %d", id, i, p.ID)
			}
			if !testBounds.Contains(p.X, p.Y) {
				t.Errorf("%s: particle %d at (%v, %v) outside surface", id, i, p.X, p.Y)
			}
			if p.Life <= 0 || p.Life > p.MaxLife {
				t.Errorf("%s: particle %d life %v of %v", id, i, p.Life, p.MaxLife)
			}
		}
	}
}

func TestAdvance_Bounds(t *testing.T) {
	for _, id := range catalog.Default().IDs() {
		params := defaults(t, id)
		r, _ := For(id, 5)
		ps := CreatePopulation(r, params, testBounds, dynamo.NewRand(5))
		elapsed := 0.0
		for tick := uint64(0); tick < 300; tick++ {
			elapsed += 0.05
			agents := AgentPositions(ps)
			for i, p := range ps {
				env := Env{Dt: 0.05, Elapsed: elapsed, Bounds: testBounds, Rand: dynamo.Stream(5, tick, p.ID), Agents: agents}
				before := p.Life
				p = Advance(r, p, params, env)
				if !testBounds.Contains(p.X, p.Y) {
					t.Fatalf("%s tick %d: particle %d escaped to (%v, %v)", id, tick, p.ID, p.X, p.Y)
				}
				if p.Life < 0 || p.Life > p.MaxLife || p.Life > before {
					t.Fatalf("%s tick %d: life %v -> %v (max %v)", id, tick, before, p.Life, p.MaxLife)
				}
				ps[i] = p
			}
		}
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	r := NewOilSpill()
	params := defaults(t, dynamo.OilSpill)
	ps := CreatePopulation(r, params, testBounds, dynamo.NewRand(1))
	orig := dynamo.CloneParticles(ps)
	env := Env{Dt: 0.016, Elapsed: 0.016, Bounds: testBounds, Rand: dynamo.Stream(1, 0, 0)}
	_ = Advance(r, ps[0], params, env)
	if !reflect.DeepEqual(ps, orig) {
		t.Error("Advance mutated the source slice")
	}
}

func TestMustHex(t *testing.T) {
	c := MustHex("#ff8000")
	r, g, b := c.RGB255()
	if r != 255 || g != 128 || b != 0 {
		t.Errorf("MustHex(#ff8000) = %d,%d,%d", r, g, b)
	}
	for _, p := range [][]colorful.Color{plasticPalette, oilPalette, coralPalette, debrisPalette, trophicColors} {
		for _, c := range p {
			if !c.IsValid() {
				t.Errorf("palette colour %v out of gamut", c)
			}
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("malformed hex must panic")
		}
	}()
	MustHex("teal")
}
