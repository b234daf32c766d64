package physics

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// MaxParticles caps every population.
const MaxParticles = 300

// Env is the read-only context of one particle step.
type Env struct {
	Dt      float64 // simulated seconds, already scaled by speed
	Elapsed float64
	Bounds  dynamo.Bounds
	Rand    *rand.Rand
	// Agents holds cleaning agent positions from the previous frame.
	Agents []r2.Vec
}

// Rule is the behaviour of one model variant.
type Rule interface {
	Model() dynamo.ModelID
	// CountParameter names the parameter that sizes the population.
	CountParameter() string
	Multiplier() float64
	Populate(n int, params *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle
	Step(p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle
	// Decay returns life lost per simulated second.
	Decay(p dynamo.Particle, params *dynamo.ParameterSet, env Env) float64
}

// FlowProvider is implemented by rules driven by a current field.
type FlowProvider interface {
	Flow() *CurrentField
}

// CaptureProvider is implemented by rules whose agents collect particles
// within a radius.
type CaptureProvider interface {
	Reach() float64
}

// For returns the rule for id. seed feeds rule-owned noise fields.
func For(id dynamo.ModelID, seed uint64) (Rule, error) {
	switch id {
	case dynamo.PlasticDispersal:
		return NewDispersal(seed), nil
	case dynamo.OilSpill:
		return NewOilSpill(), nil
	case dynamo.FoodChain:
		return NewFoodChain(), nil
	case dynamo.CoralBleaching:
		return NewCoral(), nil
	case dynamo.Cleanup:
		return NewCleanup(), nil
	}
	return nil, &dynamo.ModelError{ID: id, Wrapped: dynamo.ErrModelNotFound}
}

// PopulationSize is round(count × multiplier) clamped to [1, MaxParticles].
func PopulationSize(r Rule, params *dynamo.ParameterSet) int {
	n := int(math.Round(params.Value(r.CountParameter()) * r.Multiplier()))
	if n < 1 {
		return 1
	}
	if n > MaxParticles {
		return MaxParticles
	}
	return n
}

// CreatePopulation seeds the initial particles for r. The same rng state
// and parameters always give the same slice.
func CreatePopulation(r Rule, params *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle {
	return r.Populate(PopulationSize(r, params), params, b, rng)
}

// Advance applies one full step to p: the rule's motion, reflection at
// the edges and life decay.
func Advance(r Rule, p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle {
	next := r.Step(p, params, env)
	next = env.Bounds.Reflect(next, dynamo.Restitution)
	decay := math.Max(0, r.Decay(next, params, env))
	next.Life = math.Max(0, math.Min(next.MaxLife, next.Life-decay*env.Dt))
	return next
}

func integrate(p dynamo.Particle, ax, ay, drag, dt float64) dynamo.Particle {
	p.VX += (ax - drag*p.VX) * dt
	p.VY += (ay - drag*p.VY) * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return p
}

func limitSpeed(p dynamo.Particle, max float64) dynamo.Particle {
	if s := p.Speed(); s > max {
		k := max / s
		p.VX *= k
		p.VY *= k
	}
	return p
}

// inDisc samples a point uniformly inside the disc (cx, cy, r).
func inDisc(rng *rand.Rand, cx, cy, r float64) (float64, float64) {
	a := rng.Float64() * 2 * math.Pi
	d := r * math.Sqrt(rng.Float64())
	return cx + d*math.Cos(a), cy + d*math.Sin(a)
}
