package physics

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/oceansim/internal/dynamo"
)

const goldenAngle = 2.399963229728653

// CaptureRadius is the default distance at which an agent collects waste.
const CaptureRadius = 40.0

// Cleanup runs collection vessels along a figure-eight sweep through
// drifting waste. Waste near a vessel decays quickly.
type Cleanup struct {
	Mult          float64
	CaptureRadius float64
	AgentEvery    int // one agent per AgentEvery particles
}

func NewCleanup() *Cleanup {
	return &Cleanup{Mult: 2, CaptureRadius: CaptureRadius, AgentEvery: 6}
}

func (c *Cleanup) Model() dynamo.ModelID  { return dynamo.Cleanup }
func (c *Cleanup) CountParameter() string { return "pollution_level" }
func (c *Cleanup) Multiplier() float64    { return c.Mult }
func (c *Cleanup) Reach() float64         { return c.CaptureRadius }

// Sweep describes the figure-eight path for the given surface and speed.
type Sweep struct {
	CX, CY float64
	AX, AY float64 // half-extents
	Omega  float64
}

func NewSweep(b dynamo.Bounds, sweepSpeed float64) Sweep {
	cx, cy := b.Center()
	omega := 0.6 * sweepSpeed
	ax := 0.3 * b.Width
	return Sweep{CX: cx, CY: cy, AX: ax, AY: ax / 2, Omega: omega}
}

// At returns the position on the path at time t for phase phi.
func (s Sweep) At(t, phi float64) r2.Vec {
	return r2.Vec{
		X: s.CX + s.AX*math.Sin(s.Omega*t+phi),
		Y: s.CY - s.AY*math.Cos(2*s.Omega*t+phi),
	}
}

// Velocity is the time derivative of At.
func (s Sweep) Velocity(t, phi float64) r2.Vec {
	a := s.AX * s.Omega
	return r2.Vec{
		X: a * math.Cos(s.Omega*t+phi),
		Y: a * math.Sin(2*s.Omega*t+phi),
	}
}

// Phase returns the sweep phase of the agent with the given id.
func Phase(id int) float64 {
	return math.Mod(float64(id)*goldenAngle, 2*math.Pi)
}

// Agents returns the number of cleaning agents in a population of n.
func (c *Cleanup) Agents(n int) int {
	if a := n / c.AgentEvery; a > 0 {
		return a
	}
	return 1
}

func (c *Cleanup) Populate(n int, params *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle {
	sweep := NewSweep(b, params.Value("sweep_speed"))
	agents := c.Agents(n)
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		if i < agents {
			pos := sweep.At(0, Phase(i))
			vel := sweep.Velocity(0, Phase(i))
			ps[i] = dynamo.Particle{
				ID: i, X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y,
				Size:     7,
				Color:    agentColor,
				Category: dynamo.CleaningAgent,
				Life:     1,
				MaxLife:  1,
			}
			continue
		}
		maxLife := 100 + rng.Float64()*40
		ps[i] = dynamo.Particle{
			ID:       i,
			X:        (0.05 + 0.9*rng.Float64()) * b.Width,
			Y:        (0.1 + 0.8*rng.Float64()) * b.Height,
			VX:       dynamo.Jitter(rng, 3),
			VY:       dynamo.Jitter(rng, 3),
			Size:     2.5,
			Color:    pick(rng, debrisPalette),
			Category: dynamo.Pollutant,
			Life:     maxLife,
			MaxLife:  maxLife,
		}
	}
	return ps
}

func (c *Cleanup) Step(p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle {
	if p.Category == dynamo.CleaningAgent {
		sweep := NewSweep(env.Bounds, params.Value("sweep_speed"))
		// velocity at mid-step keeps the Euler path on the curve
		v := sweep.Velocity(env.Elapsed-env.Dt/2, Phase(p.ID))
		p.VX, p.VY = v.X, v.Y
		p.X += v.X * env.Dt
		p.Y += v.Y * env.Dt
		return p
	}
	return integrate(p, dynamo.Jitter(env.Rand, 10), dynamo.Jitter(env.Rand, 10), 1, env.Dt)
}

func (c *Cleanup) Decay(p dynamo.Particle, params *dynamo.ParameterSet, env Env) float64 {
	if p.Category == dynamo.CleaningAgent {
		return 0
	}
	if c.Captured(p, env.Agents) {
		// full efficiency clears a captured item in half a second
		return 0.05 + params.Value("cleanup_efficiency")*2*p.MaxLife
	}
	return 0.05
}

// Captured reports whether p lies within the capture radius of any agent.
func (c *Cleanup) Captured(p dynamo.Particle, agents []r2.Vec) bool {
	pos := r2.Vec{X: p.X, Y: p.Y}
	for _, a := range agents {
		if r2.Norm(r2.Sub(pos, a)) <= c.CaptureRadius {
			return true
		}
	}
	return false
}

// AgentPositions collects the positions of cleaning agents in ps.
func AgentPositions(ps []dynamo.Particle) []r2.Vec {
	var out []r2.Vec
	for _, p := range ps {
		if p.Category == dynamo.CleaningAgent {
			out = append(out, r2.Vec{X: p.X, Y: p.Y})
		}
	}
	return out
}
