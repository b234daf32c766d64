package physics

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// Dispersal releases floating debris from a river mouth near the left
// edge and lets current, wind and turbulence spread it.
type Dispersal struct {
	Mult     float64
	MaxSpeed float64
	Drag     float64
	field    *CurrentField
}

func NewDispersal(seed uint64) *Dispersal {
	return &Dispersal{
		Mult:     2,
		MaxSpeed: 120,
		Drag:     0.5,
		field:    NewCurrentField(seed),
	}
}

func (d *Dispersal) Model() dynamo.ModelID  { return dynamo.PlasticDispersal }
func (d *Dispersal) CountParameter() string { return "pollutant_density" }
func (d *Dispersal) Multiplier() float64    { return d.Mult }
func (d *Dispersal) Flow() *CurrentField    { return d.field }

// Source returns the centre and radius of the release region.
func (d *Dispersal) Source(b dynamo.Bounds) (x, y, r float64) {
	return 0.15 * b.Width, 0.5 * b.Height, 0.05 * math.Min(b.Width, b.Height)
}

func (d *Dispersal) Populate(n int, _ *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle {
	cx, cy, r := d.Source(b)
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		x, y := inDisc(rng, cx, cy, r)
		maxLife := 80 + rng.Float64()*40
		ps[i] = dynamo.Particle{
			ID:       i,
			X:        x,
			Y:        y,
			VX:       dynamo.Jitter(rng, 2),
			VY:       dynamo.Jitter(rng, 2),
			Size:     2 + rng.Float64()*2,
			Color:    pick(rng, plasticPalette),
			Category: dynamo.Pollutant,
			Life:     maxLife,
			MaxLife:  maxLife,
		}
	}
	return ps
}

func (d *Dispersal) Step(p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle {
	current := params.Value("current_speed")
	wind := params.Value("wind_speed")

	flow := d.field.Sample(p.X, p.Y, env.Elapsed)
	turb := (current + 0.2*wind) * 15
	ax := flow.X*current*20 + wind*1.5 + dynamo.Jitter(env.Rand, turb)
	ay := flow.Y*current*20 + dynamo.Jitter(env.Rand, turb)

	p = integrate(p, ax, ay, d.Drag, env.Dt)
	return limitSpeed(p, d.MaxSpeed)
}

func (d *Dispersal) Decay(_ dynamo.Particle, params *dynamo.ParameterSet, _ Env) float64 {
	return params.Value("degradation_rate") * 5
}
