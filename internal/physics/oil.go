package physics

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// OilSpill spreads a slick from a point source. Viscosity damps motion,
// waves scatter droplets and wind drags the slick east.
type OilSpill struct {
	Mult    float64
	Damping float64 // k in v *= 1 - viscosity*k*dt
	MaxSize float64
}

func NewOilSpill() *OilSpill {
	return &OilSpill{Mult: 3, Damping: 3, MaxSize: 9}
}

func (o *OilSpill) Model() dynamo.ModelID  { return dynamo.OilSpill }
func (o *OilSpill) CountParameter() string { return "spill_volume" }
func (o *OilSpill) Multiplier() float64    { return o.Mult }

// Origin returns the spill point and the radius of the initial ring.
func (o *OilSpill) Origin(b dynamo.Bounds) (x, y, r float64) {
	x, y = b.Center()
	return x, y, 0.04 * math.Min(b.Width, b.Height)
}

func (o *OilSpill) Populate(n int, params *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle {
	cx, cy, r := o.Origin(b)
	wind := params.Value("wind_speed")
	visc := params.Value("viscosity")

	ps := make([]dynamo.Particle, n)
	for i := range ps {
		a := 2*math.Pi*float64(i)/float64(n) + dynamo.Jitter(rng, 0.1)
		speed := (8 + 0.6*wind) / (0.5 + visc) * (0.8 + 0.4*rng.Float64())
		maxLife := 90 + rng.Float64()*30
		ps[i] = dynamo.Particle{
			ID:       i,
			X:        cx + r*math.Cos(a),
			Y:        cy + r*math.Sin(a),
			VX:       speed*math.Cos(a) + 0.3*wind,
			VY:       speed * math.Sin(a),
			Size:     3 + rng.Float64()*2,
			Color:    pick(rng, oilPalette),
			Category: dynamo.Pollutant,
			Life:     maxLife,
			MaxLife:  maxLife,
		}
	}
	return ps
}

func (o *OilSpill) Step(p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle {
	visc := params.Value("viscosity")
	wind := params.Value("wind_speed")
	wave := params.Value("wave_height")

	k := math.Max(0, 1-visc*o.Damping*env.Dt)
	p.VX *= k
	p.VY *= k
	p.VX += (dynamo.Jitter(env.Rand, wave*20) + wind*0.8) * env.Dt
	p.VY += dynamo.Jitter(env.Rand, wave*20) * env.Dt
	p.X += p.VX * env.Dt
	p.Y += p.VY * env.Dt

	if p.Size < o.MaxSize {
		p.Size = math.Min(o.MaxSize, p.Size+0.15*env.Dt*(1-0.5*visc))
	}
	return p
}

// Decay grows with water temperature.
func (o *OilSpill) Decay(_ dynamo.Particle, params *dynamo.ParameterSet, _ Env) float64 {
	return 0.4 + 0.03*params.Value("water_temperature")
}
