package physics

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/san-kum/oceansim/internal/dynamo"
)

const (
	// TemperatureThreshold is the anomaly above which corals bleach.
	TemperatureThreshold = 1.0
	// PHThreshold is the pH below which corals bleach.
	PHThreshold = 7.9
)

// Stress returns how far the environment is past either bleaching
// threshold, in threshold units. Zero or less means healthy water.
func Stress(params *dynamo.ParameterSet) float64 {
	temp := (params.Value("temperature_anomaly") - TemperatureThreshold) / 1.0
	acid := (PHThreshold - params.Value("ph_level")) / 0.1
	return math.Max(temp, acid)
}

// Coral keeps colonies fixed on a reef band and blends their colour to
// white under heat or acid stress.
type Coral struct {
	Mult float64
	// SnapDistance is the RGB distance under which a colony is treated
	// as fully bleached.
	SnapDistance float64
}

func NewCoral() *Coral {
	return &Coral{Mult: 2, SnapDistance: 0.02}
}

func (c *Coral) Model() dynamo.ModelID  { return dynamo.CoralBleaching }
func (c *Coral) CountParameter() string { return "coral_density" }
func (c *Coral) Multiplier() float64    { return c.Mult }

// Reef returns the band the colonies grow in as x0, y0, x1, y1.
func Reef(b dynamo.Bounds) (x0, y0, x1, y1 float64) {
	return 0.08 * b.Width, 0.72 * b.Height, 0.92 * b.Width, 0.95 * b.Height
}

func (c *Coral) Populate(n int, _ *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle {
	x0, y0, x1, y1 := Reef(b)
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		maxLife := 200 + rng.Float64()*50
		ps[i] = dynamo.Particle{
			ID:       i,
			X:        x0 + rng.Float64()*(x1-x0),
			Y:        y0 + rng.Float64()*(y1-y0),
			Size:     4 + rng.Float64()*3,
			Color:    pick(rng, coralPalette),
			Category: dynamo.Organism,
			Life:     maxLife,
			MaxLife:  maxLife,
		}
	}
	return ps
}

func (c *Coral) Step(p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle {
	p.VX, p.VY = 0, 0
	s := Stress(params)
	if s <= 0 || p.Color == Bleached {
		return p
	}
	f := 1 - math.Exp(-(0.5+1.5*s)*env.Dt)
	p.Color = p.Color.BlendRgb(Bleached, f)
	if p.Color.DistanceRgb(Bleached) < c.SnapDistance {
		p.Color = Bleached
	}
	return p
}

func (c *Coral) Decay(p dynamo.Particle, _ *dynamo.ParameterSet, _ Env) float64 {
	if p.Color == Bleached {
		return 0.6
	}
	return 0.1
}
