package physics

import (
	"golang.org/x/exp/rand"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// Trophic levels: micro-plastic, zooplankton, small fish, large fish.
const TrophicLevels = 4

var (
	trophicShare = [TrophicLevels]float64{0.50, 0.25, 0.15, 0.10}
	trophicSize  = [TrophicLevels]float64{1.5, 3, 5, 8}
	trophicNames = [TrophicLevels]string{"micro-plastic", "zooplankton", "small fish", "large fish"}
)

// TrophicName returns a display name for level.
func TrophicName(level int) string {
	if level < 0 || level >= TrophicLevels {
		return "unknown"
	}
	return trophicNames[level]
}

// TrophicColor returns the palette entry for level.
func TrophicColor(level int) string {
	if level < 0 || level >= TrophicLevels {
		return "#ffffff"
	}
	return trophicColors[level].Hex()
}

// levelFor assigns index i of n to a trophic level by cumulative share.
func levelFor(i, n int) int {
	f := float64(i) / float64(n)
	acc := 0.0
	for l, s := range trophicShare {
		acc += s
		if f < acc {
			return l
		}
	}
	return TrophicLevels - 1
}

// FoodChain scatters plastics and organisms through the water column.
// Organisms forage harder as the ingestion rate rises.
type FoodChain struct {
	Mult float64
	Drag float64
}

func NewFoodChain() *FoodChain {
	return &FoodChain{Mult: 3, Drag: 1.5}
}

func (f *FoodChain) Model() dynamo.ModelID  { return dynamo.FoodChain }
func (f *FoodChain) CountParameter() string { return "microplastic_concentration" }
func (f *FoodChain) Multiplier() float64    { return f.Mult }

func (f *FoodChain) Populate(n int, _ *dynamo.ParameterSet, b dynamo.Bounds, rng *rand.Rand) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		lvl := levelFor(i, n)
		cat := dynamo.Organism
		if lvl == 0 {
			cat = dynamo.Pollutant
		}
		maxLife := 100 + rng.Float64()*50
		ps[i] = dynamo.Particle{
			ID:       i,
			X:        rng.Float64() * b.Width,
			Y:        (0.1 + 0.8*rng.Float64()) * b.Height,
			VX:       dynamo.Jitter(rng, 5),
			VY:       dynamo.Jitter(rng, 5),
			Size:     trophicSize[lvl],
			Color:    trophicColors[lvl],
			Category: cat,
			Level:    lvl,
			Life:     maxLife,
			MaxLife:  maxLife,
		}
	}
	return ps
}

func (f *FoodChain) Step(p dynamo.Particle, params *dynamo.ParameterSet, env Env) dynamo.Particle {
	amp := 20.0
	if p.Level > 0 {
		amp = 60 + 120*params.Value("ingestion_rate")
	}
	return integrate(p, dynamo.Jitter(env.Rand, amp), dynamo.Jitter(env.Rand, amp), f.Drag, env.Dt)
}

func (f *FoodChain) Decay(p dynamo.Particle, _ *dynamo.ParameterSet, _ Env) float64 {
	if p.Level == 0 {
		return 0.1
	}
	return 0.2
}
