package physics

import (
	"math"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"
)

// CurrentField is a slowly evolving 2D flow direction field built from
// 3D Perlin noise, the third axis being time.
type CurrentField struct {
	noise *perlin.Perlin
	Scale float64 // surface units per noise cell
	Drift float64 // noise units per second along time
}

func NewCurrentField(seed uint64) *CurrentField {
	return &CurrentField{
		noise: perlin.NewPerlin(2, 2, 3, int64(seed)),
		Scale: 180,
		Drift: 0.05,
	}
}

// Sample returns the unit flow direction at (x, y) and time t. Perlin
// output is biased eastward so debris leaves the source region.
func (f *CurrentField) Sample(x, y, t float64) r2.Vec {
	n := f.noise.Noise3D(x/f.Scale, y/f.Scale, t*f.Drift)
	theta := n * math.Pi
	return r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
}
