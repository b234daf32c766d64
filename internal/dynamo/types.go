package dynamo

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ModelID tags one of the scenario variants.
type ModelID string

const (
	PlasticDispersal ModelID = "plastic_dispersal"
	OilSpill         ModelID = "oil_spill"
	FoodChain        ModelID = "food_chain"
	CoralBleaching   ModelID = "coral_bleaching"
	Cleanup          ModelID = "cleanup"
)

// Category is the closed set of particle kinds.
type Category uint8

const (
	Pollutant Category = iota
	Organism
	CleaningAgent
)

func (c Category) String() string {
	switch c {
	case Pollutant:
		return "pollutant"
	case Organism:
		return "organism"
	case CleaningAgent:
		return "cleaning-agent"
	default:
		return "unknown"
	}
}

// Restitution is the fraction of speed kept by a particle bouncing off an edge.
const Restitution = 0.8

// Particle is a point mass in surface coordinates. Level is the trophic
// level for the food chain model and zero elsewhere.
type Particle struct {
	ID       int
	X, Y     float64
	VX, VY   float64
	Size     float64
	Color    colorful.Color
	Category Category
	Level    int
	Life     float64
	MaxLife  float64
}

func (p Particle) Speed() float64 { return math.Hypot(p.VX, p.VY) }
func (p Particle) Alive() bool    { return p.Life > 0 }

// LifeFraction returns Life/MaxLife in [0, 1].
func (p Particle) LifeFraction() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return clamp(p.Life/p.MaxLife, 0, 1)
}

// IsValid reports whether the kinematic fields are finite.
func (p Particle) IsValid() bool {
	for _, v := range [...]float64{p.X, p.Y, p.VX, p.VY, p.Life} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CloneParticles returns an independent copy of ps.
func CloneParticles(ps []Particle) []Particle {
	c := make([]Particle, len(ps))
	copy(c, ps)
	return c
}

// Bounds is the size of the drawing surface in abstract units.
type Bounds struct {
	Width, Height float64
}

func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0 && !math.IsInf(b.Width, 0) && !math.IsInf(b.Height, 0)
}

func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

func (b Bounds) Center() (float64, float64) { return b.Width / 2, b.Height / 2 }

// Reflect clamps p into b. A component that left the surface has its
// velocity turned back inward and scaled by restitution. Non-finite
// positions are moved to the centre and stopped.
func (b Bounds) Reflect(p Particle, restitution float64) Particle {
	if !p.IsValid() {
		p.X, p.Y = b.Center()
		p.VX, p.VY = 0, 0
		if math.IsNaN(p.Life) || math.IsInf(p.Life, 0) {
			p.Life = 0
		}
		return p
	}
	if p.X < 0 {
		p.X = 0
		p.VX = math.Abs(p.VX) * restitution
	} else if p.X > b.Width {
		p.X = b.Width
		p.VX = -math.Abs(p.VX) * restitution
	}
	if p.Y < 0 {
		p.Y = 0
		p.VY = math.Abs(p.VY) * restitution
	} else if p.Y > b.Height {
		p.Y = b.Height
		p.VY = -math.Abs(p.VY) * restitution
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
