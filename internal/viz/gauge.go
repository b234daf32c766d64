package viz

import "github.com/charmbracelet/harmonica"

// Gauges ease displayed values toward their targets with a damped spring,
// so a parameter nudge slides the bar rather than jumping.
type Gauges struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func NewGauges(fps int, frequency, damping float64) *Gauges {
	return &Gauges{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Resize keeps n gauges. Existing positions survive a grow.
func (g *Gauges) Resize(n int) {
	if len(g.pos) == n {
		return
	}
	pos := make([]float64, n)
	vel := make([]float64, n)
	copy(pos, g.pos)
	copy(vel, g.vel)
	g.pos, g.vel = pos, vel
}

// Snap places every gauge on its target with no motion.
func (g *Gauges) Snap(targets []float64) {
	g.Resize(len(targets))
	copy(g.pos, targets)
	clear(g.vel)
}

// Step advances gauge i one frame toward target and returns its position.
func (g *Gauges) Step(i int, target float64) float64 {
	if i < 0 || i >= len(g.pos) {
		return target
	}
	p, v := g.spring.Update(g.pos[i], g.vel[i], target)
	g.pos[i] = p
	g.vel[i] = v
	return p
}

func (g *Gauges) Value(i int) float64 {
	if i < 0 || i >= len(g.pos) {
		return 0
	}
	return g.pos[i]
}
