package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
)

var (
	seaTop    = physics.MustHex("#0b3d5c")
	seaBottom = physics.MustHex("#021526")
	foam      = physics.MustHex("#a8dadc")
)

// Renderer draws frames for one model. The overlay is chosen once when
// the renderer is built.
type Renderer struct {
	Top, Bottom colorful.Color
	Waves       int
	overlay     Overlay
}

func New(id dynamo.ModelID) *Renderer {
	return &Renderer{
		Top:     seaTop,
		Bottom:  seaBottom,
		Waves:   3,
		overlay: OverlayFor(id),
	}
}

// Draw paints f onto s. It fails only when the surface cannot be drawn on.
func (r *Renderer) Draw(s Surface, f Frame) error {
	if s == nil {
		return dynamo.ErrSurfaceUnavailable
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 || math.IsNaN(w) || math.IsNaN(h) {
		return dynamo.ErrSurfaceUnavailable
	}
	v := newView(f, w, h)

	s.Gradient(r.Top, r.Bottom)
	r.drawWaves(s, w, h, f.Elapsed)
	for _, p := range f.Particles {
		if !p.Alive() {
			continue
		}
		s.Circle(v.X(p.X), v.Y(p.Y), v.R(p.Size), p.Color, ParticleAlpha(p))
	}
	if r.overlay != nil {
		r.overlay.Draw(s, f, v)
	}
	return nil
}

// ParticleAlpha fades a particle out as it ages.
func ParticleAlpha(p dynamo.Particle) float64 {
	return 0.25 + 0.75*p.LifeFraction()
}

const waveSegments = 32

func (r *Renderer) drawWaves(s Surface, w, h, elapsed float64) {
	for k := 0; k < r.Waves; k++ {
		base := h * (0.12 + 0.08*float64(k))
		amp := h * (0.008 + 0.004*float64(k))
		freq := 2 * math.Pi * (1.5 + 0.5*float64(k)) / w
		phase := elapsed * (0.8 + 0.3*float64(k))

		px, py := 0.0, base+amp*math.Sin(phase)
		for i := 1; i <= waveSegments; i++ {
			x := w * float64(i) / waveSegments
			y := base + amp*math.Sin(freq*x+phase)
			s.Line(px, py, x, y, 1, foam, 0.15)
			px, py = x, y
		}
	}
}
