package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// Surface is a 2D drawing target. Alpha is in [0, 1].
type Surface interface {
	Size() (w, h float64)
	Gradient(top, bottom colorful.Color)
	Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64)
	Circle(x, y, r float64, c colorful.Color, alpha float64)
	Ring(x, y, r, width float64, c colorful.Color, alpha float64)
	Text(x, y float64, s string, c colorful.Color)
}

// FlowSampler returns the current direction at a point in time.
type FlowSampler interface {
	Sample(x, y, t float64) r2.Vec
}

// Frame is everything a draw call reads. It is never modified.
type Frame struct {
	Model     dynamo.ModelID
	Elapsed   float64
	Bounds    dynamo.Bounds
	Particles []dynamo.Particle
	Params    *dynamo.ParameterSet
	Flow      FlowSampler
	// Capture is the collection radius of cleaning agents. Zero falls
	// back to physics.CaptureRadius.
	Capture   float64
}

// view maps simulation units onto surface pixels.
type view struct {
	sx, sy float64
}

func newView(f Frame, w, h float64) view {
	if !f.Bounds.Valid() {
		return view{1, 1}
	}
	return view{sx: w / f.Bounds.Width, sy: h / f.Bounds.Height}
}

func (v view) X(x float64) float64 { return x * v.sx }
func (v view) Y(y float64) float64 { return y * v.sy }

func (v view) R(r float64) float64 {
	if v.sx < v.sy {
		return r * v.sx
	}
	return r * v.sy
}

func (v view) line(s Surface, x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	s.Line(v.X(x0), v.Y(y0), v.X(x1), v.Y(y1), width, c, alpha)
}
