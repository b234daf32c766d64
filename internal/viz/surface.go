package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MinAlpha is the faintest stroke a braille dot still shows.
const MinAlpha = 0.1

// BrailleSurface draws onto a Canvas. One sub-pixel is one surface unit.
// Translucent strokes are blended toward the background gradient since a
// dot is either on or off.
type BrailleSurface struct {
	c           *Canvas
	top, bottom colorful.Color
}

func NewBrailleSurface(c *Canvas) *BrailleSurface {
	return &BrailleSurface{c: c}
}

func (s *BrailleSurface) Canvas() *Canvas { return s.c }

func (s *BrailleSurface) Size() (w, h float64) {
	dw, dh := s.c.Dots()
	return float64(dw), float64(dh)
}

func (s *BrailleSurface) Gradient(top, bottom colorful.Color) {
	s.c.Clear()
	s.top, s.bottom = top, bottom
}

func (s *BrailleSurface) tint(y float64, c colorful.Color, alpha float64) (colorful.Color, bool) {
	if math.IsNaN(alpha) || alpha < MinAlpha {
		return c, false
	}
	if alpha >= 1 {
		return c, true
	}
	_, h := s.Size()
	bg := s.top.BlendRgb(s.bottom, clamp01(y/h))
	return bg.BlendRgb(c, alpha), true
}

func (s *BrailleSurface) Line(x0, y0, x1, y1, _ float64, c colorful.Color, alpha float64) {
	col, ok := s.tint((y0+y1)/2, c, alpha)
	if !ok || !finite(x0, y0, x1, y1) {
		return
	}
	s.c.DrawLine(round(x0), round(y0), round(x1), round(y1), col)
}

func (s *BrailleSurface) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	col, ok := s.tint(y, c, alpha)
	if !ok || !finite(x, y, r) {
		return
	}
	cx, cy := round(x), round(y)
	if r < 0.75 {
		s.c.Set(cx, cy, col)
		return
	}
	ri := int(math.Ceil(r))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				s.c.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

func (s *BrailleSurface) Ring(x, y, r, _ float64, c colorful.Color, alpha float64) {
	col, ok := s.tint(y, c, alpha)
	if !ok || !finite(x, y, r) || r <= 0 {
		return
	}
	n := max(12, int(2*math.Pi*r))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		s.c.Set(round(x+r*math.Cos(a)), round(y+r*math.Sin(a)), col)
	}
}

func (s *BrailleSurface) Text(x, y float64, str string, c colorful.Color) {
	if !finite(x, y) {
		return
	}
	s.c.Put(int(x)/2, int(y)/4, str, c)
}

func round(v float64) int { return int(math.Round(v)) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
