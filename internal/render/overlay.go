package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
)

// Overlay draws the model specific layer above the particles.
type Overlay interface {
	Draw(s Surface, f Frame, v view)
}

// OverlayFor returns the overlay for id, or nil when the model has none.
func OverlayFor(id dynamo.ModelID) Overlay {
	switch id {
	case dynamo.PlasticDispersal:
		return currentArrows{cols: 8, rows: 5}
	case dynamo.OilSpill:
		return spillRings{}
	case dynamo.FoodChain:
		return trophicLadder{}
	case dynamo.CoralBleaching:
		return reefBed{}
	case dynamo.Cleanup:
		return sweepPath{segments: 64, maxTraces: 4}
	}
	return nil
}

var (
	arrowColor = physics.MustHex("#caf0f8")
	slickColor = physics.MustHex("#6b4f2a")
	reefColor  = physics.MustHex("#e9c46a")
	calmColor  = physics.MustHex("#2a9d8f")
	alarmColor = physics.MustHex("#e63946")
	pathColor  = physics.MustHex("#4cc9f0")
	labelColor = physics.MustHex("#f1faee")
)

type currentArrows struct {
	cols, rows int
}

func (o currentArrows) Draw(s Surface, f Frame, v view) {
	if f.Flow == nil || !f.Bounds.Valid() {
		return
	}
	cw := f.Bounds.Width / float64(o.cols)
	ch := f.Bounds.Height / float64(o.rows)
	length := 0.35 * math.Min(cw, ch)
	for i := 0; i < o.cols; i++ {
		for j := 0; j < o.rows; j++ {
			x := (float64(i) + 0.5) * cw
			y := (float64(j) + 0.5) * ch
			d := f.Flow.Sample(x, y, f.Elapsed)
			tx, ty := x+d.X*length, y+d.Y*length
			v.line(s, x, y, tx, ty, 1, arrowColor, 0.35)

			// arrow head, two strokes at ±150°
			a := math.Atan2(d.Y, d.X)
			for _, da := range [2]float64{2.618, -2.618} {
				hx := tx + 0.3*length*math.Cos(a+da)
				hy := ty + 0.3*length*math.Sin(a+da)
				v.line(s, tx, ty, hx, hy, 1, arrowColor, 0.35)
			}
		}
	}
}

type spillRings struct{}

// SpillRadius is the radius of the spreading front at elapsed seconds.
func SpillRadius(b dynamo.Bounds, viscosity, elapsed float64) float64 {
	base := 0.04 * math.Min(b.Width, b.Height)
	r := base + 12/(0.5+viscosity)*elapsed
	return math.Min(r, 0.45*math.Min(b.Width, b.Height))
}

func (spillRings) Draw(s Surface, f Frame, v view) {
	if !f.Bounds.Valid() {
		return
	}
	cx, cy := f.Bounds.Center()
	r := SpillRadius(f.Bounds, f.Params.Value("viscosity"), f.Elapsed)
	s.Ring(v.X(cx), v.Y(cy), v.R(r), 1.5, slickColor, 0.5)
	s.Ring(v.X(cx), v.Y(cy), v.R(0.6*r), 1, slickColor, 0.25)
}

type trophicLadder struct{}

func (trophicLadder) Draw(s Surface, f Frame, v view) {
	factor := f.Params.Value("bioaccumulation_factor")
	x, y := 12.0, 16.0
	step := 18.0
	for lvl := physics.TrophicLevels - 1; lvl >= 0; lvl-- {
		c, _ := colorful.Hex(physics.TrophicColor(lvl))
		s.Circle(x, y, 4, c, 0.9)
		label := physics.TrophicName(lvl)
		if factor > 0 {
			label = fmt.Sprintf("%s ×%.1f", label, math.Pow(factor, float64(lvl)))
		}
		s.Text(x+10, y+4, label, labelColor)
		if lvl > 0 {
			s.Line(x, y+step-5, x, y+5, 1, labelColor, 0.4)
		}
		y += step
	}
}

type reefBed struct{}

func (reefBed) Draw(s Surface, f Frame, v view) {
	if !f.Bounds.Valid() {
		return
	}
	x0, y0, x1, y1 := physics.Reef(f.Bounds)
	v.line(s, x0, y0, x1, y0, 1, reefColor, 0.4)
	v.line(s, x1, y0, x1, y1, 1, reefColor, 0.4)
	v.line(s, x1, y1, x0, y1, 1, reefColor, 0.4)
	v.line(s, x0, y1, x0, y0, 1, reefColor, 0.4)

	// stress gauge along the top right
	stress := math.Max(0, math.Min(1, physics.Stress(f.Params)/3))
	gx0, gx1, gy := 0.7*f.Bounds.Width, 0.95*f.Bounds.Width, 0.05*f.Bounds.Height
	v.line(s, gx0, gy, gx1, gy, 4, labelColor, 0.2)
	if stress > 0 {
		c := calmColor.BlendHcl(alarmColor, stress).Clamped()
		v.line(s, gx0, gy, gx0+(gx1-gx0)*stress, gy, 4, c, 0.9)
	}
}

type sweepPath struct {
	segments  int
	maxTraces int
}

func (o sweepPath) Draw(s Surface, f Frame, v view) {
	if !f.Bounds.Valid() {
		return
	}
	sweep := physics.NewSweep(f.Bounds, f.Params.Value("sweep_speed"))
	reach := f.Capture
	if reach <= 0 {
		reach = physics.CaptureRadius
	}
	traced := 0
	for _, p := range f.Particles {
		if p.Category != dynamo.CleaningAgent {
			continue
		}
		if sweep.Omega > 0 && traced < o.maxTraces {
			o.trace(s, v, sweep, physics.Phase(p.ID))
			traced++
		}
		s.Ring(v.X(p.X), v.Y(p.Y), v.R(reach), 1, pathColor, 0.35)
	}
}

func (o sweepPath) trace(s Surface, v view, sweep physics.Sweep, phi float64) {
	period := 2 * math.Pi / sweep.Omega
	prev := sweep.At(0, phi)
	for i := 1; i <= o.segments; i++ {
		next := sweep.At(period*float64(i)/float64(o.segments), phi)
		v.line(s, prev.X, prev.Y, next.X, next.Y, 1, pathColor, 0.2)
		prev = next
	}
}
