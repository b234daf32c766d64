package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

const fontSize = 16

// surface draws straight into the current raylib frame. Calls are only
// valid between BeginDrawing and EndDrawing.
type surface struct{}

func (surface) Size() (w, h float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

func (s surface) Gradient(top, bottom colorful.Color) {
	w, h := s.Size()
	rl.DrawRectangleGradientV(0, 0, int32(w), int32(h), rgba(top, 1), rgba(bottom, 1))
}

func (surface) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	rl.DrawLineEx(vec(x0, y0), vec(x1, y1), float32(math.Max(width, 1)), rgba(c, alpha))
}

func (surface) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	rl.DrawCircleV(vec(x, y), float32(math.Max(r, 0.5)), rgba(c, alpha))
}

func (surface) Ring(x, y, r, width float64, c colorful.Color, alpha float64) {
	inner := float32(math.Max(r-width/2, 0))
	outer := float32(r + width/2)
	rl.DrawRing(vec(x, y), inner, outer, 0, 360, 48, rgba(c, alpha))
}

func (surface) Text(x, y float64, s string, c colorful.Color) {
	rl.DrawText(s, int32(x), int32(y), fontSize, rgba(c, 1))
}

func vec(x, y float64) rl.Vector2 { return rl.NewVector2(float32(x), float32(y)) }

// rgba converts c with opacity alpha to a raylib colour.
func rgba(c colorful.Color, alpha float64) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	if math.IsNaN(alpha) {
		alpha = 0
	}
	a := math.Max(0, math.Min(1, alpha))
	return rl.NewColor(r, g, b, uint8(math.Round(a*255)))
}
