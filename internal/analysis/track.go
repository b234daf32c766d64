package analysis

import (
	"strings"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// Point is a position on the surface.
type Point struct{ X, Y float64 }

// Track holds the path of one particle.
type Track struct {
	ID     int
	Points []Point
}

// Record appends p's position when p is the tracked particle.
func (t *Track) Record(ps []dynamo.Particle) bool {
	for _, p := range ps {
		if p.ID == t.ID {
			t.Points = append(t.Points, Point{p.X, p.Y})
			return true
		}
	}
	return false
}

// ToASCII plots the track inside b with '•' and marks the start with 'o'.
func (t *Track) ToASCII(b dynamo.Bounds, width, height int) string {
	if len(t.Points) == 0 {
		return ""
	}
	g := newGrid(width, height)
	if g == nil {
		return ""
	}
	for _, p := range t.Points {
		g.plot(b, p.X, p.Y, '•')
	}
	g.plot(b, t.Points[0].X, t.Points[0].Y, 'o')
	return g.String()
}

var shades = []rune(" .:-=+*#%@")

// DensityMap bins ps into a width×height grid over b and shades each cell
// by its share of the fullest cell.
func DensityMap(ps []dynamo.Particle, b dynamo.Bounds, width, height int) string {
	g := newGrid(width, height)
	if g == nil || !b.Valid() {
		return ""
	}
	counts := make([]int, width*height)
	max := 0
	for _, p := range ps {
		col, row, ok := g.cell(b, p.X, p.Y)
		if !ok {
			continue
		}
		counts[row*width+col]++
		if c := counts[row*width+col]; c > max {
			max = c
		}
	}
	if max == 0 {
		return g.String()
	}
	for i, c := range counts {
		if c == 0 {
			continue
		}
		idx := 1 + c*(len(shades)-2)/max
		g.cells[i/width][i%width] = shades[idx]
	}
	return g.String()
}

type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	if w <= 0 || h <= 0 {
		return nil
	}
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", w))
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) cell(b dynamo.Bounds, x, y float64) (col, row int, ok bool) {
	if !b.Valid() || !b.Contains(x, y) {
		return 0, 0, false
	}
	col = int(x / b.Width * float64(g.w-1))
	row = int(y / b.Height * float64(g.h-1))
	return col, row, true
}

func (g *grid) plot(b dynamo.Bounds, x, y float64, r rune) {
	if col, row, ok := g.cell(b, x, y); ok {
		g.cells[row][col] = r
	}
}

func (g *grid) String() string {
	var sb strings.Builder
	for _, row := range g.cells {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
