package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/oceansim/internal/analysis"
	"github.com/san-kum/oceansim/internal/dynamo"
)

// SVG is a render.Surface that records draw calls as SVG elements.
type SVG struct {
	w, h  float64
	grads int
	sb    strings.Builder
}

// NewSVG returns an empty w×h document.
func NewSVG(w, h float64) *SVG {
	return &SVG{w: w, h: h}
}

func (s *SVG) Size() (w, h float64) { return s.w, s.h }

func (s *SVG) Gradient(top, bottom colorful.Color) {
	s.grads++
	id := fmt.Sprintf("bg%d", s.grads)
	fmt.Fprintf(&s.sb, `<defs><linearGradient id="%s" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/>`+
		`</linearGradient></defs>`+"\n", id, top.Clamped().Hex(), bottom.Clamped().Hex())
	fmt.Fprintf(&s.sb, `<rect width="%.0f" height="%.0f" fill="url(#%s)"/>`+"\n", s.w, s.h, id)
}

func (s *SVG) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	fmt.Fprintf(&s.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"/>`+"\n",
		x0, y0, x1, y1, c.Clamped().Hex(), width, opacity(alpha))
}

func (s *SVG) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	fmt.Fprintf(&s.sb, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x, y, math.Max(r, 0), c.Clamped().Hex(), opacity(alpha))
}

func (s *SVG) Ring(x, y, r, width float64, c colorful.Color, alpha float64) {
	fmt.Fprintf(&s.sb, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"/>`+"\n",
		x, y, math.Max(r, 0), c.Clamped().Hex(), width, opacity(alpha))
}

func (s *SVG) Text(x, y float64, str string, c colorful.Color) {
	fmt.Fprintf(&s.sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>`+"\n",
		x, y, c.Clamped().Hex(), escape(str))
}

// String returns the complete document.
func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, s.w, s.h, s.w, s.h)
	sb.WriteString(s.sb.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// Save writes the document to path.
func (s *SVG) Save(path string) error {
	return os.WriteFile(path, []byte(s.String()), 0o644)
}

// TrackToSVG draws one particle's path inside b as a polyline.
func TrackToSVG(t analysis.Track, b dynamo.Bounds, width, height int, strokeColor string) string {
	if len(t.Points) == 0 || !b.Valid() || width <= 0 || height <= 0 {
		return ""
	}
	if strokeColor == "" {
		strokeColor = "#00ffff"
	}
	sx := float64(width) / b.Width
	sy := float64(height) / b.Height

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range t.Points {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", p.X*sx, p.Y*sy)
	}
	start := t.Points[0]
	fmt.Fprintf(&sb, `"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
</svg>`, start.X*sx, start.Y*sy, strokeColor)
	return sb.String()
}

func opacity(a float64) float64 {
	if math.IsNaN(a) {
		return 0
	}
	return math.Max(0, math.Min(1, a))
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
