package physics

import "github.com/lucasb-eyer/go-colorful"

// Bleached is the colour a fully bleached coral settles on.
var Bleached = colorful.Color{R: 1, G: 1, B: 1}

var (
	plasticPalette = hexes("#e63946", "#f1fa8c", "#48cae4", "#f4a261", "#ffffff", "#90be6d")
	oilPalette     = hexes("#1b1b1b", "#2e2a24", "#3d3629", "#4a3f35")
	coralPalette   = hexes("#ff7f50", "#ff6f61", "#f4a261", "#e76f51", "#ffb4a2")
	debrisPalette  = hexes("#c9a66b", "#a98467", "#dda15e", "#bc6c25")
	agentColor     = MustHex("#4cc9f0")

	// trophicColors is indexed by trophic level.
	trophicColors = hexes("#e0e0e0", "#8bd3c7", "#f6c85f", "#ef767a")
)

// MustHex parses a "#rrggbb" colour and panics on malformed input. It is
// meant for package level palettes.
func MustHex(code string) colorful.Color {
	c, err := colorful.Hex(code)
	if err != nil {
		panic(err)
	}
	return c
}

func hexes(codes ...string) []colorful.Color {
	out := make([]colorful.Color, len(codes))
	for i, c := range codes {
		out[i] = MustHex(c)
	}
	return out
}

func pick(rng interface{ Intn(int) int }, cs []colorful.Color) colorful.Color {
	return cs[rng.Intn(len(cs))]
}
