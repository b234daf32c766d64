package analysis

import (
	"fmt"
	"math"
	"strings"
)

// ResponsePoint is a metric observed across seeds at one parameter value.
type ResponsePoint struct {
	Param  float64
	Values []float64
}

// ResponseToASCII plots every value against its parameter column, with the
// value range printed on the left axis.
func ResponseToASCII(data []ResponsePoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return ""
	}
	if hi == lo {
		hi = lo + 1
	}

	g := newGrid(width, height)
	for i, p := range data {
		col := i * width / len(data)
		for _, v := range p.Values {
			row := height - 1 - int((v-lo)/(hi-lo)*float64(height-1))
			g.cells[row][col] = '•'
		}
	}

	var sb strings.Builder
	for i, row := range g.cells {
		label := "        "
		switch i {
		case 0:
			label = fmt.Sprintf("%8.3g", hi)
		case height - 1:
			label = fmt.Sprintf("%8.3g", lo)
		}
		sb.WriteString(label)
		sb.WriteString(" │")
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	sb.WriteString(strings.Repeat(" ", 9) + "└" + strings.Repeat("─", width) + "\n")
	sb.WriteString(fmt.Sprintf("%10s%-*g%*g\n", "", width/2, data[0].Param, width-width/2, data[len(data)-1].Param))
	return sb.String()
}
