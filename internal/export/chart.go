package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoSeries = errors.New("export: no series to plot")

// Chart dimensions in pixels.
const (
	ChartWidth  = 900
	ChartHeight = 420
)

// WriteChart renders the named series against simulated time as a PNG.
// Samples are dt apart. Series shorter than two samples are skipped.
func WriteChart(w io.Writer, title string, series map[string][]float64, dt float64) error {
	if dt <= 0 {
		dt = 1
	}
	names := make([]string, 0, len(series))
	for name, ys := range series {
		if len(ys) >= 2 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ErrNoSeries
	}
	sort.Strings(names)

	out := make([]chart.Series, 0, len(names))
	for i, name := range names {
		ys := series[name]
		xs := make([]float64, len(ys))
		for j := range xs {
			xs[j] = float64(j) * dt
		}
		out = append(out, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: seriesColor(i, len(names)), StrokeWidth: 2.0},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  ChartWidth,
		Height: ChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "t (s)",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.1f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
		},
		Series: out,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("export: render chart: %w", err)
	}
	return nil
}

// SaveChart is WriteChart into a file.
func SaveChart(path, title string, series map[string][]float64, dt float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteChart(f, title, series, dt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// seriesColor spreads n hues evenly around the HCL wheel.
func seriesColor(i, n int) drawing.Color {
	c := colorful.Hcl(200+360*float64(i)/float64(n), 0.6, 0.6).Clamped()
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
