// Package metrics turns frames into scalar time series.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
	"github.com/san-kum/oceansim/internal/render"
	"github.com/san-kum/oceansim/internal/sim"
)

// MaxHistory bounds the samples a metric keeps.
const MaxHistory = 1 << 14

// History is implemented by metrics that keep their per-frame samples.
type History interface {
	History() []float64
}

// series is the per-frame sample store shared by all metrics. Value is
// the latest sample.
type series struct {
	name    string
	samples []float64
}

func (s *series) Name() string { return s.name }

func (s *series) Value() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[len(s.samples)-1]
}

func (s *series) Reset() { s.samples = s.samples[:0] }

func (s *series) History() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *series) record(v float64) {
	if len(s.samples) == MaxHistory {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:MaxHistory-1]
	}
	s.samples = append(s.samples, v)
}

type Population struct{ series }

func NewPopulation() *Population { return &Population{series{name: "population"}} }

func (m *Population) Observe(f render.Frame) { m.record(float64(len(f.Particles))) }

// MeanSpeed is the mean particle speed of each frame.
type MeanSpeed struct{ series }

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{series{name: "mean_speed"}} }

func (m *MeanSpeed) Observe(f render.Frame) {
	if len(f.Particles) == 0 {
		m.record(0)
		return
	}
	m.record(stat.Mean(speeds(f.Particles), nil))
}

// SpeedSpread is the standard deviation of particle speed.
type SpeedSpread struct{ series }

func NewSpeedSpread() *SpeedSpread { return &SpeedSpread{series{name: "speed_spread"}} }

func (m *SpeedSpread) Observe(f render.Frame) {
	if len(f.Particles) < 2 {
		m.record(0)
		return
	}
	m.record(stat.StdDev(speeds(f.Particles), nil))
}

func speeds(ps []dynamo.Particle) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Speed()
	}
	return out
}

// PlumeRadius is the RMS distance of particles from their centroid.
type PlumeRadius struct{ series }

func NewPlumeRadius() *PlumeRadius { return &PlumeRadius{series{name: "plume_radius"}} }

func (m *PlumeRadius) Observe(f render.Frame) {
	if len(f.Particles) == 0 {
		m.record(0)
		return
	}
	xs := make([]float64, len(f.Particles))
	ys := make([]float64, len(f.Particles))
	for i, p := range f.Particles {
		xs[i], ys[i] = p.X, p.Y
	}
	cx, cy := stat.Mean(xs, nil), stat.Mean(ys, nil)
	sum := 0.0
	for i := range xs {
		dx, dy := xs[i]-cx, ys[i]-cy
		sum += dx*dx + dy*dy
	}
	m.record(math.Sqrt(sum / float64(len(xs))))
}

// BleachedFraction is the share of organisms that are fully bleached.
type BleachedFraction struct{ series }

func NewBleachedFraction() *BleachedFraction {
	return &BleachedFraction{series{name: "bleached_fraction"}}
}

func (m *BleachedFraction) Observe(f render.Frame) {
	total, bleached := 0, 0
	for _, p := range f.Particles {
		if p.Category != dynamo.Organism {
			continue
		}
		total++
		if p.Color == physics.Bleached {
			bleached++
		}
	}
	if total == 0 {
		m.record(0)
		return
	}
	m.record(float64(bleached) / float64(total))
}

// RemovalRatio is the share of the first observed pollutants that are gone.
type RemovalRatio struct {
	series
	initial int
}

func NewRemovalRatio() *RemovalRatio { return &RemovalRatio{series: series{name: "removal_ratio"}} }

func (m *RemovalRatio) Observe(f render.Frame) {
	n := 0
	for _, p := range f.Particles {
		if p.Category == dynamo.Pollutant {
			n++
		}
	}
	if len(m.samples) == 0 && m.initial == 0 {
		m.initial = n
	}
	if m.initial == 0 {
		m.record(0)
		return
	}
	m.record(math.Max(0, 1-float64(n)/float64(m.initial)))
}

func (m *RemovalRatio) Reset() {
	m.series.Reset()
	m.initial = 0
}

// ToxinLoad is the mean contaminant burden per organism, each trophic
// level concentrating by the bioaccumulation factor.
type ToxinLoad struct{ series }

func NewToxinLoad() *ToxinLoad { return &ToxinLoad{series{name: "toxin_load"}} }

func (m *ToxinLoad) Observe(f render.Frame) {
	factor := f.Params.Value("bioaccumulation_factor")
	if factor <= 0 {
		factor = 1
	}
	load, n := 0.0, 0
	for _, p := range f.Particles {
		if p.Category != dynamo.Organism {
			continue
		}
		load += math.Pow(factor, float64(p.Level))
		n++
	}
	if n == 0 {
		m.record(0)
		return
	}
	m.record(load / float64(n))
}

// ForModel returns the metrics that make sense for id.
func ForModel(id dynamo.ModelID) []sim.Metric {
	ms := []sim.Metric{NewPopulation(), NewMeanSpeed(), NewSpeedSpread(), NewPlumeRadius()}
	switch id {
	case dynamo.CoralBleaching:
		ms = append(ms, NewBleachedFraction())
	case dynamo.Cleanup:
		ms = append(ms, NewRemovalRatio())
	case dynamo.FoodChain:
		ms = append(ms, NewToxinLoad())
	}
	return ms
}

// Headline names the metric that best summarises a run of id.
func Headline(id dynamo.ModelID) string {
	switch id {
	case dynamo.CoralBleaching:
		return "bleached_fraction"
	case dynamo.Cleanup:
		return "removal_ratio"
	case dynamo.FoodChain:
		return "toxin_load"
	case dynamo.OilSpill:
		return "plume_radius"
	}
	return "population"
}

// Lookup returns the metric called name from ms.
func Lookup(ms []sim.Metric, name string) (sim.Metric, bool) {
	for _, m := range ms {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}
