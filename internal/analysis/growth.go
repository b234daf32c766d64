package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// GrowthRate fits log(series) = a + λt by least squares and returns λ
// per second. Non-positive samples are skipped. Fewer than two usable
// samples give zero.
func GrowthRate(series []float64, dt float64) float64 {
	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	for i, v := range series {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i)*dt)
		ys = append(ys, math.Log(v))
	}
	if len(xs) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}

// DoublingTime is ln2/λ, or +Inf when the series is not growing.
func DoublingTime(series []float64, dt float64) float64 {
	l := GrowthRate(series, dt)
	if l <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / l
}
