package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/oceansim/internal/config"
	"github.com/san-kum/oceansim/internal/dynamo"
)

func coral() config.Config {
	cfg := *config.DefaultConfig()
	cfg.Model = string(dynamo.CoralBleaching)
	cfg.Duration = 1
	cfg.Dt = 0.1
	return cfg
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 1, 3, []float64{0, 0.5, 1}},
		{2, 2, 1, []float64{2}},
		{7, 9, 0, []float64{7}},
	}
	for _, tt := range tests {
		got := Linspace(tt.lo, tt.hi, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("Linspace(%v, %v, %d) = %v", tt.lo, tt.hi, tt.n, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Linspace(%v, %v, %d) = %v", tt.lo, tt.hi, tt.n, got)
			}
		}
	}
}

func TestLinspace_EndsExactly(t *testing.T) {
	for n := 2; n <= 50; n++ {
		vs := Linspace(0.1, 1, n)
		if vs[n-1] != 1 {
			t.Errorf("n=%d: last value %v, want 1", n, vs[n-1])
		}
		for _, v := range vs {
			if v < 0.1 || v > 1 {
				t.Errorf("n=%d: %v outside [0.1, 1]", n, v)
			}
		}
	}
}

func TestGridSearch(t *testing.T) {
	for _, maximize := range []bool{false, true} {
		g := NewGridSearch(
			[]string{"temperature_anomaly", "ph_level"},
			[][]float64{{0, 4}, {7.6, 8.2}},
		)
		g.Maximize = maximize
		best, all, err := g.Search(context.Background(), coral(), "bleached_fraction")
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 4 {
			t.Fatalf("evaluated %d combinations, want 4", len(all))
		}
		for _, r := range all {
			if (maximize && r.Value > best.Value) || (!maximize && r.Value < best.Value) {
				t.Errorf("maximize=%v: %v beats best %v", maximize, r, best)
			}
		}
		if len(best.Params) != 2 {
			t.Errorf("best params %v", best.Params)
		}
	}
}

func TestGridSearch_Errors(t *testing.T) {
	g := NewGridSearch([]string{"ph_level"}, [][]float64{{8}})
	if _, _, err := g.Search(context.Background(), coral(), "removal_ratio"); err == nil {
		t.Error("metric the model lacks should fail")
	}

	g = NewGridSearch([]string{"ph_level"}, [][]float64{{99}})
	if _, _, err := g.Search(context.Background(), coral(), "bleached_fraction"); !errors.Is(err, dynamo.ErrParameterOutOfRange) {
		t.Errorf("out of range value: %v", err)
	}

	g = NewGridSearch([]string{"ph_level"}, [][]float64{{}})
	if _, _, err := g.Search(context.Background(), coral(), "bleached_fraction"); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("empty range: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g = NewGridSearch([]string{"ph_level"}, [][]float64{{8}})
	if _, _, err := g.Search(ctx, coral(), "bleached_fraction"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: %v", err)
	}
}
