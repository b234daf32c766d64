package dynamo

import (
	"sync/atomic"
	"testing"
)

func TestStream_Deterministic(t *testing.T) {
	a := Stream(42, 7, 3)
	b := Stream(42, 7, 3)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("identical keys produced different sequences")
		}
	}
}

func TestStreamSeed_Distinct(t *testing.T) {
	seen := make(map[uint64]bool)
	for tick := uint64(0); tick < 20; tick++ {
		for id := 0; id < 20; id++ {
			s := StreamSeed(1, tick, id)
			if seen[s] {
				t.Fatalf("collision at tick=%d id=%d", tick, id)
			}
			seen[s] = true
		}
	}
}

func TestJitterBounded(t *testing.T) {
	rng := NewRand(9)
	for i := 0; i < 1000; i++ {
		if v := Jitter(rng, 2); v < -2 || v > 2 {
			t.Fatalf("jitter %v outside [-2, 2]", v)
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	const n = 1000
	hits := make([]int32, n)
	ParallelFor(n, 16, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}
