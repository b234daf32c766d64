package dynamo

import "golang.org/x/exp/rand"

// NewRand returns a PCG generator seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Stream returns the generator a particle uses during one tick.
func Stream(seed, tick uint64, id int) *rand.Rand {
	return NewRand(StreamSeed(seed, tick, id))
}

// StreamSeed mixes a run seed, a tick number and a particle id with the
// splitmix64 finalizer so neighbouring ids and ticks get unrelated seeds.
func StreamSeed(seed, tick uint64, id int) uint64 {
	x := mix64(seed ^ 0x9e3779b97f4a7c15)
	x = mix64(x ^ tick)
	return mix64(x ^ uint64(id))
}

func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Jitter returns a uniform sample in [-amp, amp].
func Jitter(rng *rand.Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}
