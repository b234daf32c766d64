package sim

import (
	"sync"

	"github.com/san-kum/oceansim/internal/dynamo"
)

// ParticlePool recycles particle slices between ticks.
type ParticlePool struct {
	pool sync.Pool
}

func NewParticlePool(capacity int) *ParticlePool {
	return &ParticlePool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]dynamo.Particle, 0, capacity)
				return &s
			},
		},
	}
}

// Get returns a slice of length n.
func (p *ParticlePool) Get(n int) []dynamo.Particle {
	s := *p.pool.Get().(*[]dynamo.Particle)
	if cap(s) < n {
		return make([]dynamo.Particle, n)
	}
	return s[:n]
}

// Put hands s back. The caller must not touch s afterwards.
func (p *ParticlePool) Put(s []dynamo.Particle) {
	if s == nil {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
