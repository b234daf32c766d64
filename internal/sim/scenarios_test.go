package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/physics"
	"github.com/san-kum/oceansim/internal/sim"
)

const dt = 0.016

func expectedCount(e *sim.Engine) int {
	return physics.PopulationSize(e.Rule(), e.Parameters())
}

func meanSpeed(ps []dynamo.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Speed()
	}
	return sum / float64(len(ps))
}

var _ = Describe("Engine", func() {
	var e *sim.Engine

	newEngine := func(id dynamo.ModelID) *sim.Engine {
		eng, err := sim.New(id, sim.WithSeed(2024))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(eng.Close)
		return eng
	}

	Describe("plastic dispersal with defaults", func() {
		BeforeEach(func() {
			e = newEngine(dynamo.PlasticDispersal)
		})

		It("keeps its population for 100 ticks", func() {
			want := expectedCount(e)
			Expect(want).To(Equal(100))

			tok := e.Play()
			Expect(sim.RunFor(e, tok, 100, dt)).To(Equal(100))

			st := e.Snapshot()
			Expect(len(st.Particles)).To(BeNumerically("~", want, 1))
			Expect(st.Elapsed).To(BeNumerically("~", 1.6, 1e-9))
		})

		It("clears and reseeds on reset", func() {
			tok := e.Play()
			sim.RunFor(e, tok, 30, dt)

			e.Reset()
			st := e.Snapshot()
			Expect(st.Elapsed).To(BeZero())
			Expect(st.Particles).To(BeEmpty())
			Expect(st.Phase).To(Equal(sim.Stopped))
			Expect(tok.Valid()).To(BeFalse())

			e.Play()
			Expect(e.Snapshot().Particles).To(HaveLen(expectedCount(e)))
		})
	})

	Describe("oil spill damping", func() {
		runWithViscosity := func(v float64) float64 {
			eng := newEngine(dynamo.OilSpill)
			Expect(eng.SetParameter("viscosity", v)).To(Succeed())
			tok := eng.Play()
			sim.RunFor(eng, tok, 50, dt)
			return meanSpeed(eng.Snapshot().Particles)
		}

		It("slows thick oil more than thin oil", func() {
			thick := runWithViscosity(1.0)
			thin := runWithViscosity(0.1)
			Expect(thick).To(BeNumerically("<", thin))
		})
	})

	Describe("coral bleaching", func() {
		It("turns every colony white under heat stress", func() {
			e = newEngine(dynamo.CoralBleaching)
			Expect(e.SetParameter("temperature_anomaly", 3)).To(Succeed())
			tok := e.Play()
			sim.RunFor(e, tok, 250, dt)

			ps := e.Snapshot().Particles
			Expect(ps).NotTo(BeEmpty())
			for _, p := range ps {
				Expect(p.Color).To(Equal(physics.Bleached))
			}
		})
	})

	Describe("transport", func() {
		BeforeEach(func() {
			e = newEngine(dynamo.FoodChain)
		})

		It("advances elapsed time linearly in speed", func() {
			for _, speed := range []float64{1, 2} {
				e.Reset()
				e.SetSpeed(speed)
				tok := e.Play()
				sim.RunFor(e, tok, 125, dt)
				Expect(e.Snapshot().Elapsed).To(BeNumerically("~", speed*125*dt, 1e-9))
			}
		})

		It("treats a second pause as a no-op", func() {
			tok := e.Play()
			sim.RunFor(e, tok, 10, dt)
			e.Pause()
			first := e.Snapshot()
			e.Pause()
			Expect(e.Snapshot()).To(Equal(first))
		})

		It("ignores ticks while paused", func() {
			tok := e.Play()
			sim.RunFor(e, tok, 3, dt)
			e.Pause()
			before := e.Snapshot()
			e.Tick(dt)
			Expect(e.TickWith(tok, dt)).To(BeFalse())
			Expect(e.Snapshot()).To(Equal(before))
		})

		It("reseeds when selected through the controls", func() {
			c := sim.NewControls(e)
			tok, err := c.Select(dynamo.Cleanup)
			Expect(err).NotTo(HaveOccurred())
			Expect(tok.Valid()).To(BeTrue())
			Expect(e.Snapshot().Particles).To(HaveLen(expectedCount(e)))

			_, err = c.Select("kelp")
			Expect(err).To(MatchError(dynamo.ErrModelNotFound))
			Expect(e.Model().ID).To(Equal(dynamo.Cleanup))
			Expect(e.Phase()).To(Equal(sim.Stopped))
		})

		It("toggles between running and paused", func() {
			c := sim.NewControls(e)
			Expect(c.Toggle().Valid()).To(BeTrue())
			Expect(e.Phase()).To(Equal(sim.Running))
			Expect(c.Toggle().Valid()).To(BeFalse())
			Expect(e.Phase()).To(Equal(sim.Paused))
		})
	})

	DescribeTable("invariants hold for every model",
		func(id dynamo.ModelID) {
			e = newEngine(id)
			e.SetSpeed(4)
			b := e.Bounds()
			tok := e.Play()
			prev := map[int]float64{}
			for i := 0; i < 400; i++ {
				Expect(e.TickWith(tok, 0.05)).To(BeTrue())
				for _, p := range e.Snapshot().Particles {
					Expect(p.Life).To(BeNumerically(">", 0))
					Expect(p.Life).To(BeNumerically("<=", p.MaxLife))
					Expect(p.X).To(BeNumerically(">=", 0))
					Expect(p.X).To(BeNumerically("<=", b.Width))
					Expect(p.Y).To(BeNumerically(">=", 0))
					Expect(p.Y).To(BeNumerically("<=", b.Height))
					if last, ok := prev[p.ID]; ok {
						Expect(p.Life).To(BeNumerically("<=", last))
					}
					prev[p.ID] = p.Life
				}
			}
		},
		Entry("plastic dispersal", dynamo.PlasticDispersal),
		Entry("oil spill", dynamo.OilSpill),
		Entry("food chain", dynamo.FoodChain),
		Entry("coral bleaching", dynamo.CoralBleaching),
		Entry("cleanup", dynamo.Cleanup),
	)

	It("reproduces a run from the same seed", func() {
		for _, id := range catalog.Default().IDs() {
			a := newEngine(id)
			b := newEngine(id)
			sim.RunFor(a, a.Play(), 60, dt)
			sim.RunFor(b, b.Play(), 60, dt)
			Expect(a.Snapshot()).To(Equal(b.Snapshot()), string(id))
		}
	})

	It("removes pollutants near cleaning agents", func() {
		e = newEngine(dynamo.Cleanup)
		Expect(e.SetParameter("cleanup_efficiency", 1)).To(Succeed())
		tok := e.Play()
		start := len(e.Snapshot().Particles)
		sim.RunFor(e, tok, 600, dt)
		Expect(len(e.Snapshot().Particles)).To(BeNumerically("<", start))
	})
})
