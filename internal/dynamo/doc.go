// Package dynamo provides the core primitives shared by the pollution
// scenario engine.
//
// The package defines the value types every other package exchanges:
//
//   - [Particle]: a single simulated pollutant, organism or cleaning agent
//   - [Bounds]: the fixed drawing surface particles live on
//   - [Parameter] and [ParameterSet]: bounded, named numeric controls
//   - [ModelID]: the tag selecting one of the five scenario variants
//
// # Determinism
//
// All randomness flows through generators created with [NewRand] or
// [Stream]. A stream is keyed by the run seed, the tick number and the
// particle id, so a particle draws the same numbers regardless of which
// goroutine evaluates it:
//
//	rng := dynamo.Stream(seed, tick, p.ID)
//	jitter := rng.Float64()*2 - 1
//
// # Immutability
//
// A [ParameterSet] is never modified in place. [ParameterSet.With] returns a
// new set, so a reader holding a set mid-tick never observes a torn edit.
package dynamo
