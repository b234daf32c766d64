// Package physics holds the per-model particle rules.
//
// Each scenario is one [Rule]: it seeds its population, steps a single
// particle and reports how fast that particle loses life. Rules are pure
// functions of (particle, parameters, environment) and never touch shared
// state, so the engine may step particles in any order or in parallel.
//
//	rule, _ := physics.For(dynamo.OilSpill, seed)
//	ps := physics.CreatePopulation(rule, params, bounds, dynamo.NewRand(seed))
//	next := physics.Advance(rule, ps[0], params, env)
//
// The dispersal rule drifts debris along a Perlin [CurrentField]; the
// same field is exposed through [FlowProvider] so overlays can draw it.
package physics
