// Package analysis post-processes metric series and particle tracks.
//
//   - [PowerSpectrum], [DominantFrequency]: periodicity of a series,
//     such as the cleanup sweep showing up in the removal rate
//   - [GrowthRate]: exponential growth of a series, e.g. how fast a
//     plume spreads
//   - [Track], [DensityMap]: terminal renderings of particle positions
//   - [ResponseToASCII]: a metric plotted against a swept parameter
//
//	f, power := analysis.DominantFrequency(series, 1/dt)
package analysis
