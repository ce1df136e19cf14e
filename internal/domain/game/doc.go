// Package game holds the pure arithmetic of the learning game: the ordered
// tier table, rating-driven tier selection, tier degradation when a word lacks
// the assets a tier needs, and clamped rating updates.
//
// Nothing in this package performs I/O. Randomness is injected through a
// Sampler so selection is reproducible under test.
package game
