package game

import "math/rand/v2"

// Sampler returns a uniformly distributed value in [0, 1).
type Sampler func() float64

// RandSampler adapts a *rand.Rand into a Sampler.
func RandSampler(rng *rand.Rand) Sampler {
	return rng.Float64
}

// Weights returns the selection probability of every tier for a rating.
// The slice is indexed by tier position (ID-1), sums to 1 and holds no
// negative values.
//
// Below the second tier's breakpoint tier 1 is certain. Inside the band
// [MinRating of tier k, next breakpoint) tiers k-1 and k are mixed with
// w_high = rating / next breakpoint and w_low = 1 - w_high. At or above the
// top rating the top tier is certain unless a top mix is configured.
func (t *Table) Weights(rating float64) []float64 {
	w := make([]float64, len(t.tiers))
	if rating < 0 {
		rating = 0
	}

	if rating < t.tiers[1].MinRating {
		w[0] = 1
		return w
	}

	last := len(t.tiers) - 1
	if rating >= t.topRating {
		w[last] = 1 - t.topMix
		w[last-1] = t.topMix
		return w
	}

	for i := last; i >= 1; i-- {
		if rating >= t.tiers[i].MinRating {
			high := rating / t.breakpoint(i)
			w[i] = high
			w[i-1] = 1 - high
			break
		}
	}
	return w
}

// Select samples a tier for the rating using the given sampler.
func (t *Table) Select(rating float64, sample Sampler) Tier {
	weights := t.Weights(rating)
	u := sample()

	var cumulative float64
	chosen := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		chosen = i
		cumulative += w
		if u < cumulative {
			break
		}
	}
	if chosen < 0 {
		return t.tiers[0]
	}
	return t.tiers[chosen]
}
