package game

import "github.com/phrazzld/lingua-bot/internal/domain"

// MaxRating is the rating ceiling shared with percent reporting.
const MaxRating = domain.MaxRating

// Clamp bounds a rating to [0, MaxRating].
func Clamp(rating float64) float64 {
	if rating < 0 {
		return 0
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}

// SignedDelta returns the rating change a verdict on the tier produces.
func SignedDelta(tier Tier, correct bool) float64 {
	if correct {
		return tier.Delta
	}
	return -tier.Delta
}

// ApplyVerdict returns the clamped rating after a verdict on the tier.
func ApplyVerdict(rating float64, tier Tier, correct bool) float64 {
	return Clamp(rating + SignedDelta(tier, correct))
}
