package risk

import "math"

// Tier is the qualitative risk level derived from a score.
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
)

const (
	moderateTierFloor = 30.0
	highTierFloor     = 60.0
)

// Classify maps a score to its tier: below 30 is Low, below 60 is
// Moderate, everything else High.
func Classify(score float64) Tier {
	switch {
	case score < moderateTierFloor:
		return TierLow
	case score < highTierFloor:
		return TierModerate
	default:
		return TierHigh
	}
}

// Percentage is the score rounded for display.
func Percentage(score float64) int {
	return int(math.Round(score))
}
