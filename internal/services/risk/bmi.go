package risk

import (
	"fmt"
	"math"
)

// ComputeBMI derives body mass index from height in centimetres and
// weight in kilograms, rounded to one decimal place.
func ComputeBMI(heightCM, weightKG float64) (float64, error) {
	if heightCM <= 0 || weightKG <= 0 {
		return 0, fmt.Errorf("%w: height=%v weight=%v", ErrInvalidBMIInput, heightCM, weightKG)
	}
	meters := heightCM / 100
	return math.Round(weightKG/(meters*meters)*10) / 10, nil
}
