package risk

import "errors"

var (
	ErrInvalidBMIInput = errors.New("height and weight must be positive")
	ErrMissingBMI      = errors.New("bmi or height and weight are required")
)
