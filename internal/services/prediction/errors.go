package prediction

import "errors"

var (
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrInvalidID          = errors.New("invalid prediction id")
)
