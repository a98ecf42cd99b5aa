package repositories

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrDatabaseOperation  = errors.New("database operation failed")
)
