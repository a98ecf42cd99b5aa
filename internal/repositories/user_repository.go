package repositories

import (
	"context"
	"time"

	"cardiorisk/internal/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDUncached reads the user straight from the database. Token
	// checks use it so a stale cache entry cannot revive a revoked session.
	GetByIDUncached(ctx context.Context, id uint) (*models.User, error)

	// UpdatePassword stores a new hash and bumps the token version in one
	// statement
	UpdatePassword(ctx context.Context, userID uint, hash string) error

	// IncrementTokenVersion invalidates every token issued to the user
	IncrementTokenVersion(ctx context.Context, userID uint) error

	// RecordLogin stores the time of a successful login
	RecordLogin(ctx context.Context, userID uint, at time.Time) error
}
