package repositories

import (
	"context"

	"cardiorisk/internal/models"

	"github.com/google/uuid"
)

// PredictionRepository stores and reads risk assessment results.
type PredictionRepository interface {
	Create(ctx context.Context, p *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)

	// ListByUser returns a user's predictions newest first, plus their total count
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Prediction, int64, error)

	// List returns every user's predictions newest first
	List(ctx context.Context, limit, offset int) ([]models.Prediction, int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
