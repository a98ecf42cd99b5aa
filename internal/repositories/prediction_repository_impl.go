package repositories

import (
	"context"
	"errors"

	"cardiorisk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository creates a gorm backed PredictionRepository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *predictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	var p models.Prediction
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &p, nil
}

func (r *predictionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Prediction, int64, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID), limit, offset)
}

func (r *predictionRepository) List(ctx context.Context, limit, offset int) ([]models.Prediction, int64, error) {
	return r.list(r.db.WithContext(ctx), limit, offset)
}

func (r *predictionRepository) list(scope *gorm.DB, limit, offset int) ([]models.Prediction, int64, error) {
	var total int64
	if err := scope.Session(&gorm.Session{}).Model(&models.Prediction{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	predictions := make([]models.Prediction, 0, limit)
	err := scope.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&predictions).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return predictions, total, nil
}

func (r *predictionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Prediction{}, "id = ?", id)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrPredictionNotFound
	}
	return nil
}
