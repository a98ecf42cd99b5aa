package repositories

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cardiorisk/internal/models"
	"cardiorisk/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository. cache may
// be nil, in which case every lookup goes to the database.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(ctx, r.cache.UserKey(id)); err == nil {
			return user, nil
		}
	}

	user, err := r.GetByIDUncached(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(ctx, user); err != nil {
			slog.Warn("failed to cache user", "user_id", id, "error", err)
		}
	}

	return user, nil
}

func (r *userRepository) GetByIDUncached(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"password":      hash,
			"token_version": gorm.Expr("token_version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) RecordLogin(ctx context.Context, userID uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("last_login_at", at)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) invalidate(ctx context.Context, userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(ctx, userID); err != nil {
		slog.Warn("failed to invalidate user cache", "user_id", userID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
