package prediction

import (
	"context"
	"time"

	"cardiorisk/internal/models"
	"cardiorisk/internal/services/risk"

	"github.com/google/uuid"
)

// Result is the outcome of scoring one assessment.
type Result struct {
	Score         float64             `json:"score"`
	Percentage    int                 `json:"percentage"`
	Tier          risk.Tier           `json:"tier"`
	BMI           float64             `json:"bmi"`
	Contributions []risk.Contribution `json:"contributions"`
}

// Page is one page of predictions plus the total available.
type Page struct {
	Items []models.Prediction `json:"items"`
	Total int64               `json:"total"`
}

// Config tunes the service. Zero values use the defaults.
type Config struct {
	DefaultLimit    int
	MaxLimit        int
	HistoryCacheTTL time.Duration
}

// WithDefaults fills unset fields with the package defaults.
func (c Config) WithDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultHistoryLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = MaxHistoryLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	if c.HistoryCacheTTL <= 0 {
		c.HistoryCacheTTL = DefaultHistoryCacheTTL
	}
	return c
}

// Service defines the prediction service interface
type Service interface {
	Evaluate(ctx context.Context, a risk.Assessment) (*Result, error)
	Create(ctx context.Context, userID uint, a risk.Assessment) (*models.Prediction, *Result, error)
	Get(ctx context.Context, userID uint, id uuid.UUID) (*models.Prediction, error)
	Delete(ctx context.Context, userID uint, id uuid.UUID) error

	// History returns the user's predictions newest first.
	History(ctx context.Context, userID uint, limit, offset int) (*Page, error)

	// ListAll returns every user's predictions newest first.
	ListAll(ctx context.Context, limit, offset int) (*Page, error)
}

// Cache is the subset of the Redis cache service used for history.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Version(ctx context.Context, key string) (int64, error)
	BumpVersion(ctx context.Context, key string) error
}

// MetricsCollector defines the interface for collecting prediction metrics
type MetricsCollector interface {
	RecordAssessment(tier risk.Tier, score float64, stored bool)
	RecordValidationFailure(field string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
	RecordError(operation string)
}
