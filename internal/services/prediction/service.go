package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cardiorisk/internal/models"
	"cardiorisk/internal/repositories"
	"cardiorisk/internal/services/risk"
	"cardiorisk/internal/validation"

	"github.com/google/uuid"
)

type service struct {
	repo    repositories.PredictionRepository
	cache   Cache
	config  Config
	metrics MetricsCollector
}

// NewService creates a new prediction service. cache and metrics are
// optional.
func NewService(
	repo repositories.PredictionRepository,
	cache Cache,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}

	config = config.WithDefaults()
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Evaluate(ctx context.Context, a risk.Assessment) (*Result, error) {
	result, _, err := s.evaluate(a)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAssessment(result.Tier, result.Score, false)
	return result, nil
}

func (s *service) evaluate(a risk.Assessment) (*Result, risk.RiskFactors, error) {
	if err := risk.ValidateAssessment(a); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			for field := range fields {
				s.metrics.RecordValidationFailure(field)
			}
		}
		return nil, risk.RiskFactors{}, err
	}

	factors, err := a.Factors()
	if err != nil {
		return nil, risk.RiskFactors{}, err
	}

	score := risk.Compute(factors)
	return &Result{
		Score:         score,
		Percentage:    risk.Percentage(score),
		Tier:          risk.Classify(score),
		BMI:           factors.BMI,
		Contributions: risk.Breakdown(factors),
	}, factors, nil
}

func (s *service) Create(ctx context.Context, userID uint, a risk.Assessment) (*models.Prediction, *Result, error) {
	result, factors, err := s.evaluate(a)
	if err != nil {
		return nil, nil, err
	}

	inputs, err := models.NewJSON(a)
	if err != nil {
		return nil, nil, fmt.Errorf("encode inputs: %w", err)
	}

	p := &models.Prediction{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         a.FullName,
		Age:          storedAge(a.Age),
		BMI:          result.BMI,
		RiskScore:    result.Score,
		RiskLevel:    string(result.Tier),
		Contributors: risk.Contributors(factors),
		Inputs:       inputs,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.metrics.RecordError("create")
		return nil, nil, fmt.Errorf("store prediction: %w", err)
	}

	s.invalidateHistory(ctx, userID)
	s.metrics.RecordAssessment(result.Tier, result.Score, true)
	return p, result, nil
}

func (s *service) Get(ctx context.Context, userID uint, id uuid.UUID) (*models.Prediction, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPredictionNotFound) {
			return nil, ErrPredictionNotFound
		}
		s.metrics.RecordError("get")
		return nil, err
	}
	// Other users' predictions are reported as missing.
	if p.UserID != userID {
		return nil, ErrPredictionNotFound
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPredictionNotFound) {
			return ErrPredictionNotFound
		}
		s.metrics.RecordError("delete")
		return err
	}

	s.invalidateHistory(ctx, userID)
	return nil
}

func (s *service) History(ctx context.Context, userID uint, limit, offset int) (*Page, error) {
	limit, offset = s.normalize(limit, offset)
	cacheable := offset == 0 && limit == s.config.DefaultLimit

	// The key is fixed before the database read so a page loaded while a
	// write is in flight lands under the superseded version.
	var key string
	if cacheable {
		var page *Page
		if page, key = s.cachedHistory(ctx, userID); page != nil {
			return page, nil
		}
	}

	items, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.metrics.RecordError("history")
		return nil, err
	}
	page := &Page{Items: items, Total: total}

	if key != "" {
		s.storeHistory(ctx, key, page)
	}
	return page, nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) (*Page, error) {
	limit, offset = s.normalize(limit, offset)

	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.metrics.RecordError("list_all")
		return nil, err
	}
	return &Page{Items: items, Total: total}, nil
}

func storedAge(age float64) int {
	switch {
	case math.IsNaN(age) || age < 0:
		return 0
	case age > MaxStoredAge:
		return MaxStoredAge
	}
	return int(math.Round(age))
}

func (s *service) normalize(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
