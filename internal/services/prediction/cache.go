package prediction

import (
	"context"
	"log/slog"

	"cardiorisk/internal/repositories/cache"
)

// Cache failures are logged and otherwise ignored; the database stays
// the source of truth.

// cachedHistory returns the cached first page, or nil and the key the
// page should be stored under. An empty key means the cache is unusable.
func (s *service) cachedHistory(ctx context.Context, userID uint) (*Page, string) {
	if s.cache == nil {
		return nil, ""
	}

	version, err := s.cache.Version(ctx, cache.HistoryVersionKey(userID))
	if err != nil {
		slog.Warn("history version read failed", "user_id", userID, "error", err)
		return nil, ""
	}

	key := cache.HistoryKey(userID, version)
	var page Page
	found, err := s.cache.Get(ctx, key, &page)
	if err != nil {
		slog.Warn("history cache read failed", "key", key, "error", err)
	}
	if !found || err != nil {
		s.metrics.RecordCacheMiss(key)
		return nil, key
	}

	s.metrics.RecordCacheHit(key)
	return &page, key
}

func (s *service) storeHistory(ctx context.Context, key string, page *Page) {
	if err := s.cache.SetWithTTL(ctx, key, page, s.config.HistoryCacheTTL); err != nil {
		slog.Warn("history cache write failed", "key", key, "error", err)
	}
}

func (s *service) invalidateHistory(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}

	key := cache.HistoryVersionKey(userID)
	if err := s.cache.BumpVersion(ctx, key); err != nil {
		slog.Warn("history cache invalidation failed", "key", key, "error", err)
	}
}
