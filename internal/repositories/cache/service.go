package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardiorisk/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by typed getters when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// UserTTL bounds how long a cached user can lag behind the database.
const UserTTL = 5 * time.Minute

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the value at key into dest and reports whether it was
// present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// UserKey is the cache key for a user looked up by ID.
func (s *CacheService) UserKey(userID uint) string {
	return GenerateKey("user", "id", userID)
}

// HistoryVersionKey holds a counter bumped whenever a user's history
// changes.
func HistoryVersionKey(userID uint) string {
	return GenerateKey("prediction", "history_version", userID)
}

// HistoryKey is the cache key for the first page of a user's prediction
// history at the given version. Pages written for an older version are
// never read again and expire on their own.
func HistoryKey(userID uint, version int64) string {
	return fmt.Sprintf("%s:v%d", GenerateKey("prediction", "history", userID), version)
}

// Version returns the counter at key, or 0 if it was never bumped.
func (s *CacheService) Version(ctx context.Context, key string) (int64, error) {
	v, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	return v, nil
}

// BumpVersion increments the counter at key.
func (s *CacheService) BumpVersion(ctx context.Context, key string) error {
	return s.client.Incr(ctx, key).Err()
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.SetWithTTL(ctx, s.UserKey(user.ID), user, UserTTL)
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, key, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.UserKey(userID))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
