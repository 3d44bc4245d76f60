package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
	"wordlewatch/pkg/models"
)

// ErrCacheMiss is returned when no cached result exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient caches scrape results keyed by puzzle print date, with a
// rolling pointer to the latest result. It doubles as a pipeline sink.
type RedisClient struct {
	client *redis.Client
	config *config.Config
	logger types.Logger
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	return &RedisClient{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Name identifies the cache in sink logs.
func (r *RedisClient) Name() string {
	return "redis"
}

// Write caches the result under its print date and updates the latest
// pointer. Both keys carry the configured TTL.
func (r *RedisClient) Write(ctx context.Context, result *models.ScrapeResult) error {
	if result.Answer == nil {
		return fmt.Errorf("scrape result carries no answer")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal scrape result: %w", err)
	}

	ttl := r.config.Redis.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	if err := r.client.Set(ctx, reviewKey(result.Answer.PrintDate), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache scrape result: %w", err)
	}
	if err := r.client.Set(ctx, latestKey(), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update latest cache entry: %w", err)
	}

	r.logger.Debug("Cached scrape result", map[string]interface{}{
		"date": result.Answer.PrintDate,
	})
	return nil
}

// GetByDate returns the cached result for a YYYY-MM-DD print date.
func (r *RedisClient) GetByDate(ctx context.Context, date string) (*models.ScrapeResult, error) {
	return r.get(ctx, reviewKey(date))
}

// GetLatest returns the most recently cached result.
func (r *RedisClient) GetLatest(ctx context.Context) (*models.ScrapeResult, error) {
	return r.get(ctx, latestKey())
}

func (r *RedisClient) get(ctx context.Context, key string) (*models.ScrapeResult, error) {
	payload, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var result models.ScrapeResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisClient) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}

func reviewKey(date string) string {
	return fmt.Sprintf("wordlewatch:review:%s", date)
}

func latestKey() string {
	return "wordlewatch:review:latest"
}
