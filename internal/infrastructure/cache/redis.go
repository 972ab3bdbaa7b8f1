// Package cache provides the redis-backed token cache used for
// short-lived gateway credentials.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

// Config holds redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to redis and returns a TokenCache. The
// connection is verified with a ping before use.
func NewRedisCache(ctx context.Context, cfg Config, logger *zap.Logger) (repository.TokenCache, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", cfg.Addr))

	cache := &redisCache{client: client, logger: logger}
	return cache, client.Close, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}
