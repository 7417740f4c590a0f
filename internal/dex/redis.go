package dex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig describes the Redis connection for the quote cache.
type RedisCacheConfig struct {
	Address  string
	Password string
	DB       int
}

// RedisCache stores quotes in Redis with per-key expiry, for deployments
// where several server processes share one cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisCacheConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Get fetches and decodes a cached quote.
func (c *RedisCache) Get(ctx context.Context, key string) (Quote, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Quote{}, false, nil
		}
		return Quote{}, false, fmt.Errorf("redis get: %w", err)
	}
	var quote Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		return Quote{}, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return quote, true, nil
}

// Set encodes and stores a quote with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, quote Quote, ttl time.Duration) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
