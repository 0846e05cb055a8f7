package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "riskmap:layer:"

// RedisStore caches payloads in Redis with a per-key expiry
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects lazily to the Redis server at addr
func NewRedisStore(addr, pass string, db int, ttl time.Duration) *RedisStore {
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl:    ttl,
	}
}

// Get returns the payload stored under key
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	return data, nil
}

// Set stores the payload, expiring after the store's ttl
func (r *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, redisPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client connections
func (r *RedisStore) Close() error {
	return r.client.Close()
}
