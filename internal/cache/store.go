package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned when a key is absent or stale
var ErrMiss = errors.New("cache miss")

// DefaultTTL is how long a fetched payload is considered fresh
const DefaultTTL = 5 * time.Minute

// Store keeps fetched payloads keyed by their resolved location
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Backend names accepted by New
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a cache backend
type Options struct {
	Backend   string
	Dir       string
	TTL       time.Duration
	RedisAddr string
	RedisPass string
	RedisDB   int
}

// New creates the store named by opts.Backend
func New(opts Options) (Store, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir, opts.TTL)
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPass, opts.RedisDB, opts.TTL), nil
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", opts.Backend)
	}
}

// Nop never holds anything
type Nop struct{}

// Get always misses
func (Nop) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

// Set discards data
func (Nop) Set(context.Context, string, []byte) error {
	return nil
}
