// Package cache is a JSON cache over Redis.
//
// A nil or disconnected *Store is valid and behaves as a permanent miss, so
// callers never branch on whether Redis is configured:
//
//	store, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
//	if err != nil {
//	    logger.Warn("cache disabled", "error", err)
//	}
//	var tests []store.Document
//	if !store.Get(ctx, "featured-tests", &tests) { ... }
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
)

// Backend is the subset of *redis.Client the cache uses.
type Backend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Store caches JSON-encoded values.
type Store struct {
	rdb Backend
}

// New wraps an existing client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// NewFromBackend wraps any Backend, such as a test double.
func NewFromBackend(b Backend) *Store {
	return &Store{rdb: b}
}

// Connect dials Redis and verifies it with a ping. An empty addr returns a
// disabled store and no error.
func Connect(ctx context.Context, addr, password string) (*Store, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(rdb), nil
}

// Enabled reports whether the store is backed by Redis.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

// Get unmarshals the cached value for key into dest. Returns true on a hit.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}

	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithCtx(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		metrics.RecordCache(key, false)
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.RecordCache(key, false)
		return false
	}
	metrics.RecordCache(key, true)
	return true
}

// Set stores value under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Forget removes keys.
func (s *Store) Forget(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: del: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}
