// Package redisstore implements storage.CredentialStore on Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/storage"
)

// NewClient creates a Redis client from storage configuration and verifies connectivity
func NewClient(ctx context.Context, config storage.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if config.RedisPassword != "" {
		opts.Password = config.RedisPassword
	}
	if config.RedisDB > 0 {
		opts.DB = config.RedisDB
	}
	if config.RedisMaxRetries > 0 {
		opts.MaxRetries = config.RedisMaxRetries
	}
	if config.RedisPoolSize > 0 {
		opts.PoolSize = config.RedisPoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// CredentialStore is a Redis-backed storage.CredentialStore
type CredentialStore struct {
	client  redis.UniversalClient
	logger  *observability.Logger
	metrics *observability.Metrics
}

var _ storage.CredentialStore = (*CredentialStore)(nil)

// New wraps a Redis client. logger and metrics may be nil.
func New(client redis.UniversalClient, logger *observability.Logger, metrics *observability.Metrics) *CredentialStore {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &CredentialStore{
		client:  client,
		logger:  logger.WithField("component", "credential_store"),
		metrics: metrics,
	}
}

// Set stores value with SET EX, or plain SET when ttl is zero
func (s *CredentialStore) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.degraded("set", key, err)
		return false
	}
	return true
}

// Get returns the value at key
func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.degraded("get", key, err)
		return "", false
	}
	return value, true
}

// Delete removes keys and returns the number removed
func (s *CredentialStore) Delete(ctx context.Context, keys ...string) int64 {
	if len(keys) == 0 {
		return 0
	}
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		s.degraded("delete", keys[0], err)
		return 0
	}
	return n
}

// Expire reapplies ttl to key. It reports false when the key no longer exists.
func (s *CredentialStore) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		s.degraded("expire", key, err)
		return false
	}
	return ok
}

// IncrementAndExpire runs INCR and EXPIRE in a single pipeline
func (s *CredentialStore) IncrementAndExpire(ctx context.Context, key string, ttl time.Duration) (int64, bool) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		s.degraded("incr_expire", key, err)
		return 0, false
	}
	return incr.Val(), true
}

func (s *CredentialStore) degraded(op, key string, err error) {
	s.metrics.RecordStoreError(op)
	s.logger.WithError(err).WithFields(map[string]interface{}{
		"operation": op,
		"key":       key,
	}).Warn("Credential store operation failed")
}
