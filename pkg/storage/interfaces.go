package storage

import (
	"context"
	"fmt"
	"time"
)

// Key prefixes used in the credential store
const (
	AuthTokenPrefix         = "auth_token"
	NotificationTokenPrefix = "notification_token"
	RateLimitPrefix         = "rate_limit"
)

// AuthTokenKey returns the key holding an account's live session token
func AuthTokenKey(accountID string) string {
	return fmt.Sprintf("%s:%s", AuthTokenPrefix, accountID)
}

// NotificationTokenKey returns the key caching an account's push notification token
func NotificationTokenKey(accountID string) string {
	return fmt.Sprintf("%s:%s", NotificationTokenPrefix, accountID)
}

// RateLimitKey returns the admission counter key for a client address
func RateLimitKey(addr string) string {
	return fmt.Sprintf("%s:%s", RateLimitPrefix, addr)
}

// CredentialStore is a TTL-aware key-value store for session tokens,
// notification tokens and rate counters.
//
// Implementations never return transport errors. A failed read reports the
// key as absent, a failed write reports false, and a failed delete reports 0.
type CredentialStore interface {
	// Set stores value under key. A zero ttl stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) bool

	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool)

	// Delete removes keys and returns how many existed
	Delete(ctx context.Context, keys ...string) int64

	// Expire reapplies ttl to an existing key without touching its value
	Expire(ctx context.Context, key string, ttl time.Duration) bool

	// IncrementAndExpire increments the counter at key and reapplies ttl in
	// one batch, returning the post-increment count.
	IncrementAndExpire(ctx context.Context, key string, ttl time.Duration) (int64, bool)
}

// Config for storage backends
type Config struct {
	// PostgreSQL config (account store)
	PostgresURL      string        `yaml:"postgres_url"`
	PostgresMaxConns int           `yaml:"postgres_max_conns"`
	PostgresMinConns int           `yaml:"postgres_min_conns"`
	PostgresTimeout  time.Duration `yaml:"postgres_timeout"`

	// Redis config (credential store)
	RedisURL        string `yaml:"redis_url"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	RedisMaxRetries int    `yaml:"redis_max_retries"`
	RedisPoolSize   int    `yaml:"redis_pool_size"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		PostgresURL:      "postgres://localhost:5432/setara?sslmode=disable",
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
		RedisURL:         "redis://localhost:6379/0",
		RedisDB:          0,
		RedisMaxRetries:  3,
		RedisPoolSize:    10,
	}
}
