package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "auth_token:42", AuthTokenKey("42"))
	assert.Equal(t, "notification_token:42", NotificationTokenKey("42"))
	assert.Equal(t, "rate_limit:10.0.0.1", RateLimitKey("10.0.0.1"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.PostgresURL)
	assert.NotEmpty(t, cfg.RedisURL)
	assert.Equal(t, 20, cfg.PostgresMaxConns)
	assert.Equal(t, 2, cfg.PostgresMinConns)
	assert.Equal(t, 10*time.Second, cfg.PostgresTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 3, cfg.RedisMaxRetries)
	assert.Equal(t, 10, cfg.RedisPoolSize)
}
