package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/storage"
)

// EnvPrefix prefixes every environment variable read by LoadConfig
const EnvPrefix = "AUTHCORE_"

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Storage       storage.Config      `yaml:"storage"`
	Geo           GeoConfig           `yaml:"geo"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	MaxFormMemory   int64         `yaml:"max_form_memory"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// AuthConfig holds token signing and session settings
type AuthConfig struct {
	Secret            string `yaml:"secret"`
	Algorithm         string `yaml:"algorithm"`
	ExpirationSeconds int    `yaml:"expiration_seconds"`
	BcryptCost        int    `yaml:"bcrypt_cost"`
}

// Expiration returns the session TTL
func (a AuthConfig) Expiration() time.Duration {
	return time.Duration(a.ExpirationSeconds) * time.Second
}

// RateLimitConfig holds the per-address admission settings
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int64         `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// GeoConfig holds IP geolocation client settings
type GeoConfig struct {
	Enabled   bool          `yaml:"enabled"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`

	OTelEnabled        bool    `yaml:"otel_enabled"`
	OTelEndpoint       string  `yaml:"otel_endpoint"`
	OTelServiceName    string  `yaml:"otel_service_name"`
	OTelServiceVersion string  `yaml:"otel_service_version"`
	OTelInsecure       bool    `yaml:"otel_insecure"`
	OTelSampleRatio    float64 `yaml:"otel_sample_ratio"`
}

// Level returns the parsed log level
func (o ObservabilityConfig) Level() observability.LogLevel {
	return observability.ParseLogLevel(o.LogLevel)
}

// OTel converts the settings for observability.InitOTel
func (o ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        o.OTelEnabled,
		Endpoint:       o.OTelEndpoint,
		ServiceName:    o.OTelServiceName,
		ServiceVersion: o.OTelServiceVersion,
		Insecure:       o.OTelInsecure,
		SampleRatio:    o.OTelSampleRatio,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "6543",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
			MaxFormMemory:   10 << 20,
			MaxBodyBytes:    1 << 20,
		},
		Auth: AuthConfig{
			Algorithm:         "HS256",
			ExpirationSeconds: 3600,
			BcryptCost:        12,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 10,
			Window:   time.Second,
		},
		Storage: storage.DefaultConfig(),
		Geo: GeoConfig{
			Enabled:   true,
			BaseURL:   "https://ipinfo.io",
			Timeout:   3 * time.Second,
			CacheSize: 4096,
			CacheTTL:  time.Hour,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "authcore",
			OTelServiceVersion: "2.0.0",
			OTelInsecure:       true,
			OTelSampleRatio:    1,
		},
	}
}

// LoadConfig loads configuration from defaults, the optional YAML file named by
// AUTHCORE_CONFIG_FILE, and then environment variables, in that order.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile loads defaults overlaid with a YAML file, without consulting the environment
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.overlayFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	s := &c.Server
	s.Host = getEnv("HOST", s.Host)
	s.Port = getEnv("PORT", s.Port)
	s.ReadTimeout = getEnvDuration("READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvDuration("IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.CORSOrigins = getEnvList("CORS_ORIGINS", s.CORSOrigins)
	s.MaxFormMemory = getEnvInt64("MAX_FORM_MEMORY", s.MaxFormMemory)
	s.MaxBodyBytes = getEnvInt64("MAX_BODY_BYTES", s.MaxBodyBytes)

	a := &c.Auth
	a.Secret = getEnv("AUTH_SECRET", a.Secret)
	a.Algorithm = getEnv("AUTH_ALGORITHM", a.Algorithm)
	a.ExpirationSeconds = getEnvInt("AUTH_EXPIRATION_SECONDS", a.ExpirationSeconds)
	a.BcryptCost = getEnvInt("AUTH_BCRYPT_COST", a.BcryptCost)

	r := &c.RateLimit
	r.Enabled = getEnvBool("RATE_LIMIT_ENABLED", r.Enabled)
	r.Requests = int64(getEnvInt("RATE_LIMIT_REQUESTS", int(r.Requests)))
	r.Window = getEnvDuration("RATE_LIMIT_WINDOW", r.Window)

	st := &c.Storage
	st.RedisURL = getEnv("REDIS_URL", st.RedisURL)
	st.RedisPassword = getEnv("REDIS_PASSWORD", st.RedisPassword)
	st.RedisDB = getEnvInt("REDIS_DB", st.RedisDB)
	st.RedisMaxRetries = getEnvInt("REDIS_MAX_RETRIES", st.RedisMaxRetries)
	st.RedisPoolSize = getEnvInt("REDIS_POOL_SIZE", st.RedisPoolSize)
	st.PostgresURL = getEnv("POSTGRES_URL", st.PostgresURL)
	st.PostgresMaxConns = getEnvInt("POSTGRES_MAX_CONNS", st.PostgresMaxConns)
	st.PostgresMinConns = getEnvInt("POSTGRES_MIN_CONNS", st.PostgresMinConns)
	st.PostgresTimeout = getEnvDuration("POSTGRES_TIMEOUT", st.PostgresTimeout)

	g := &c.Geo
	g.Enabled = getEnvBool("GEO_ENABLED", g.Enabled)
	g.BaseURL = getEnv("GEO_BASE_URL", g.BaseURL)
	g.Timeout = getEnvDuration("GEO_TIMEOUT", g.Timeout)
	g.CacheSize = getEnvInt("GEO_CACHE_SIZE", g.CacheSize)
	g.CacheTTL = getEnvDuration("GEO_CACHE_TTL", g.CacheTTL)

	o := &c.Observability
	o.LogLevel = getEnv("LOG_LEVEL", o.LogLevel)
	o.MetricsEnabled = getEnvBool("METRICS_ENABLED", o.MetricsEnabled)
	o.OTelEnabled = getEnvBool("OTEL_ENABLED", o.OTelEnabled)
	o.OTelEndpoint = getEnv("OTEL_ENDPOINT", o.OTelEndpoint)
	o.OTelServiceName = getEnv("OTEL_SERVICE_NAME", o.OTelServiceName)
	o.OTelServiceVersion = getEnv("OTEL_SERVICE_VERSION", o.OTelServiceVersion)
	o.OTelInsecure = getEnvBool("OTEL_INSECURE", o.OTelInsecure)
	o.OTelSampleRatio = getEnvFloat("OTEL_SAMPLE_RATIO", o.OTelSampleRatio)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	if c.Auth.Secret == "" {
		return errors.New("auth secret is required")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported auth algorithm: %s (must be HS256, HS384, or HS512)", c.Auth.Algorithm)
	}
	if c.Auth.ExpirationSeconds <= 0 {
		return errors.New("auth expiration must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return errors.New("rate limit requests must be positive")
		}
		if c.RateLimit.Window < time.Second {
			return errors.New("rate limit window must be at least one second")
		}
	}

	if c.Storage.RedisURL == "" {
		return errors.New("redis URL is required")
	}
	if c.Storage.PostgresURL == "" {
		return errors.New("postgres URL is required")
	}

	if c.Geo.Enabled && c.Geo.BaseURL == "" {
		return errors.New("geo base URL is required when geolocation is enabled")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return errors.New("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return errors.New("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns a 64-bit integer environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns a float environment variable or a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
