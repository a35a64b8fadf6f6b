// Package config loads service configuration from defaults, an optional YAML
// file and AUTHCORE_-prefixed environment variables.
//
// # Configuration Structure
//
// Server settings:
//
//	AUTHCORE_HOST="0.0.0.0"
//	AUTHCORE_PORT="6543"
//	AUTHCORE_CORS_ORIGINS="https://app.example.com,https://admin.example.com"
//	AUTHCORE_SHUTDOWN_TIMEOUT="30s"
//	AUTHCORE_MAX_BODY_BYTES="1048576"     # larger request bodies get 413
//
// Token and session settings:
//
//	AUTHCORE_AUTH_SECRET="..."            # required
//	AUTHCORE_AUTH_ALGORITHM="HS256"       # HS256, HS384, HS512
//	AUTHCORE_AUTH_EXPIRATION_SECONDS="3600"
//	AUTHCORE_AUTH_BCRYPT_COST="12"
//
// Admission settings:
//
//	AUTHCORE_RATE_LIMIT_ENABLED="true"
//	AUTHCORE_RATE_LIMIT_REQUESTS="10"
//	AUTHCORE_RATE_LIMIT_WINDOW="1s"
//
// Storage settings:
//
//	AUTHCORE_REDIS_URL="redis://localhost:6379/0"
//	AUTHCORE_POSTGRES_URL="postgres://localhost:5432/setara?sslmode=disable"
//	AUTHCORE_POSTGRES_MAX_CONNS="20"
//
// Geolocation settings:
//
//	AUTHCORE_GEO_ENABLED="true"
//	AUTHCORE_GEO_BASE_URL="https://ipinfo.io"
//	AUTHCORE_GEO_TIMEOUT="3s"
//
// Observability settings:
//
//	AUTHCORE_LOG_LEVEL="info"  # debug, info, warn, error
//	AUTHCORE_METRICS_ENABLED="true"
//	AUTHCORE_OTEL_ENABLED="true"
//	AUTHCORE_OTEL_ENDPOINT="otel-collector:4317"
//
// Set AUTHCORE_CONFIG_FILE to read a YAML file first; environment variables
// still win over file values.
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/observability: Uses observability configuration
package config
