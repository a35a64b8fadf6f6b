package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/setara/authcore/pkg/api"
	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/config"
	"github.com/setara/authcore/pkg/geo"
	"github.com/setara/authcore/pkg/middleware"
	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/session"
	"github.com/setara/authcore/pkg/storage/postgres"
	"github.com/setara/authcore/pkg/storage/redisstore"
	"github.com/setara/authcore/pkg/validation"
)

var (
	configFile   = flag.String("config", "", "Path to a YAML config file (overrides AUTHCORE_CONFIG_FILE)")
	seedPhone    = flag.String("seed-phone", "", "Create an account with this phone number before serving")
	seedUsername = flag.String("seed-username", "", "Username for the seeded account")
	seedEmail    = flag.String("seed-email", "", "Email for the seeded account")
	seedName     = flag.String("seed-name", "", "Display name for the seeded account")
	seedPassword = flag.String("seed-password", "", "Password for the seeded account")
	seedRole     = flag.String("seed-role", "staff", "Role for the seeded account")
	seedOnly     = flag.Bool("seed-only", false, "Exit after schema bootstrap and seeding")
)

func main() {
	flag.Parse()

	if *configFile != "" {
		os.Setenv(config.EnvPrefix+"CONFIG_FILE", *configFile)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.Level(), os.Stdout)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("authcore exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *observability.Logger) error {
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	redisClient, err := redisstore.NewClient(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("Connected to Redis")

	db, err := postgres.Open(ctx, cfg.Storage)
	if err != nil {
		_ = redisClient.Close()
		return err
	}
	logger.Info("Connected to PostgreSQL")

	accounts := postgres.NewAccountStore(db)
	if err := accounts.EnsureSchema(ctx); err != nil {
		closeStores(redisClient, db)
		return err
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if *seedPhone != "" || *seedUsername != "" || *seedEmail != "" {
		if err := seedAccount(ctx, accounts, hasher, logger); err != nil {
			closeStores(redisClient, db)
			return err
		}
	}
	if *seedOnly {
		closeStores(redisClient, db)
		return nil
	}

	telemetry, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		closeStores(redisClient, db)
		return err
	}

	tokens, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Algorithm)
	if err != nil {
		closeStores(redisClient, db)
		return err
	}

	store := redisstore.New(redisClient, logger, metrics)
	sessions := session.NewRegistry(store, logger)
	ttl := cfg.Auth.Expiration()

	var locator auth.GeoLocator = auth.NoopGeoLocator{}
	if cfg.Geo.Enabled {
		locator = geo.NewIPInfoLocator(geo.Config{
			BaseURL:   cfg.Geo.BaseURL,
			Timeout:   cfg.Geo.Timeout,
			CacheSize: cfg.Geo.CacheSize,
			CacheTTL:  cfg.Geo.CacheTTL,
		}, nil, logger, metrics)
	}

	service := auth.NewService(auth.ServiceDeps{
		Accounts: accounts,
		Sessions: sessions,
		Tokens:   tokens,
		Hasher:   hasher,
		Geo:      locator,
		TTL:      ttl,
		Logger:   logger,
		Metrics:  metrics,
	})

	var gate *middleware.AdmissionGate
	if cfg.RateLimit.Enabled {
		gate = middleware.NewAdmissionGate(store, middleware.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		}, logger, metrics)
	}

	serverConfig := api.ServerConfig{
		Service:       service,
		Authenticator: auth.NewAuthenticator(tokens, sessions, ttl, logger, metrics),
		Gate:          gate,
		Health:        observability.NewHealthChecker(cfg.Observability.OTelServiceVersion).WithDatabase(db).WithRedis(redisClient),
		Metrics:       metrics,
		Logger:        logger,
		CORSOrigins:   cfg.Server.CORSOrigins,
		MaxFormMemory: cfg.Server.MaxFormMemory,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		ServiceName:   cfg.Observability.OTelServiceName,
	}
	if cfg.Observability.MetricsEnabled {
		serverConfig.Registry = registry
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewServer(serverConfig),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.Register("postgres", func(context.Context) error { return db.Close() })
	shutdown.Register("redis", func(context.Context) error { return redisClient.Close() })
	shutdown.Register("otel", telemetry.Shutdown)

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", httpServer.Addr).Info("Starting authcore HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err, ok := <-serveErr; ok {
			logger.WithError(err).Error("HTTP server failed")
			cancel()
		}
	}()

	return shutdown.WaitForSignal(waitCtx)
}

func seedAccount(ctx context.Context, accounts *postgres.AccountStore, hasher *auth.PasswordHasher, logger *observability.Logger) error {
	if *seedPhone != "" && !validation.ValidPhone(*seedPhone) {
		return fmt.Errorf("invalid seed phone %q", *seedPhone)
	}
	if *seedEmail != "" && !validation.ValidEmail(*seedEmail) {
		return fmt.Errorf("invalid seed email %q", *seedEmail)
	}
	if !validation.StrongPassword(*seedPassword) {
		return errors.New("seed password must be at least 8 characters with an upper-case letter, a digit and a symbol")
	}

	hash, err := hasher.HashPassword(*seedPassword)
	if err != nil {
		return err
	}

	account := &auth.Account{
		Phone:        *seedPhone,
		Username:     *seedUsername,
		Email:        *seedEmail,
		Name:         *seedName,
		PasswordHash: hash,
		Role:         *seedRole,
		Status:       auth.StatusActive,
		Verified:     true,
	}
	if err := accounts.CreateAccount(ctx, account); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"user_id": account.ID,
		"role":    account.Role,
	}).Info("Seeded account")
	return nil
}

func closeStores(client *redis.Client, db *sql.DB) {
	_ = client.Close()
	_ = db.Close()
}
