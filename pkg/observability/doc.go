// Package observability provides structured logging, Prometheus metrics,
// health probes, graceful shutdown and OpenTelemetry wiring for authcore.
//
// # Structured Logging
//
// Logger wraps logrus with a JSON formatter:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("account_id", id).Info("Login succeeded")
//
// FromContext returns the request-scoped logger with request_id and
// account_id fields already attached.
//
// # Prometheus Metrics
//
// Metrics counts login outcomes, logouts, bearer token evaluations, rate
// admission decisions and degraded credential store operations:
//
//	metrics := observability.NewMetrics(registry)
//	metrics.RecordLogin(observability.LoginSuccess)
//
// All recorders accept a nil *Metrics.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version).WithDatabase(db).WithRedis(client)
//	observability.RegisterHealthRoutes(router, checker)
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, cfg, logger)
//	defer providers.Shutdown(ctx)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/httputil: Request logging middleware
package observability
