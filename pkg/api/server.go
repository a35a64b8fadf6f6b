package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/httputil"
	"github.com/setara/authcore/pkg/middleware"
	"github.com/setara/authcore/pkg/observability"
)

// ServerConfig wires the collaborators of the HTTP surface
type ServerConfig struct {
	Service       *auth.Service
	Authenticator *auth.Authenticator
	// Gate is optional; nil disables admission control
	Gate          *middleware.AdmissionGate
	Health        *observability.HealthChecker
	Metrics       *observability.Metrics
	Registry      *prometheus.Registry
	Logger        *observability.Logger
	CORSOrigins   []string
	MaxFormMemory int64
	// MaxBodyBytes caps API request bodies; zero uses the httputil default
	MaxBodyBytes int64
	ServiceName  string
}

// Server represents our API server
type Server struct {
	root    *mux.Router
	router  *mux.Router
	handler http.Handler
	logger  *observability.Logger
}

// NewServer builds the router and request pipeline.
//
// Every request passes request-id, logging, recovery and CORS. API routes
// then pass rate admission, the body size cap and authentication before mux
// routing; private routes add their authorization stage. Health and metrics endpoints skip
// admission and authentication.
func NewServer(config ServerConfig) *Server {
	logger := config.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	if len(config.CORSOrigins) == 0 {
		config.CORSOrigins = []string{"*"}
	}
	if config.ServiceName == "" {
		config.ServiceName = "authcore"
	}

	s := &Server{
		root:   mux.NewRouter(),
		router: mux.NewRouter(),
		logger: logger,
	}

	if config.Health != nil {
		observability.RegisterHealthRoutes(s.root, config.Health)
	}
	if config.Registry != nil {
		s.root.Handle("/metrics", observability.MetricsHandler(config.Registry)).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(notFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(notFound)
	s.router.Use(observability.HTTPMetricsMiddleware(config.Metrics))

	s.router.HandleFunc("/", landing).Methods(http.MethodGet)
	if config.Service != nil {
		s.RegisterRoutes(NewAuthHandlers(config.Service, config.MaxFormMemory))
	}

	stages := []func(http.Handler) http.Handler{middleware.ClientAddressMiddleware}
	if config.Gate != nil {
		stages = append(stages, config.Gate.Handler)
	}
	stages = append(stages, httputil.MaxBytesMiddleware(config.MaxBodyBytes))
	if config.Authenticator != nil {
		stages = append(stages, middleware.NewAuthMiddleware(config.Authenticator).Handler)
	}
	s.root.PathPrefix("/").Handler(httputil.Chain(stages...)(s.router))

	s.handler = otelhttp.NewHandler(
		httputil.Chain(
			httputil.RequestIDMiddleware(logger),
			httputil.LoggingMiddleware,
			httputil.RecoveryMiddleware,
			httputil.CORSMiddleware(config.CORSOrigins),
		)(s.root),
		config.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// RegisterRoutes adds routes behind the admission and authentication stages
func (s *Server) RegisterRoutes(registrar RouteRegistrar) {
	registrar.RegisterRoutes(s.router)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, fmt.Sprintf("Endpoint not found: The path '%s' does not exist on this server.", r.URL.Path))
}
