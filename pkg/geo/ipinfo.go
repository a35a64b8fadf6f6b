// Package geo resolves client IP addresses to a coarse location.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/observability"
)

// Lookup results recorded by Metrics.RecordGeoLookup
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// maxResponseBytes caps how much of the provider response is read
const maxResponseBytes = 64 << 10

// Config configures an IPInfoLocator
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns the public ipinfo.io endpoint with conservative limits
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://ipinfo.io",
		Timeout:   3 * time.Second,
		CacheSize: 4096,
		CacheTTL:  time.Hour,
	}
}

// IPInfoLocator implements auth.GeoLocator against the ipinfo.io JSON API.
// Lookups never fail; any error yields an empty Location.
type IPInfoLocator struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	cache   *lru.LRU[string, auth.Location]
	group   singleflight.Group
	logger  *observability.Logger
	metrics *observability.Metrics
}

var _ auth.GeoLocator = (*IPInfoLocator)(nil)

// NewIPInfoLocator creates a locator. A nil client gets an otelhttp-instrumented default.
func NewIPInfoLocator(config Config, client *http.Client, logger *observability.Logger, metrics *observability.Metrics) *IPInfoLocator {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.CacheSize <= 0 {
		config.CacheSize = defaults.CacheSize
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return &IPInfoLocator{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		timeout: config.Timeout,
		client:  client,
		cache:   lru.NewLRU[string, auth.Location](config.CacheSize, nil, config.CacheTTL),
		logger:  logger.WithField("component", "geo"),
		metrics: metrics,
	}
}

// Lookup returns the city and "lat,long" for ip
func (l *IPInfoLocator) Lookup(ctx context.Context, ip string) auth.Location {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		l.metrics.RecordGeoLookup(ResultSkipped)
		return auth.Location{}
	}

	if loc, ok := l.cache.Get(ip); ok {
		l.metrics.RecordGeoLookup(ResultHit)
		return loc
	}

	// Concurrent logins from one address share a single upstream call
	v, err, _ := l.group.Do(ip, func() (interface{}, error) {
		if loc, ok := l.cache.Get(ip); ok {
			return loc, nil
		}
		loc, err := l.fetch(ctx, ip)
		if err != nil {
			return auth.Location{}, err
		}
		l.cache.Add(ip, loc)
		return loc, nil
	})
	if err != nil {
		l.metrics.RecordGeoLookup(ResultError)
		l.logger.WithError(err).WithField("ip", ip).Warn("geolocation lookup failed")
		return auth.Location{}
	}

	l.metrics.RecordGeoLookup(ResultMiss)
	return v.(auth.Location)
}

type ipinfoResponse struct {
	City string `json:"city"`
	Loc  string `json:"loc"`
}

func (l *IPInfoLocator) fetch(ctx context.Context, ip string) (auth.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/json", l.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return auth.Location{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return auth.Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return auth.Location{}, fmt.Errorf("geolocation provider returned status %d", resp.StatusCode)
	}

	var body ipinfoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return auth.Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	return auth.Location{City: body.City, Loc: body.Loc}, nil
}
