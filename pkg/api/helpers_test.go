package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/geo"
	"github.com/setara/authcore/pkg/middleware"
	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/session"
	"github.com/setara/authcore/pkg/storage/redisstore"
)

const testPassword = "Rahasia#123"

// accountTable is an in-memory auth.AccountStore
type accountTable struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
}

func (a *accountTable) FindByIdentifier(_ context.Context, kind auth.IdentifierKind, value string, statuses []auth.AccountStatus) (*auth.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, acc := range a.accounts {
		var v string
		switch kind {
		case auth.IdentifierPhone:
			v = acc.Phone
		case auth.IdentifierUsername:
			v = acc.Username
		case auth.IdentifierEmail:
			v = acc.Email
		default:
			v = acc.ID
		}
		if v != value {
			continue
		}
		for _, s := range statuses {
			if acc.Status == s {
				copied := *acc
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (a *accountTable) UpdateFields(_ context.Context, account *auth.Account, fields map[string]interface{}) (bool, error) {
	if account == nil {
		return false, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	stored, ok := a.accounts[account.ID]
	if !ok {
		return false, nil
	}
	if v, ok := fields[auth.FieldLoginFlag].(bool); ok {
		stored.LoginFlag = v
	}
	return true, nil
}

func (a *accountTable) loginFlag(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accounts[id].LoginFlag
}

type testEnv struct {
	server   *Server
	accounts *accountTable
	tokens   *auth.TokenService
	mr       *miniredis.Miniredis
	metrics  *observability.Metrics
}

func newTestEnv(t *testing.T, rateLimit int64) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	store := redisstore.New(client, nil, metrics)
	sessions := session.NewRegistry(store, nil)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.HashPassword(testPassword)
	require.NoError(t, err)

	accounts := &accountTable{accounts: map[string]*auth.Account{
		"acc-staff":    {ID: "acc-staff", Phone: "+6281234567890", Username: "budi", Email: "budi@example.com", Role: "staff", Status: auth.StatusActive, PasswordHash: hash},
		"acc-inactive": {ID: "acc-inactive", Phone: "+6281111111111", Role: "staff", Status: auth.StatusInactive, PasswordHash: hash},
	}}

	tokens, err := auth.NewTokenService("api-test-secret", "HS256")
	require.NoError(t, err)

	ipinfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"city":"Jakarta","loc":"-6.2146,106.8451"}`))
	}))
	t.Cleanup(ipinfo.Close)
	locator := geo.NewIPInfoLocator(geo.Config{BaseURL: ipinfo.URL, Timeout: time.Second}, ipinfo.Client(), nil, metrics)

	service := auth.NewService(auth.ServiceDeps{
		Accounts: accounts,
		Sessions: sessions,
		Tokens:   tokens,
		Hasher:   hasher,
		Geo:      locator,
		TTL:      time.Hour,
		Metrics:  metrics,
	})

	server := NewServer(ServerConfig{
		Service:       service,
		Authenticator: auth.NewAuthenticator(tokens, sessions, time.Hour, nil, metrics),
		Gate:          middleware.NewAdmissionGate(store, middleware.RateLimitConfig{Requests: rateLimit, Window: time.Second}, nil, metrics),
		Health:        observability.NewHealthChecker("2.0.0").WithRedis(client),
		Metrics:       metrics,
		Registry:      registry,
	})

	return &testEnv{server: server, accounts: accounts, tokens: tokens, mr: mr, metrics: metrics}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func loginRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", "okhttp/4.9.2")
	req.Header.Set("X-Real-IP", "203.0.113.50")
	return req
}

func phoneLoginFields() map[string]string {
	return map[string]string{
		"login_method":            "phone",
		"user_identifier":         "+6281234567890",
		"user_password":           testPassword,
		"user_notification_token": "fcm-token-1",
	}
}

func logoutRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
