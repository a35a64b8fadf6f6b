package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/setara/authcore/pkg/session"
	"github.com/setara/authcore/pkg/storage/redisstore"
)

// memoryAccounts is an in-memory AccountStore
type memoryAccounts struct {
	mu       sync.Mutex
	accounts []*Account
	findErr  error
	updates  []map[string]interface{}
}

func (m *memoryAccounts) FindByIdentifier(_ context.Context, kind IdentifierKind, value string, statuses []AccountStatus) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.accounts {
		var field string
		switch kind {
		case IdentifierPhone:
			field = a.Phone
		case IdentifierUsername:
			field = a.Username
		case IdentifierEmail:
			field = a.Email
		default:
			field = a.ID
		}
		if field != value {
			continue
		}
		for _, s := range statuses {
			if a.Status == s {
				copied := *a
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (m *memoryAccounts) UpdateFields(_ context.Context, account *Account, fields map[string]interface{}) (bool, error) {
	if account == nil {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates = append(m.updates, fields)
	for _, a := range m.accounts {
		if a.ID != account.ID {
			continue
		}
		if v, ok := fields[FieldLoginFlag].(bool); ok {
			a.LoginFlag = v
		}
		return true, nil
	}
	return false, errors.New("account vanished")
}

func (m *memoryAccounts) byID(id string) *Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

type staticGeo struct {
	mu    sync.Mutex
	loc   Location
	calls []string
}

func (g *staticGeo) Lookup(_ context.Context, ip string) Location {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, ip)
	return g.loc
}

type fixture struct {
	service  *Service
	authn    *Authenticator
	accounts *memoryAccounts
	sessions *session.Registry
	tokens   *TokenService
	geo      *staticGeo
	mr       *miniredis.Miniredis
}

const fixturePassword = "Rahasia#123"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.HashPassword(fixturePassword)
	require.NoError(t, err)

	accounts := &memoryAccounts{accounts: []*Account{
		{ID: "acc-active", Phone: "+6281234567890", Username: "budi", Email: "budi@example.com", Role: "staff", Status: StatusActive, PasswordHash: hash},
		{ID: "acc-inactive", Phone: "+6281111111111", Username: "sari", Role: "staff", Status: StatusInactive, PasswordHash: hash},
		{ID: "acc-deleted", Phone: "+6282222222222", Username: "gone", Role: "staff", Status: StatusDeleted, PasswordHash: hash},
	}}

	tokens, err := NewTokenService("test-secret-key", "HS256")
	require.NoError(t, err)

	sessions := session.NewRegistry(redisstore.New(client, nil, nil), nil)
	geo := &staticGeo{loc: Location{City: "Jakarta", Loc: "-6.2,106.8"}}

	return &fixture{
		service: NewService(ServiceDeps{
			Accounts: accounts,
			Sessions: sessions,
			Tokens:   tokens,
			Hasher:   hasher,
			Geo:      geo,
			TTL:      time.Hour,
		}),
		authn:    NewAuthenticator(tokens, sessions, time.Hour, nil, nil),
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		geo:      geo,
		mr:       mr,
	}
}

func phoneLogin() LoginRequest {
	return LoginRequest{
		Method:            IdentifierPhone,
		Identifier:        "+6281234567890",
		Password:          fixturePassword,
		NotificationToken: "fcm-123",
		RealIP:            "203.0.113.7",
		UserAgent:         "okhttp/4.9",
	}
}
