package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer abc extra", "abc", true},
		{"", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"bearer abc", "", false},
		{"Bearer ", "", false},
		{"Bearer  abc", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.token, token, "header %q", tt.header)
	}
}

func TestAuthenticator_LiveToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, phoneLogin())
	require.NoError(t, err)

	identity, ok := f.authn.Authenticate(ctx, "Bearer "+result.Token)
	require.True(t, ok)
	assert.Equal(t, "acc-active", identity.AccountID)
	assert.Equal(t, "staff", identity.Role)
}

func TestAuthenticator_NoIdentityCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	verified, err := f.tokens.IssueToken(testAccount(), ClientInfo{})
	require.NoError(t, err)

	tests := map[string]string{
		"missing header":          "",
		"wrong scheme":            "Token " + verified,
		"garbage token":           "Bearer garbage",
		"verifies but no session": "Bearer " + verified,
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			identity, ok := f.authn.Authenticate(ctx, header)
			assert.False(t, ok)
			assert.Nil(t, identity)
		})
	}
}

func TestAuthenticator_SupersededTokenRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account := f.accounts.byID("acc-active")
	old, err := f.tokens.IssueToken(account, ClientInfo{})
	require.NoError(t, err)
	newer, err := f.tokens.IssueToken(account, ClientInfo{})
	require.NoError(t, err)

	f.sessions.Start(ctx, account.ID, old, time.Hour)
	f.sessions.Start(ctx, account.ID, newer, time.Hour)

	_, ok := f.authn.Authenticate(ctx, "Bearer "+old)
	assert.False(t, ok)

	_, ok = f.authn.Authenticate(ctx, "Bearer "+newer)
	assert.True(t, ok)
}

func TestAuthenticator_SlidingExpiration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, phoneLogin())
	require.NoError(t, err)

	// Each authenticated request restores the full TTL
	for i := 0; i < 3; i++ {
		f.mr.FastForward(50 * time.Minute)
		_, ok := f.authn.Authenticate(ctx, "Bearer "+result.Token)
		require.True(t, ok, "request %d", i)
	}
	assert.Equal(t, time.Hour, f.mr.TTL("auth_token:acc-active"))

	// Idle past the TTL ends the session
	f.mr.FastForward(61 * time.Minute)
	_, ok := f.authn.Authenticate(ctx, "Bearer "+result.Token)
	assert.False(t, ok)
}

func TestAuthenticator_StoreDownMeansNoIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, phoneLogin())
	require.NoError(t, err)

	f.mr.Close()

	_, ok := f.authn.Authenticate(ctx, "Bearer "+result.Token)
	assert.False(t, ok)
}

func TestAuthorize(t *testing.T) {
	staff := &Identity{AccountID: "1", Role: "staff"}

	assert.ErrorIs(t, Authorize(nil), ErrUnauthorized)
	assert.Equal(t, MsgMissingToken, MessageOf(Authorize(nil, "staff")))

	assert.NoError(t, Authorize(staff))
	assert.NoError(t, Authorize(staff, "staff", "admin"))

	err := Authorize(staff, "admin")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, MsgForbidden, MessageOf(err))
}
