// Package session enforces one live session token per account on top of a
// storage.CredentialStore.
//
// A token is live when it verifies and is byte-for-byte equal to the value at
// auth_token:{account_id}. The token carries no expiry of its own; the key's
// TTL is the session lifetime, and Refresh slides it on every authenticated
// request.
package session

import (
	"context"
	"time"

	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/storage"
)

// Registry tracks session and notification tokens per account
type Registry struct {
	store  storage.CredentialStore
	logger *observability.Logger
}

// NewRegistry creates a registry over store
func NewRegistry(store storage.CredentialStore, logger *observability.Logger) *Registry {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Registry{
		store:  store,
		logger: logger.WithField("component", "session_registry"),
	}
}

// Start records token as the account's live session, replacing any previous one
func (r *Registry) Start(ctx context.Context, accountID, token string, ttl time.Duration) bool {
	ok := r.store.Set(ctx, storage.AuthTokenKey(accountID), token, ttl)
	if ok {
		r.logger.WithField("account_id", accountID).Debug("Session started")
	}
	return ok
}

// Current returns the live session token of the account, if any
func (r *Registry) Current(ctx context.Context, accountID string) (string, bool) {
	return r.store.Get(ctx, storage.AuthTokenKey(accountID))
}

// HasSession reports whether the account has a live session
func (r *Registry) HasSession(ctx context.Context, accountID string) bool {
	_, ok := r.Current(ctx, accountID)
	return ok
}

// IsLive reports whether token is the account's stored session token
func (r *Registry) IsLive(ctx context.Context, accountID, token string) bool {
	stored, ok := r.Current(ctx, accountID)
	return ok && stored == token
}

// Refresh reapplies ttl to the session key without changing its value.
// token is accepted for symmetry with Start; the stored value is never rewritten.
func (r *Registry) Refresh(ctx context.Context, accountID, token string, ttl time.Duration) bool {
	return r.store.Expire(ctx, storage.AuthTokenKey(accountID), ttl)
}

// End removes the session and notification tokens. It is idempotent and
// returns how many keys were removed.
func (r *Registry) End(ctx context.Context, accountID string) int64 {
	removed := r.store.Delete(ctx,
		storage.AuthTokenKey(accountID),
		storage.NotificationTokenKey(accountID),
	)
	r.logger.WithFields(map[string]interface{}{
		"account_id": accountID,
		"removed":    removed,
	}).Debug("Session ended")
	return removed
}

// CacheNotificationToken stores the account's push notification token
func (r *Registry) CacheNotificationToken(ctx context.Context, accountID, token string, ttl time.Duration) bool {
	return r.store.Set(ctx, storage.NotificationTokenKey(accountID), token, ttl)
}

// NotificationToken returns the cached push notification token
func (r *Registry) NotificationToken(ctx context.Context, accountID string) (string, bool) {
	return r.store.Get(ctx, storage.NotificationTokenKey(accountID))
}
