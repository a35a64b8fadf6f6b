package auth

import (
	"context"
	"time"
)

// AccountStore is the relational account repository
type AccountStore interface {
	// FindByIdentifier returns the first account whose kind field equals value
	// and whose status is one of statuses. It returns (nil, nil) when none match.
	FindByIdentifier(ctx context.Context, kind IdentifierKind, value string, statuses []AccountStatus) (*Account, error)

	// UpdateFields sets the named fields on account. It returns false without
	// error when account is nil.
	UpdateFields(ctx context.Context, account *Account, fields map[string]interface{}) (bool, error)
}

// GeoLocator resolves a client address to a city and coordinates.
// Lookup never fails; an unknown address yields an empty Location.
type GeoLocator interface {
	Lookup(ctx context.Context, ip string) Location
}

// SessionStore tracks the single live session token of each account
type SessionStore interface {
	Start(ctx context.Context, accountID, token string, ttl time.Duration) bool
	HasSession(ctx context.Context, accountID string) bool
	IsLive(ctx context.Context, accountID, token string) bool
	Refresh(ctx context.Context, accountID, token string, ttl time.Duration) bool
	End(ctx context.Context, accountID string) int64
	CacheNotificationToken(ctx context.Context, accountID, token string, ttl time.Duration) bool
}

// NoopGeoLocator returns empty locations
type NoopGeoLocator struct{}

// Lookup implements GeoLocator
func (NoopGeoLocator) Lookup(context.Context, string) Location {
	return Location{}
}
