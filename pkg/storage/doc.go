// Package storage defines the persistence contracts shared by authcore components.
//
// # Credential Store
//
// CredentialStore is the key-value abstraction behind sessions and rate
// admission. Three key families live in it:
//
//	auth_token:{account_id}          live session token, TTL = session expiration
//	notification_token:{account_id}  push notification token, same TTL
//	rate_limit:{client_address}      admission counter, TTL = window
//
// Implementations swallow transport failures and report safe defaults, so a
// store outage never surfaces as an error to callers. The Redis
// implementation lives in pkg/storage/redisstore.
//
// # Account Store
//
// The relational account store lives in pkg/storage/postgres and implements
// auth.AccountStore.
//
// # Related Packages
//
//   - pkg/session: Session registry built on CredentialStore
//   - pkg/middleware: Rate admission gate built on CredentialStore
//   - pkg/config: Storage configuration
package storage
