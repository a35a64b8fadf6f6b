//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/storage"
)

func startPostgres(t *testing.T) *AccountStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("authcore_test"),
		tcpostgres.WithUsername("authcore"),
		tcpostgres.WithPassword("authcore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	config := storage.DefaultConfig()
	config.PostgresURL = connStr
	db, err := Open(ctx, config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewAccountStore(db)
	require.NoError(t, store.EnsureSchema(ctx))
	// Idempotent
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestAccountStore_Integration(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	active := &auth.Account{Phone: "+6281234567890", Username: "budi", Email: "budi@example.com", Name: "Budi", PasswordHash: "$2a$hash", Role: "staff"}
	inactive := &auth.Account{Phone: "+6281111111111", Username: "sari", PasswordHash: "$2a$hash", Role: "staff", Status: auth.StatusInactive}
	deleted := &auth.Account{Phone: "+6282222222222", PasswordHash: "$2a$hash", Role: "staff", Status: auth.StatusDeleted}
	for _, a := range []*auth.Account{active, inactive, deleted} {
		require.NoError(t, store.CreateAccount(ctx, a))
	}

	t.Run("find by each identifier", func(t *testing.T) {
		for kind, value := range map[auth.IdentifierKind]string{
			auth.IdentifierPhone:    active.Phone,
			auth.IdentifierUsername: active.Username,
			auth.IdentifierEmail:    active.Email,
			auth.IdentifierID:       active.ID,
		} {
			found, err := store.FindByIdentifier(ctx, kind, value, auth.LoginStatuses)
			require.NoError(t, err)
			require.NotNil(t, found, "kind %s", kind)
			assert.Equal(t, active.ID, found.ID)
		}
	})

	t.Run("status filter applies", func(t *testing.T) {
		found, err := store.FindByIdentifier(ctx, auth.IdentifierPhone, inactive.Phone, auth.LoginStatuses)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, auth.StatusInactive, found.Status)

		found, err = store.FindByIdentifier(ctx, auth.IdentifierPhone, deleted.Phone, auth.LoginStatuses)
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = store.FindByIdentifier(ctx, auth.IdentifierID, deleted.ID, auth.AllStatuses)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("update login flag", func(t *testing.T) {
		ok, err := store.UpdateFields(ctx, active, map[string]interface{}{auth.FieldLoginFlag: true})
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := store.FindByIdentifier(ctx, auth.IdentifierID, active.ID, auth.AllStatuses)
		require.NoError(t, err)
		assert.True(t, found.LoginFlag)
		assert.True(t, !found.UpdatedAt.Before(found.CreatedAt))
	})
}
