// Package postgres implements the relational account store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/setara/authcore/pkg/auth"
)

const accountColumns = `user_id, user_phone, user_username, user_email, user_name, user_password,
	user_role, user_status, user_is_verified, user_is_login, user_created_at, user_updated_at`

// schemaSQL creates the account table used by the login flow
const schemaSQL = `
CREATE TABLE IF NOT EXISTS "tblUser" (
	user_id          VARCHAR(255) PRIMARY KEY,
	user_phone       VARCHAR(17) UNIQUE,
	user_username    TEXT UNIQUE,
	user_email       TEXT,
	user_name        TEXT,
	user_password    TEXT,
	user_is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	user_is_login    BOOLEAN NOT NULL DEFAULT FALSE,
	user_role        TEXT NOT NULL,
	user_status      TEXT NOT NULL CHECK (user_status IN ('active', 'inactive', 'deleted')),
	user_created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	user_updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// identifierColumns maps lookup kinds to columns. Unknown kinds fall back to user_id.
var identifierColumns = map[auth.IdentifierKind]string{
	auth.IdentifierPhone:    "user_phone",
	auth.IdentifierUsername: "user_username",
	auth.IdentifierEmail:    "user_email",
	auth.IdentifierID:       "user_id",
}

// updatableColumns lists the fields UpdateFields accepts
var updatableColumns = map[string]bool{
	auth.FieldLoginFlag: true,
	auth.FieldStatus:    true,
	auth.FieldPassword:  true,
	auth.FieldName:      true,
	auth.FieldEmail:     true,
	auth.FieldPhone:     true,
	auth.FieldUsername:  true,
	auth.FieldVerified:  true,
}

// ErrUnknownField is returned by UpdateFields for fields outside the allow-list
var ErrUnknownField = errors.New("unknown account field")

// AccountStore implements auth.AccountStore
type AccountStore struct {
	db *sql.DB
}

var _ auth.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an account store over db
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// EnsureSchema creates the account table if it does not exist
func (s *AccountStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create account schema: %w", err)
	}
	return nil
}

// FindByIdentifier returns the first account matching value in the kind column
// with one of statuses, or (nil, nil)
func (s *AccountStore) FindByIdentifier(ctx context.Context, kind auth.IdentifierKind, value string, statuses []auth.AccountStatus) (*auth.Account, error) {
	column, ok := identifierColumns[kind]
	if !ok {
		column = "user_id"
	}
	if len(statuses) == 0 {
		statuses = auth.AllStatuses
	}

	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	query := fmt.Sprintf(`SELECT %s FROM "tblUser" WHERE %s = $1 AND user_status = ANY($2) LIMIT 1`, accountColumns, column)

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, value, pq.Array(names)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by %s: %w", kind, err)
	}
	return account, nil
}

// UpdateFields updates whitelisted columns of account and bumps user_updated_at.
// It returns false without error for a nil account.
func (s *AccountStore) UpdateFields(ctx context.Context, account *auth.Account, fields map[string]interface{}) (bool, error) {
	if account == nil {
		return false, nil
	}
	if len(fields) == 0 {
		return true, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !updatableColumns[k] {
			return false, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, fields[k])
	}
	sets = append(sets, "user_updated_at = NOW()")
	args = append(args, account.ID)

	query := fmt.Sprintf(`UPDATE "tblUser" SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if v, ok := fields[auth.FieldLoginFlag].(bool); ok {
		account.LoginFlag = v
	}
	return rows > 0, nil
}

// CreateAccount inserts account, assigning a UUID when ID is empty.
// PasswordHash must already be a bcrypt hash.
func (s *AccountStore) CreateAccount(ctx context.Context, account *auth.Account) error {
	if account == nil {
		return errors.New("account is required")
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Status == "" {
		account.Status = auth.StatusActive
	}
	if account.Role == "" {
		return errors.New("account role is required")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO "tblUser" (user_id, user_phone, user_username, user_email, user_name, user_password,
			user_role, user_status, user_is_verified, user_is_login, user_created_at, user_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $10)`,
		account.ID,
		nullString(account.Phone),
		nullString(account.Username),
		nullString(account.Email),
		nullString(account.Name),
		account.PasswordHash,
		account.Role,
		string(account.Status),
		account.Verified,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func scanAccount(row *sql.Row) (*auth.Account, error) {
	var (
		a                                  auth.Account
		phone, username, email, name, hash sql.NullString
		status                             string
	)
	err := row.Scan(
		&a.ID, &phone, &username, &email, &name, &hash,
		&a.Role, &status, &a.Verified, &a.LoginFlag, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Phone = phone.String
	a.Username = username.String
	a.Email = email.String
	a.Name = name.String
	a.PasswordHash = hash.String
	a.Status = auth.AccountStatus(status)
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
