package auth

import "time"

// AccountStatus is the lifecycle state of an account
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusDeleted  AccountStatus = "deleted"
)

// LoginStatuses are the statuses an account may have to be found at login
var LoginStatuses = []AccountStatus{StatusActive, StatusInactive}

// AllStatuses matches any account
var AllStatuses = []AccountStatus{StatusActive, StatusInactive, StatusDeleted}

// IdentifierKind names the account field used for lookup
type IdentifierKind string

const (
	IdentifierPhone    IdentifierKind = "phone"
	IdentifierUsername IdentifierKind = "username"
	IdentifierEmail    IdentifierKind = "email"
	IdentifierID       IdentifierKind = "id"
)

// Account is the persisted user record. The core only ever changes LoginFlag.
type Account struct {
	ID           string        `json:"user_id"`
	Phone        string        `json:"user_phone,omitempty"`
	Username     string        `json:"user_username,omitempty"`
	Email        string        `json:"user_email,omitempty"`
	Name         string        `json:"user_name,omitempty"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"user_role"`
	Status       AccountStatus `json:"user_status"`
	Verified     bool          `json:"user_is_verified"`
	LoginFlag    bool          `json:"user_is_login"`
	CreatedAt    time.Time     `json:"user_created_at"`
	UpdatedAt    time.Time     `json:"user_updated_at"`
}

// Account fields that UpdateFields may change
const (
	FieldLoginFlag = "user_is_login"
	FieldStatus    = "user_status"
	FieldPassword  = "user_password"
	FieldName      = "user_name"
	FieldEmail     = "user_email"
	FieldPhone     = "user_phone"
	FieldUsername  = "user_username"
	FieldVerified  = "user_is_verified"
)

// Location is a best-effort geolocation of a client address
type Location struct {
	City string `json:"city,omitempty"`
	Loc  string `json:"loc,omitempty"`
}

// ClientInfo carries the caller context embedded into a session token
type ClientInfo struct {
	Location Location
	Device   string
}

// Identity holds the verified claims of a session token. It exists for one
// request only and is never persisted.
type Identity struct {
	AccountID string
	Role      string
	Status    AccountStatus
	Phone     string
	Username  string
	Email     string
	Name      string
	City      string
	Loc       string
	Device    string
	IssuedAt  time.Time

	// Token is the raw bearer token the identity was decoded from
	Token string
}

// HasRole reports whether the identity's role is one of roles
func (i *Identity) HasRole(roles ...string) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if r == i.Role {
			return true
		}
	}
	return false
}

// LoginRequest is a validated login form plus the request metadata login needs
type LoginRequest struct {
	Method            IdentifierKind
	Identifier        string
	Password          string
	NotificationToken string

	// RealIP is the X-Real-IP header value used for geolocation
	RealIP string
	// UserAgent becomes the device claim
	UserAgent string
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string
	Role  string
}
