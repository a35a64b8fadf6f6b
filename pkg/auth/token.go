package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by VerifyToken for any signature, algorithm or encoding failure
var ErrInvalidToken = errors.New("invalid token")

// supportedAlgorithms maps configured names to HMAC signing methods
var supportedAlgorithms = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// sessionClaims is the wire form of a session token. It carries no exp
// claim; liveness is decided by the session registry TTL.
type sessionClaims struct {
	UserID       string `json:"user_id"`
	UserRole     string `json:"user_role"`
	UserStatus   string `json:"user_status,omitempty"`
	UserPhone    string `json:"user_phone,omitempty"`
	UserUsername string `json:"user_username,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	City         string `json:"city"`
	Loc          string `json:"loc"`
	Device       string `json:"device"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a shared secret
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenService creates a token service for one of HS256, HS384 or HS512
func NewTokenService(secret, algorithm string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	method, ok := supportedAlgorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}, nil
}

// Algorithm returns the configured signing algorithm name
func (s *TokenService) Algorithm() string {
	return s.method.Alg()
}

// IssueToken signs the account's claims merged with the caller context and an issue time
func (s *TokenService) IssueToken(account *Account, client ClientInfo) (string, error) {
	if account == nil {
		return "", errors.New("account is required")
	}

	claims := sessionClaims{
		UserID:       account.ID,
		UserRole:     account.Role,
		UserStatus:   string(account.Status),
		UserPhone:    account.Phone,
		UserUsername: account.Username,
		UserEmail:    account.Email,
		UserName:     account.Name,
		City:         client.Location.City,
		Loc:          client.Location.Loc,
		Device:       client.Device,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature, algorithm and encoding of token and returns its claims.
// It never consults the credential store.
func (s *TokenService) VerifyToken(token string) (*Identity, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{
		AccountID: claims.UserID,
		Role:      claims.UserRole,
		Status:    AccountStatus(claims.UserStatus),
		Phone:     claims.UserPhone,
		Username:  claims.UserUsername,
		Email:     claims.UserEmail,
		Name:      claims.UserName,
		City:      claims.City,
		Loc:       claims.Loc,
		Device:    claims.Device,
		Token:     token,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
