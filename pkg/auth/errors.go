package auth

import (
	"errors"
	"fmt"
)

// Kind classifies failures that reach the transport boundary
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindRateLimited      Kind = "rate_limited"
	KindInvalid          Kind = "invalid"
	KindStoreUnavailable Kind = "store_unavailable"
	KindInternal         Kind = "internal"
)

// User-facing messages
const (
	MsgAccountNotFound  = "akun pengguna tidak ditemukan"
	MsgAccountInactive  = "akun anda belum aktif, mohon hubungi kepala gudang"
	MsgWrongPassword    = "password anda tidak sesuai"
	MsgActiveSession    = "mohon logout terlebih dahulu akun anda di device lain"
	MsgMissingToken     = "missing/invalid token"
	MsgForbidden        = "You do not have permission to access this resource."
	MsgRateLimited      = "Rate limit exceeded"
	MsgStoreUnavailable = "service temporarily unavailable"
	MsgInternal         = "internal server error"
)

// Error is a typed failure with a stable kind and a user-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind, so errors.Is(err, ErrUnauthorized) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrRateLimited  = &Error{Kind: KindRateLimited}
	ErrInvalid      = &Error{Kind: KindInvalid}
)

// NotFound returns a KindNotFound error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unauthorized returns a KindUnauthorized error
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden returns a KindForbidden error
func Forbidden(message string) *Error {
	if message == "" {
		message = MsgForbidden
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// RateLimited returns a KindRateLimited error
func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: MsgRateLimited}
}

// Invalid returns a KindInvalid error
func Invalid(message string) *Error {
	return &Error{Kind: KindInvalid, Message: message}
}

// Internal wraps an unexpected failure. Its message never carries err's detail.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// KindOf returns the kind of err, KindInternal for untyped errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgInternal
}
