package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := Unauthorized(MsgWrongPassword)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrForbidden)

	wrapped := fmt.Errorf("login: %w", err)
	assert.ErrorIs(t, wrapped, ErrUnauthorized)
	assert.Equal(t, KindUnauthorized, KindOf(wrapped))
	assert.Equal(t, MsgWrongPassword, MessageOf(wrapped))
}

func TestKindOf_Untyped(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, MsgInternal, MessageOf(err))
}

func TestInternal_HidesDetail(t *testing.T) {
	cause := errors.New("pq: password authentication failed")
	err := Internal(cause)

	assert.Equal(t, MsgInternal, MessageOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestForbidden_DefaultMessage(t *testing.T) {
	assert.Equal(t, MsgForbidden, Forbidden("").Message)
	assert.Equal(t, "nope", Forbidden("nope").Message)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{NotFound(MsgAccountNotFound), KindNotFound},
		{Unauthorized(MsgActiveSession), KindUnauthorized},
		{Forbidden(""), KindForbidden},
		{RateLimited(), KindRateLimited},
		{Invalid("bad"), KindInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.err.Kind)
		assert.Contains(t, tt.err.Error(), string(tt.kind))
	}
	assert.Equal(t, MsgRateLimited, RateLimited().Message)
}
