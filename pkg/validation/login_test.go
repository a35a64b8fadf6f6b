package validation

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setara/authcore/pkg/auth"
)

func validForm() url.Values {
	return url.Values{
		FieldLoginMethod:       {"phone"},
		FieldUserIdentifier:    {"+6281234567890"},
		FieldUserPassword:      {"ValidPassword1!"},
		FieldNotificationToken: {"a-valid-fcm-token-string"},
	}
}

func TestValidateLogin_ValidMethods(t *testing.T) {
	tests := []struct {
		method     string
		identifier string
		kind       auth.IdentifierKind
	}{
		{"phone", "+6281234567890", auth.IdentifierPhone},
		{"email", "test.user@example.com", auth.IdentifierEmail},
		{"username", "testuser123", auth.IdentifierUsername},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			values := validForm()
			values.Set(FieldLoginMethod, tt.method)
			values.Set(FieldUserIdentifier, tt.identifier)

			form, errs := ValidateLogin(values)
			require.False(t, errs.HasErrors(), errs)
			assert.Equal(t, tt.kind, form.Method)
			assert.Equal(t, tt.identifier, form.Identifier)
			assert.Equal(t, "ValidPassword1!", form.Password)
			assert.Equal(t, "a-valid-fcm-token-string", form.NotificationToken)
		})
	}
}

func TestValidateLogin_MissingRequiredFields(t *testing.T) {
	for _, field := range []string{FieldLoginMethod, FieldUserPassword, FieldNotificationToken} {
		t.Run(field, func(t *testing.T) {
			values := validForm()
			values.Del(field)

			form, errs := ValidateLogin(values)
			assert.Nil(t, form)
			assert.Equal(t, []string{MsgRequired}, errs[field])
		})
	}
}

func TestValidateLogin_MissingIdentifier(t *testing.T) {
	values := validForm()
	values.Del(FieldUserIdentifier)

	_, errs := ValidateLogin(values)
	assert.Equal(t, Errors{FieldUserIdentifier: {MsgRequired}}, errs)
}

func TestValidateLogin_InvalidMethod(t *testing.T) {
	values := validForm()
	values.Set(FieldLoginMethod, "facebook")

	_, errs := ValidateLogin(values)
	require.Contains(t, errs, FieldLoginMethod)
	assert.Contains(t, errs[FieldLoginMethod][0], "must be one of")
}

func TestValidateLogin_PasswordRules(t *testing.T) {
	tests := map[string]string{
		"too short":         "short",
		"no symbol":         "NoSpecialChar1",
		"no uppercase":      "nouppercase1!",
		"no digit":          "NoDigitChar!",
		"seven with all":    "Ab1!xyz",
		"symbol not listed": "Password1~",
	}

	for name, password := range tests {
		t.Run(name, func(t *testing.T) {
			values := validForm()
			values.Set(FieldUserPassword, password)

			_, errs := ValidateLogin(values)
			assert.Equal(t, []string{MsgPasswordRules}, errs[FieldUserPassword])
		})
	}
}

func TestValidateLogin_PhoneIdentifier(t *testing.T) {
	for _, phone := range []string{"081234567890", "+6212345", "+628123456789012345", "not-a-phone-number", ""} {
		t.Run(phone, func(t *testing.T) {
			values := validForm()
			values.Set(FieldUserIdentifier, phone)

			_, errs := ValidateLogin(values)
			assert.Equal(t, Errors{FieldUserIdentifier: {MsgPhoneFormat}}, errs)
		})
	}
}

func TestValidateLogin_EmailIdentifier(t *testing.T) {
	for _, email := range []string{"not-a-valid-email", "Budi <budi@example.com>", "budi@example", "@example.com"} {
		t.Run(email, func(t *testing.T) {
			values := validForm()
			values.Set(FieldLoginMethod, "email")
			values.Set(FieldUserIdentifier, email)

			_, errs := ValidateLogin(values)
			assert.Equal(t, Errors{FieldUserIdentifier: {MsgEmailFormat}}, errs)
		})
	}
}

func TestValidateLogin_UsernameIdentifier(t *testing.T) {
	values := validForm()
	values.Set(FieldLoginMethod, "username")
	values.Set(FieldUserIdentifier, "ab")

	_, errs := ValidateLogin(values)
	assert.Contains(t, errs[FieldUserIdentifier][0], "at least 3 characters long")
}

func TestValidateLogin_IdentifierCheckedAfterFields(t *testing.T) {
	values := validForm()
	values.Set(FieldUserIdentifier, "0812")
	values.Set(FieldUserPassword, "weak")

	_, errs := ValidateLogin(values)
	assert.Contains(t, errs, FieldUserPassword)
	assert.NotContains(t, errs, FieldUserIdentifier)
}

func TestValidateLogin_CollectsAllFieldErrors(t *testing.T) {
	_, errs := ValidateLogin(url.Values{})
	assert.Len(t, errs, 3)
	assert.Contains(t, errs.Error(), "login_method: Missing data for required field.")
}

func TestValidateLogin_UnknownFields(t *testing.T) {
	values := validForm()
	values.Set("is_admin", "true")
	values.Set("user_role", "owner")

	form, errs := ValidateLogin(values)
	assert.Nil(t, form)
	assert.Equal(t, Errors{
		"is_admin":  {MsgUnknownField},
		"user_role": {MsgUnknownField},
	}, errs)
}

func TestValidateLogin_UnknownFieldSkipsIdentifierCheck(t *testing.T) {
	values := validForm()
	values.Set(FieldUserIdentifier, "0812")
	values.Set("extra", "x")

	_, errs := ValidateLogin(values)
	assert.Equal(t, Errors{"extra": {MsgUnknownField}}, errs)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("budi@example.co.id"))
	assert.True(t, ValidEmail("ops@localhost"))
	assert.False(t, ValidEmail("budi@example."))
	assert.False(t, ValidEmail(" budi@example.com"))
}
