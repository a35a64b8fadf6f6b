package validation

import (
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/setara/authcore/pkg/auth"
)

// Form field names of the login request
const (
	FieldLoginMethod       = "login_method"
	FieldUserIdentifier    = "user_identifier"
	FieldUserPassword      = "user_password"
	FieldNotificationToken = "user_notification_token"
)

// Messages returned to the caller
const (
	MsgRequired      = "Missing data for required field."
	MsgUnknownField  = "Kolom tidak dikenal."
	MsgLoginMethod   = "Login method must be one of: phone, username, email"
	MsgPhoneFormat   = "Format nomor telepon tidak valid. Harus dimulai dengan +62 dan memiliki 9-13 digit."
	MsgEmailFormat   = "Email tidak valid."
	MsgUsernameShort = "Username must be at least 3 characters long."
	MsgPasswordRules = "Password harus berjumlah minimal 8 karakter dan memiliki sebuah huruf besar, sebuah angka, dan sebuah simbol."
)

// MinUsernameLength is the shortest accepted username identifier
const MinUsernameLength = 3

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// passwordSymbols are the characters that satisfy the symbol rule
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

var phonePattern = regexp.MustCompile(`^\+62\d{9,13}$`)

var loginFields = map[string]bool{
	FieldLoginMethod:       true,
	FieldUserIdentifier:    true,
	FieldUserPassword:      true,
	FieldNotificationToken: true,
}

var loginMethods = map[string]auth.IdentifierKind{
	"phone":    auth.IdentifierPhone,
	"username": auth.IdentifierUsername,
	"email":    auth.IdentifierEmail,
}

// Errors maps a field name to its violation messages
type Errors map[string][]string

// Add records a message for field
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// HasErrors reports whether any field failed
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Error implements error
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// LoginForm is a validated login submission
type LoginForm struct {
	Method            auth.IdentifierKind
	Identifier        string
	Password          string
	NotificationToken string
}

// ValidateLogin checks a login form. Field rules and the unknown-field check
// run first; the identifier format for the chosen method is only checked once
// every field passes.
func ValidateLogin(values url.Values) (*LoginForm, Errors) {
	errs := Errors{}

	for key := range values {
		if !loginFields[key] {
			errs.Add(key, MsgUnknownField)
		}
	}

	method, hasMethod := loginMethods[values.Get(FieldLoginMethod)]
	switch {
	case !values.Has(FieldLoginMethod):
		errs.Add(FieldLoginMethod, MsgRequired)
	case !hasMethod:
		errs.Add(FieldLoginMethod, MsgLoginMethod)
	}

	password := values.Get(FieldUserPassword)
	switch {
	case !values.Has(FieldUserPassword):
		errs.Add(FieldUserPassword, MsgRequired)
	case !StrongPassword(password):
		errs.Add(FieldUserPassword, MsgPasswordRules)
	}

	if !values.Has(FieldNotificationToken) {
		errs.Add(FieldNotificationToken, MsgRequired)
	}

	if errs.HasErrors() {
		return nil, errs
	}

	identifier := values.Get(FieldUserIdentifier)
	if !values.Has(FieldUserIdentifier) {
		errs.Add(FieldUserIdentifier, MsgRequired)
		return nil, errs
	}
	if msg := checkIdentifier(method, identifier); msg != "" {
		errs.Add(FieldUserIdentifier, msg)
		return nil, errs
	}

	return &LoginForm{
		Method:            method,
		Identifier:        identifier,
		Password:          password,
		NotificationToken: values.Get(FieldNotificationToken),
	}, nil
}

func checkIdentifier(method auth.IdentifierKind, identifier string) string {
	switch method {
	case auth.IdentifierPhone:
		if !ValidPhone(identifier) {
			return MsgPhoneFormat
		}
	case auth.IdentifierEmail:
		if !ValidEmail(identifier) {
			return MsgEmailFormat
		}
	case auth.IdentifierUsername:
		if len([]rune(identifier)) < MinUsernameLength {
			return MsgUsernameShort
		}
	}
	return ""
}

// ValidPhone reports whether s is an Indonesian number in +62 form
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidEmail reports whether s is a bare addr-spec with a dotted domain
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return domain == "localhost" || (strings.Contains(domain, ".") && !strings.HasSuffix(domain, "."))
}

// StrongPassword reports whether s has at least MinPasswordLength characters
// including an upper-case letter, a digit and a symbol
func StrongPassword(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}
	var upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && digit && symbol
}
