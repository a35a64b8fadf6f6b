// Package validation checks login form submissions before they reach the
// login flow.
//
// ValidateLogin returns either a LoginForm or Errors keyed by form field.
// Errors is rendered directly as the "message" of a 400 response:
//
//	form, errs := validation.ValidateLogin(r.PostForm)
//	if errs.HasErrors() {
//		httputil.WriteValidationError(w, errs)
//		return
//	}
//
// # Rules
//
//   - login_method: one of phone, username, email
//   - user_password: at least 8 characters with an upper-case letter, a digit and a symbol
//   - user_notification_token: required
//   - user_identifier: +62 followed by 9-13 digits, a valid email, or a username
//     of 3 or more characters, depending on login_method
//   - any other field is rejected as unknown
package validation
