package httputil

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
)

// Form rejection messages
const (
	MsgUnsupportedForm = "only support multipart/form-data"
	MsgBodyTooLarge    = "request body too large"
)

// DefaultMaxFormMemory bounds the in-memory part of a multipart body
const DefaultMaxFormMemory = 10 << 20

var (
	// ErrEmptyForm means the request carried no form fields
	ErrEmptyForm = errors.New("request has no form fields")
	// ErrBodyTooLarge means the body went past the MaxBytesMiddleware limit
	ErrBodyTooLarge = errors.New("request body too large")
)

// ParseForm parses a multipart/form-data or application/x-www-form-urlencoded
// body and returns its fields. Query parameters are not included.
func ParseForm(r *http.Request, maxMemory int64) (url.Values, error) {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxFormMemory
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, formError(err)
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, formError(err)
		}
	default:
		return nil, ErrEmptyForm
	}

	if len(r.PostForm) == 0 {
		return nil, ErrEmptyForm
	}
	return r.PostForm, nil
}

// ParseFormOrError parses the form. It writes a 413 when the body is over
// the size limit and a 415 when the form is missing or empty.
func ParseFormOrError(w http.ResponseWriter, r *http.Request, maxMemory int64) (url.Values, bool) {
	values, err := ParseForm(r, maxMemory)
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		WriteRequestTooLarge(w, MsgBodyTooLarge)
		return nil, false
	case err != nil:
		WriteUnsupportedMediaType(w, MsgUnsupportedForm)
		return nil, false
	}
	return values, true
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	return ErrEmptyForm
}
