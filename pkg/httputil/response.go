// Package httputil provides the JSON envelope, form parsing and generic
// middleware shared by the HTTP surface.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/setara/authcore/pkg/auth"
)

// ErrorResponse is the body of every failed request. Message is usually a
// string but holds per-field messages for validation failures.
type ErrorResponse struct {
	Error   bool        `json:"error"`
	Message interface{} `json:"message"`
}

// MessageResponse is the body of a successful request that only reports a message
type MessageResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteErrorMessage writes {"error": true, "message": message}
func WriteErrorMessage(w http.ResponseWriter, status int, message interface{}) {
	_ = WriteJSON(w, status, ErrorResponse{Error: true, Message: message})
}

// WriteMessage writes {"error": false, "message": message}
func WriteMessage(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteCreated writes a 201 response with JSON data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteSuccess writes a 200 response with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteValidationError writes a 400 response carrying per-field messages
func WriteValidationError(w http.ResponseWriter, fields map[string][]string) {
	WriteErrorMessage(w, http.StatusBadRequest, fields)
}

// WriteNotFound writes a not found error (404)
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusNotFound, message)
}

// WriteRequestTooLarge writes a payload too large error (413)
func WriteRequestTooLarge(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusRequestEntityTooLarge, message)
}

// WriteUnsupportedMediaType writes an unsupported media type error (415)
func WriteUnsupportedMediaType(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusUnsupportedMediaType, message)
}

// WriteInternalError writes a 500 without any detail of the cause
func WriteInternalError(w http.ResponseWriter) {
	WriteErrorMessage(w, http.StatusInternalServerError, auth.MsgInternal)
}

// StatusForKind maps an auth error kind to its HTTP status
func StatusForKind(kind auth.Kind) int {
	switch kind {
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindUnauthorized:
		return http.StatusUnauthorized
	case auth.KindForbidden:
		return http.StatusForbidden
	case auth.KindRateLimited:
		return http.StatusTooManyRequests
	case auth.KindInvalid:
		return http.StatusBadRequest
	case auth.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteAuthError writes err with the status of its kind. Untyped errors
// become a bare 500.
func WriteAuthError(w http.ResponseWriter, err error) {
	kind := auth.KindOf(err)
	if kind == auth.KindInternal {
		WriteInternalError(w)
		return
	}
	WriteErrorMessage(w, StatusForKind(kind), auth.MessageOf(err))
}
