package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setara/authcore/pkg/auth"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"message": "success"}

	err := WriteJSON(w, http.StatusOK, data)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "success")
}

func TestWriteErrorMessage(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorMessage(w, http.StatusNotFound, "resource not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]interface{}{"error": true, "message": "resource not found"}, decodeBody(t, w))
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteMessage(w, http.StatusOK, "Logout berhasil"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"error": false, "message": "Logout berhasil"}, decodeBody(t, w))
}

func TestWriteValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteValidationError(w, map[string][]string{"user_password": {"Kolom ini harus diisi."}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, map[string]interface{}{"user_password": []interface{}{"Kolom ini harus diisi."}}, body["message"])
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		write  func(http.ResponseWriter, string)
		status int
	}{
		{WriteNotFound, http.StatusNotFound},
		{WriteRequestTooLarge, http.StatusRequestEntityTooLarge},
		{WriteUnsupportedMediaType, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w, "msg")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "msg", decodeBody(t, w)["message"])
		})
	}
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteCreated(w, map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWriteAuthError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", auth.NotFound(auth.MsgAccountNotFound), http.StatusNotFound, auth.MsgAccountNotFound},
		{"unauthorized", auth.Unauthorized(auth.MsgWrongPassword), http.StatusUnauthorized, auth.MsgWrongPassword},
		{"forbidden", auth.Forbidden(""), http.StatusForbidden, auth.MsgForbidden},
		{"rate limited", auth.RateLimited(), http.StatusTooManyRequests, auth.MsgRateLimited},
		{"invalid", auth.Invalid("bad"), http.StatusBadRequest, "bad"},
		{"store unavailable", &auth.Error{Kind: auth.KindStoreUnavailable, Message: auth.MsgStoreUnavailable}, http.StatusServiceUnavailable, auth.MsgStoreUnavailable},
		{"wrapped kind", fmt.Errorf("login: %w", auth.Unauthorized(auth.MsgActiveSession)), http.StatusUnauthorized, auth.MsgActiveSession},
		{"internal hides cause", auth.Internal(errors.New("dial tcp 10.0.0.5:5432")), http.StatusInternalServerError, auth.MsgInternal},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, auth.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAuthError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, true, body["error"])
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, w.Body.String(), "10.0.0.5")
		})
	}
}
