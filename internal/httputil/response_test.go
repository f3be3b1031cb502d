package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/timecapsule/capsule/internal/errors"
)

func TestCodeFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected apperrors.ErrorCode
	}{
		{http.StatusOK, ""},
		{http.StatusCreated, ""},
		{http.StatusNoContent, ""},
		{http.StatusBadRequest, apperrors.ErrCodeInvalidRequest},
		{http.StatusUnauthorized, apperrors.ErrCodeUnauthenticated},
		{http.StatusForbidden, apperrors.ErrCodeUnauthenticated},
		{http.StatusNotFound, apperrors.ErrCodeNotFound},
		{http.StatusConflict, apperrors.ErrCodeInvalidRequest},
		{http.StatusUnprocessableEntity, apperrors.ErrCodeInvalidRequest},
		{http.StatusTooManyRequests, apperrors.ErrCodeInvalidRequest},
		{http.StatusInternalServerError, apperrors.ErrCodeUnavailable},
		{http.StatusBadGateway, apperrors.ErrCodeUnavailable},
		{http.StatusServiceUnavailable, apperrors.ErrCodeUnavailable},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, CodeFromStatus(tc.status))
		})
	}
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"string detail", `{"detail":"Message not found"}`, "Message not found"},
		{
			"field error list",
			`{"detail":[{"loc":["body","recipient_email"],"msg":"value is not a valid email address"},{"loc":["body","title"],"msg":"field required"}]}`,
			"recipient_email: value is not a valid email address; title: field required",
		},
		{"error key", `{"error":"Invalid token"}`, "Invalid token"},
		{"empty object", `{}`, ""},
		{"not json", `<html>bad gateway</html>`, ""},
		{"empty body", ``, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseDetail([]byte(tc.body)))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("writes AppError with mapped status", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, apperrors.NotFound("Message"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Message not found", body.Detail)
		assert.Equal(t, apperrors.ErrCodeNotFound, body.Code)
	})

	t.Run("hides unknown errors behind internal error", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("db exploded"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db exploded")
	})

	t.Run("round trips through ParseDetail and CodeFromStatus", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, apperrors.InvalidRequest("Incorrect password"))

		assert.Equal(t, apperrors.ErrCodeInvalidRequest, CodeFromStatus(w.Code))
		assert.Equal(t, "Incorrect password", ParseDetail(w.Body.Bytes()))
	})
}
