package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/timecapsule/capsule/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the error body of the messages API: a human readable
// detail plus the machine readable code.
type ErrorResponse struct {
	Detail  string              `json:"detail"`
	Code    apperrors.ErrorCode `json:"code,omitempty"`
	Details any                 `json:"errors,omitempty"`
}

// WriteError writes an AppError as an HTTP response with appropriate status code
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	WriteErrorWithStatus(w, StatusFromCode(appErr.Code), appErr)
}

// WriteErrorWithStatus writes an error with a specific HTTP status code
func WriteErrorWithStatus(w http.ResponseWriter, status int, err *apperrors.AppError) {
	response := ErrorResponse{
		Detail:  err.Message,
		Code:    err.Code,
		Details: err.Details,
	}
	WriteJSON(w, status, response)
}

// StatusFromCode maps ErrorCode to HTTP status code
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeFromStatus classifies a response status. Success statuses return an
// empty code.
func CodeFromStatus(status int) apperrors.ErrorCode {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperrors.ErrCodeUnauthenticated
	case status == http.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case status >= 400 && status < 500:
		return apperrors.ErrCodeInvalidRequest
	default:
		return apperrors.ErrCodeUnavailable
	}
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// ParseDetail extracts the server supplied detail text from an error body.
// It understands {"detail": "..."}, the list form used for field validation
// errors, and {"error": "..."}. Unknown bodies yield "".
func ParseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			return text
		}

		var fields []fieldError
		if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				if loc := formatLoc(f.Loc); loc != "" {
					parts = append(parts, loc+": "+f.Msg)
				} else {
					parts = append(parts, f.Msg)
				}
			}
			return strings.Join(parts, "; ")
		}
	}

	return envelope.Error
}

func formatLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		s := fmt.Sprint(p)
		if s == "body" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
