package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/httputil"
	"github.com/timecapsule/capsule/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, status int, code apperrors.ErrorCode, detail string) {
	httputil.WriteErrorWithStatus(w, status, apperrors.New(code, detail))
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeViolations answers 422 with the field error list used by the API.
func writeViolations(w http.ResponseWriter, violations []model.Violation) {
	detail := make([]fieldError, len(violations))
	for i, v := range violations {
		detail[i] = fieldError{Loc: []string{"body", v.Field}, Msg: v.Reason, Type: "value_error"}
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, apperrors.ErrCodeInvalidRequest, "Request body too large")
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, apperrors.ErrCodeValidation, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusUnprocessableEntity, apperrors.ErrCodeValidation, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
