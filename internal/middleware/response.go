package middleware

import (
	"net/http"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/httputil"
)

func writeError(w http.ResponseWriter, status int, code apperrors.ErrorCode, detail string) {
	httputil.WriteErrorWithStatus(w, status, apperrors.New(code, detail))
}
