package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Missing, expired or rejected credential
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"

	// Rejected locally before any network call
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"

	// Resource
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// Network failure or 5xx
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func Unauthenticated(message string) *AppError {
	return New(ErrCodeUnauthenticated, message)
}

func NotLoggedIn() *AppError {
	return New(ErrCodeUnauthenticated, "Not logged in")
}

func ValidationFailed(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func MissingRequired(field string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("%s is required", field))
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidRequest(message string) *AppError {
	return New(ErrCodeInvalidRequest, message)
}

func AlreadyDelivered() *AppError {
	return New(ErrCodeInvalidRequest, "Message already delivered")
}

func Unavailable(message string, cause error) *AppError {
	return Wrap(ErrCodeUnavailable, message, cause)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is reports whether err is an AppError carrying code.
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return GetCode(err) == code
}
