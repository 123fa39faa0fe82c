package domain

import (
	"errors"
	"fmt"
)

// ErrorCode discriminates every failure kind the core can report.
type ErrorCode string

const (
	ErrFileNotFound           ErrorCode = "FILE_NOT_FOUND"
	ErrSchemaValidation       ErrorCode = "SCHEMA_VALIDATION"
	ErrInvalidCoordinates     ErrorCode = "INVALID_COORDINATES"
	ErrInsufficientData       ErrorCode = "INSUFFICIENT_DATA"
	ErrInvalidTimeWindow      ErrorCode = "INVALID_TIME_WINDOW"
	ErrEmptyVisitsOrVehicles  ErrorCode = "EMPTY_VISITS_OR_VEHICLES"
	ErrOptimizationInfeasible ErrorCode = "OPTIMIZATION_INFEASIBLE"
	ErrJobFailed              ErrorCode = "JOB_FAILED"
	ErrJobTimeout             ErrorCode = "JOB_TIMEOUT"
	ErrBadRequest             ErrorCode = "BAD_REQUEST"
	ErrUnauthorized           ErrorCode = "UNAUTHORIZED"
	ErrForbidden              ErrorCode = "FORBIDDEN"
	ErrNotFound               ErrorCode = "NOT_FOUND"
	ErrMethodNotAllowed       ErrorCode = "METHOD_NOT_ALLOWED"
	ErrNotAcceptable          ErrorCode = "NOT_ACCEPTABLE"
	ErrUnprocessable          ErrorCode = "UNPROCESSABLE_ENTITY"
	ErrRateLimited            ErrorCode = "RATE_LIMITED"
	ErrServerError            ErrorCode = "SERVER_ERROR"
	ErrNetwork                ErrorCode = "NETWORK_ERROR"
	ErrUnknownHTTP            ErrorCode = "UNKNOWN_HTTP_ERROR"
)

// Error is the single structured error type returned by core functions.
// The tool boundary renders Message plus Suggestions for the user; nothing
// in the core panics or exits on one of these.
type Error struct {
	Code        ErrorCode
	Message     string
	Details     map[string]any
	Suggestions []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a structured error with optional remediation suggestions.
func NewError(code ErrorCode, message string, suggestions ...string) *Error {
	return &Error{Code: code, Message: message, Suggestions: suggestions}
}

// WithDetail attaches one machine-readable detail and returns the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// AsError unwraps err into a structured *Error when possible.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the structured error code, or "" for plain errors.
func CodeOf(err error) ErrorCode {
	if de, ok := AsError(err); ok {
		return de.Code
	}
	return ""
}
