// Package errors provides custom error types for the Sheetfolio API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Store errors. The spreadsheet is the only source of truth; read and write
// failures are propagated unchanged, with no retries in the core.
var (
	ErrStoreUnavailable = &AppError{Code: "STORE_UNAVAILABLE", Message: "Spreadsheet store is unavailable", StatusCode: http.StatusBadGateway}
)

// Record errors.
var (
	ErrFormat           = &AppError{Code: "FORMAT_ERROR", Message: "Malformed cell value", StatusCode: http.StatusUnprocessableEntity}
	ErrRecordNotFound   = &AppError{Code: "RECORD_NOT_FOUND", Message: "Record not found", StatusCode: http.StatusNotFound}
	ErrSettingNotFound  = &AppError{Code: "SETTING_NOT_FOUND", Message: "Setting not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSetting = &AppError{Code: "DUPLICATE_SETTING", Message: "Setting already exists", StatusCode: http.StatusConflict}
	ErrInvalidAction    = &AppError{Code: "INVALID_ACTION", Message: "Unsupported transaction action", StatusCode: http.StatusBadRequest}
)

// Format builds a FORMAT_ERROR identifying the offending worksheet row,
// column, and raw cell text. A malformed row fails the whole computation
// rather than being silently skipped: a partially-correct dashboard is worse
// than an explicit error.
func Format(table string, rowIndex int, column, raw string) *AppError {
	return WithMessage(ErrFormat,
		fmt.Sprintf("Unparseable value %q in %s row %d, column %s", raw, table, rowIndex, column))
}
