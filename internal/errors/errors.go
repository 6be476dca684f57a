package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Lectern error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrMissingCredential  ErrorCode = "MISSING_CREDENTIAL"  // 401
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound       ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrDeckTooLarge       ErrorCode = "DECK_TOO_LARGE"      // 413
	ErrCancelled          ErrorCode = "CANCELLED"           // 499
	ErrInternal           ErrorCode = "INTERNAL"            // 500
	ErrBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE" // 503
)

// LecternError represents a structured error with code, status, and details.
type LecternError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LecternError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LecternError {
	return &LecternError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMissingCredential creates a 401 error when no API key could be found.
func NewMissingCredential(keyName string) *LecternError {
	return &LecternError{
		Code:    ErrMissingCredential,
		Status:  401,
		Message: fmt.Sprintf("%s not found in environment, .env file, or team env file", keyName),
		Details: map[string]any{"key_name": keyName},
	}
}

// NewNotFound creates a 404 error for when a run cannot be found.
func NewNotFound(identifier string) *LecternError {
	return &LecternError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("run not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for when a deck or import file does not exist.
func NewFileNotFound(path string) *LecternError {
	return &LecternError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewDeckTooLarge creates a 413 error when a deck has more slides than allowed.
func NewDeckTooLarge(max, actual int) *LecternError {
	return &LecternError{
		Code:    ErrDeckTooLarge,
		Status:  413,
		Message: fmt.Sprintf("deck exceeds maximum size: %d slides (max %d)", actual, max),
		Details: map[string]any{"max_slides": max, "actual_slides": actual},
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by its caller.
func NewCancelled(operation string) *LecternError {
	return &LecternError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewBackendUnavailable creates a 503 error when no generation backend can be built.
func NewBackendUnavailable(msg string) *LecternError {
	return &LecternError{
		Code:    ErrBackendUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *LecternError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &LecternError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// As extracts a LecternError from err, following wrapped errors.
func As(err error) (*LecternError, bool) {
	var lErr *LecternError
	if stderrors.As(err, &lErr) {
		return lErr, true
	}
	return nil, false
}

// Is checks if an error is (or wraps) a LecternError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := As(err); ok {
		return lErr.Code == code
	}
	return false
}
