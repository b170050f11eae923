package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Configuration errors
	ErrNotConfigured = errors.New("not configured")

	// Upstream errors
	ErrGatewayFailed = errors.New("messaging gateway request failed")
)

// Student errors
var (
	ErrStudentNotFound   = NewCustomError(ErrResourceNotFound, "student not found")
	ErrNISNAlreadyExists = NewCustomError(ErrResourceAlreadyExists, "student with this NISN already exists")
)

// Class errors
var (
	ErrClassNotFound = NewCustomError(ErrResourceNotFound, "class not found")
)

// Rule errors
var (
	ErrRuleNotFound = NewCustomError(ErrResourceNotFound, "rule not found")
	ErrRuleInUse    = NewCustomError(ErrConflict, "rule is referenced by violation records and cannot be deleted")
)

// Violation errors
var (
	ErrViolationNotFound = NewCustomError(ErrResourceNotFound, "violation record not found")
)

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewGatewayError wraps a reason reported by the messaging gateway
func NewGatewayError(reason string) error {
	return &CustomError{
		Err:     ErrGatewayFailed,
		Message: reason,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
