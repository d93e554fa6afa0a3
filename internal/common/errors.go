package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. ErrConfig is fatal at load time and never
// recoverable per document; ErrValidation marks input outside a normalizer's
// accepted domain and is always contained as a field diagnostic by the
// assembler, never surfaced to the caller.
var (
	ErrConfig     = errors.New("config error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("resource not found")
	ErrDatabase   = errors.New("database error")
	ErrInternal   = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError wraps err (or creates a new error from message) so that
// errors.Is(err, ErrConfig) holds.
func ConfigError(message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", message, ErrConfig)
	}
	return fmt.Errorf("%s: %v: %w", message, cause, ErrConfig)
}

// ValidationError marks a normalizer domain failure for field.
func ValidationError(field, message string) error {
	return fmt.Errorf("%s: %s: %w", field, message, ErrValidation)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
