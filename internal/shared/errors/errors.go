package errors

import (
	"errors"
	"fmt"
)

// Exit codes reported to the harness that invoked the seeder.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitUnavailable = 3
)

// Common error types.
var (
	ErrConfig      = errors.New("invalid configuration")
	ErrUnavailable = errors.New("dependency unavailable")
	ErrInternal    = errors.New("internal error")
)

// AppError represents a fatal seeder error with a process exit code.
type AppError struct {
	Code     string
	Message  string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Config creates a configuration error.
func Config(message string, err error) *AppError {
	return &AppError{
		Code:     "CONFIG_ERROR",
		Message:  message,
		ExitCode: ExitConfig,
		Err:      errors.Join(ErrConfig, err),
	}
}

// Unavailable creates an error for an unreachable database, cache or storage.
func Unavailable(message string, err error) *AppError {
	return &AppError{
		Code:     "UNAVAILABLE",
		Message:  message,
		ExitCode: ExitUnavailable,
		Err:      errors.Join(ErrUnavailable, err),
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:     "INTERNAL_ERROR",
		Message:  message,
		ExitCode: ExitFailure,
		Err:      errors.Join(ErrInternal, err),
	}
}

// GetExitCode returns the process exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrUnavailable):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}
