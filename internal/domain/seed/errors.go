package seed

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyFailures is returned when item failures exceed the configured cap.
	ErrTooManyFailures = errors.New("too many seed item failures")

	// ErrInvalidItem is returned for seed items without a title.
	ErrInvalidItem = errors.New("invalid seed item")
)

// TransactionError wraps a failed batch commit. Nothing from the run persists.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("commit banners: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
