package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable is returned while the storage circuit is open.
	ErrStorageUnavailable = errors.New("storage provider unavailable")

	// ErrEmptyFilename is returned when no filename is given.
	ErrEmptyFilename = errors.New("filename is required")
)

// PublishError wraps any failure to stage, store or register one file.
type PublishError struct {
	Filename string
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Filename, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
