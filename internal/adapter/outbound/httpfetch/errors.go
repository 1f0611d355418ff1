package httpfetch

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyRedirects is returned when a redirect chain exceeds the hop limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge is returned when a response body exceeds the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrUnsupportedScheme is returned for URLs that are neither http nor https.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrMissingLocation is returned for a redirect without a Location header.
	ErrMissingLocation = errors.New("redirect without location")
)

// DownloadError describes a failed image download. StatusCode is set when the
// server answered with an unexpected status; Err is set for everything else.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

// Unwrap returns the wrapped error.
func (e *DownloadError) Unwrap() error {
	return e.Err
}
