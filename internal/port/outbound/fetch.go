package outbound

import "context"

// ImageFetcherPort downloads a remote image into memory.
type ImageFetcherPort interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}
