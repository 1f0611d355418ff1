package httpfetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/uniedit/seeder/internal/port/outbound"
)

// DefaultMaxRedirects is the hop limit used when none is configured.
const DefaultMaxRedirects = 10

// Config holds fetcher limits.
type Config struct {
	MaxRedirects int
	MaxBodyBytes int64 // 0 means unbounded
}

// Fetcher downloads images over HTTP(S), following 301/302 redirects itself.
// The client must not follow redirects on its own (see httpclient.New).
type Fetcher struct {
	client *http.Client
	config Config
	logger *zap.Logger
}

// NewFetcher creates a new image fetcher.
func NewFetcher(client *http.Client, cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Fetch downloads rawURL and returns the full response body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	current, err := parseTarget(rawURL)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}

	for hop := 0; ; hop++ {
		body, location, err := f.get(ctx, current)
		if err != nil {
			return nil, err
		}
		if location == nil {
			return body, nil
		}

		if hop >= f.config.MaxRedirects {
			return nil, &DownloadError{
				URL: rawURL,
				Err: fmt.Errorf("%w: stopped after %d hops", ErrTooManyRedirects, f.config.MaxRedirects),
			}
		}

		f.logger.Debug("Following redirect",
			zap.String("from", current.String()),
			zap.String("to", location.String()),
			zap.Int("hop", hop+1),
		)
		current = location
	}
}

// get performs one request. It returns either the body of a 200 response or
// the resolved target of a 301/302 response.
func (f *Fetcher) get(ctx context.Context, target *url.URL) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, nil, &DownloadError{URL: target.String(), Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, &DownloadError{URL: target.String(), Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := f.readBody(resp.Body)
		if err != nil {
			return nil, nil, &DownloadError{URL: target.String(), Err: err}
		}
		return body, nil, nil

	case http.StatusMovedPermanently, http.StatusFound:
		// Drain so the connection can be reused for the next hop.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

		loc := resp.Header.Get("Location")
		if loc == "" {
			return nil, nil, &DownloadError{URL: target.String(), Err: ErrMissingLocation}
		}
		next, err := target.Parse(loc)
		if err != nil {
			return nil, nil, &DownloadError{URL: target.String(), Err: fmt.Errorf("parse location: %w", err)}
		}
		if err := checkScheme(next); err != nil {
			return nil, nil, &DownloadError{URL: next.String(), Err: err}
		}
		return nil, next, nil

	default:
		return nil, nil, &DownloadError{URL: target.String(), StatusCode: resp.StatusCode}
	}
}

func (f *Fetcher) readBody(r io.Reader) ([]byte, error) {
	if f.config.MaxBodyBytes <= 0 {
		return io.ReadAll(r)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, f.config.MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.config.MaxBodyBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, f.config.MaxBodyBytes)
	}
	return buf.Bytes(), nil
}

func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if err := checkScheme(u); err != nil {
		return nil, err
	}
	return u, nil
}

func checkScheme(u *url.URL) error {
	switch u.Scheme {
	case "http", "https":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Compile-time check
var _ outbound.ImageFetcherPort = (*Fetcher)(nil)
