package httpfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniedit/seeder/internal/infra/config"
	"github.com/uniedit/seeder/internal/infra/httpclient"
)

var imageBytes = []byte("RIFF\x00\x00\x00\x00WEBPVP8 fake")

func newTestFetcher(cfg Config, insecure bool) *Fetcher {
	client := httpclient.New(config.HTTPClientConfig{
		ResponseTimeout:    5 * time.Second,
		InsecureSkipVerify: insecure,
	})
	return NewFetcher(client, cfg, zap.NewNop())
}

func TestFetcher_Fetch(t *testing.T) {
	t.Run("returns body on 200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = w.Write(imageBytes)
		}))
		defer srv.Close()

		body, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL+"/a.webp")
		require.NoError(t, err)
		assert.Equal(t, imageBytes, body)
	})

	t.Run("follows 302 then 200", func(t *testing.T) {
		var hits []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, r.URL.Path)
			if r.URL.Path == "/start" {
				w.Header().Set("Location", "/final")
				w.WriteHeader(http.StatusFound)
				return
			}
			_, _ = w.Write(imageBytes)
		}))
		defer srv.Close()

		body, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL+"/start")
		require.NoError(t, err)
		assert.Equal(t, imageBytes, body)
		assert.Equal(t, []string{"/start", "/final"}, hits)
	})

	t.Run("follows 301 across hosts", func(t *testing.T) {
		target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(imageBytes)
		}))
		defer target.Close()

		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", target.URL+"/moved.webp")
			w.WriteHeader(http.StatusMovedPermanently)
		}))
		defer origin.Close()

		body, err := newTestFetcher(Config{}, false).Fetch(context.Background(), origin.URL)
		require.NoError(t, err)
		assert.Equal(t, imageBytes, body)
	})

	t.Run("fails with status code on 404", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL+"/missing.webp")
		require.Error(t, err)

		var dlErr *DownloadError
		require.True(t, errors.As(err, &dlErr))
		assert.Equal(t, http.StatusNotFound, dlErr.StatusCode)
		assert.Contains(t, err.Error(), "unexpected status 404")
	})

	t.Run("treats other redirects as failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/elsewhere")
			w.WriteHeader(http.StatusTemporaryRedirect)
		}))
		defer srv.Close()

		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL)

		var dlErr *DownloadError
		require.True(t, errors.As(err, &dlErr))
		assert.Equal(t, http.StatusTemporaryRedirect, dlErr.StatusCode)
	})

	t.Run("caps redirect chain", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.Header().Set("Location", r.URL.Path)
			w.WriteHeader(http.StatusFound)
		}))
		defer srv.Close()

		_, err := newTestFetcher(Config{MaxRedirects: 3}, false).Fetch(context.Background(), srv.URL+"/loop")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTooManyRedirects)

		var dlErr *DownloadError
		require.True(t, errors.As(err, &dlErr))
		assert.Zero(t, dlErr.StatusCode)
		assert.Equal(t, 4, hits)
	})

	t.Run("redirect without location", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusFound)
		}))
		defer srv.Close()

		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrMissingLocation)
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), addr+"/gone.webp")
		require.Error(t, err)

		var dlErr *DownloadError
		require.True(t, errors.As(err, &dlErr))
		assert.Zero(t, dlErr.StatusCode)
		assert.NotNil(t, dlErr.Err)
	})

	t.Run("rejects unsupported scheme", func(t *testing.T) {
		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), "ftp://example.com/a.webp")
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("rejects redirect to unsupported scheme", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "file:///etc/passwd")
			w.WriteHeader(http.StatusFound)
		}))
		defer srv.Close()

		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("enforces body limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		}))
		defer srv.Close()

		_, err := newTestFetcher(Config{MaxBodyBytes: 32}, false).Fetch(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrBodyTooLarge)

		body, err := newTestFetcher(Config{MaxBodyBytes: 64}, false).Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Len(t, body, 64)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(imageBytes)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestFetcher(Config{}, false).Fetch(ctx, srv.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFetcher_TLSPolicy(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(imageBytes)
	}))
	defer srv.Close()

	t.Run("self-signed rejected by default", func(t *testing.T) {
		_, err := newTestFetcher(Config{}, false).Fetch(context.Background(), srv.URL)

		var dlErr *DownloadError
		require.True(t, errors.As(err, &dlErr))
		assert.Zero(t, dlErr.StatusCode)
	})

	t.Run("self-signed accepted when insecure", func(t *testing.T) {
		body, err := newTestFetcher(Config{}, true).Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, imageBytes, body)
	})
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher(http.DefaultClient, Config{}, nil)
	assert.Equal(t, DefaultMaxRedirects, f.config.MaxRedirects)
	assert.NotNil(t, f.logger)
}
