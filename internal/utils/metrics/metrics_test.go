package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New("test")

	assert.NotNil(t, m.FetchDuration)
	assert.NotNil(t, m.UploadsTotal)
	assert.NotNil(t, m.UploadDuration)
	assert.NotNil(t, m.SeedItemsTotal)
	assert.NotNil(t, m.SeedRunsTotal)
	assert.NotNil(t, m.SeedRecordsCreated)
	assert.NotNil(t, m.Registry())
}

func TestNew_Twice(t *testing.T) {
	// Each instance owns a registry, so repeated construction must not panic.
	assert.NotPanics(t, func() {
		New("test")
		New("test")
	})
}

func TestRecordSeedItem(t *testing.T) {
	m := New("test")

	m.RecordSeedItem("published")
	m.RecordSeedItem("published")
	m.RecordSeedItem("fetch_failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SeedItemsTotal.WithLabelValues("published")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeedItemsTotal.WithLabelValues("fetch_failed")))
}

func TestRecordSeedRun(t *testing.T) {
	m := New("test")

	m.RecordSeedRun("done", 3)
	m.RecordSeedRun("already_seeded", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeedRunsTotal.WithLabelValues("done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeedRunsTotal.WithLabelValues("already_seeded")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SeedRecordsCreated))
}

func TestRecordUpload(t *testing.T) {
	m := New("test")

	m.RecordUpload("local", nil, 10*time.Millisecond)
	m.RecordUpload("local", errors.New("disk full"), 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("local", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("local", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UploadDuration))
}

func TestRecordFetch(t *testing.T) {
	m := New("test")

	m.RecordFetch(nil, 100*time.Millisecond)
	m.RecordFetch(errors.New("404"), 50*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.FetchDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordFetch(nil, time.Second)
		m.RecordUpload("local", nil, time.Second)
		m.RecordSeedItem("published")
		m.RecordSeedRun("done", 1)
	})
	assert.NoError(t, m.Push(context.Background(), "http://unused", "seed"))
}

func TestPush(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New("test")
	m.RecordSeedRun("done", 2)

	require.NoError(t, m.Push(context.Background(), srv.URL, "banner_seed"))
	assert.Equal(t, "/metrics/job/banner_seed", path)
	assert.True(t, strings.Contains(body, "test_seed_runs_total"))
}

func TestPush_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New("test").Push(context.Background(), srv.URL, "banner_seed")
	assert.Error(t, err)
}

func TestPush_NoURL(t *testing.T) {
	assert.NoError(t, New("test").Push(context.Background(), "", "banner_seed"))
}
