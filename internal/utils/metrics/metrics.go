package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all seeder metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Fetch metrics
	FetchDuration *prometheus.HistogramVec

	// Upload metrics
	UploadsTotal   *prometheus.CounterVec
	UploadDuration *prometheus.HistogramVec

	// Seed metrics
	SeedItemsTotal     *prometheus.CounterVec
	SeedRunsTotal      *prometheus.CounterVec
	SeedRecordsCreated prometheus.Counter
}

// New creates a new Metrics instance registered on its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "uniedit"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "duration_seconds",
				Help:      "Image download duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"status"},
		),

		UploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "files_total",
				Help:      "Total number of files handed to a storage provider",
			},
			[]string{"provider", "status"},
		),
		UploadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "duration_seconds",
				Help:      "Storage provider upload duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),

		SeedItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "seed",
				Name:      "items_total",
				Help:      "Total number of seed items processed by outcome",
			},
			[]string{"outcome"},
		),
		SeedRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "seed",
				Name:      "runs_total",
				Help:      "Total number of seed runs by terminal state",
			},
			[]string{"state"},
		),
		SeedRecordsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "seed",
				Name:      "records_created_total",
				Help:      "Total number of content records committed",
			},
		),
	}
}

// Registry returns the registry all metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFetch records an image download.
func (m *Metrics) RecordFetch(err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(statusLabel(err)).Observe(duration.Seconds())
}

// RecordUpload records a storage provider upload.
func (m *Metrics) RecordUpload(provider string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(provider, statusLabel(err)).Inc()
	m.UploadDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordSeedItem records the outcome of one seed item.
func (m *Metrics) RecordSeedItem(outcome string) {
	if m == nil {
		return
	}
	m.SeedItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordSeedRun records a finished run and the number of records it created.
func (m *Metrics) RecordSeedRun(state string, created int) {
	if m == nil {
		return
	}
	m.SeedRunsTotal.WithLabelValues(state).Inc()
	m.SeedRecordsCreated.Add(float64(created))
}

// Push sends the collected metrics to a Pushgateway under the given job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
