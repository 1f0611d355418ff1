package upload

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/uniedit/seeder/internal/model"
	"github.com/uniedit/seeder/internal/port/outbound"
	"github.com/uniedit/seeder/internal/utils/metrics"
)

// Domain publishes media files: it stages the payload, hands it to the
// storage provider and registers the upload metadata.
type Domain struct {
	stager  outbound.FileStagerPort
	storage outbound.StorageProviderPort
	fileDB  outbound.UploadFileDatabasePort
	breaker *gobreaker.CircuitBreaker[any]
	metrics *metrics.Metrics
	config  *Config
	now     func() time.Time
	logger  *zap.Logger
}

// NewDomain creates a new upload domain.
func NewDomain(
	stager outbound.FileStagerPort,
	storage outbound.StorageProviderPort,
	fileDB outbound.UploadFileDatabasePort,
	m *metrics.Metrics,
	config *Config,
	logger *zap.Logger,
) *Domain {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Domain{
		stager:  stager,
		storage: storage,
		fileDB:  fileDB,
		breaker: newBreaker(storage.Name(), config, logger),
		metrics: m,
		config:  config,
		now:     time.Now,
		logger:  logger,
	}
}

// newBreaker returns nil when the threshold is zero.
func newBreaker(provider string, config *Config, logger *zap.Logger) *gobreaker.CircuitBreaker[any] {
	threshold := config.BreakerThreshold
	if threshold == 0 {
		return nil
	}

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "storage:" + provider,
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Storage circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Publish stores data as filename and returns the registered upload.
// The staged scratch file is removed before Publish returns. Every failure
// is reported as *PublishError.
func (d *Domain) Publish(ctx context.Context, data []byte, filename, altText string) (*model.UploadFile, error) {
	file, err := d.publish(ctx, data, filename, altText)
	if err != nil {
		return nil, &PublishError{Filename: filename, Err: err}
	}
	return file, nil
}

func (d *Domain) publish(ctx context.Context, data []byte, filename, altText string) (*model.UploadFile, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	staged, err := d.stager.Stage(data, filename)
	if err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	defer func() {
		if err := staged.Release(); err != nil {
			d.logger.Warn("Failed to release staged file",
				zap.String("path", staged.Path()),
				zap.Error(err),
			)
		}
	}()

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	hash := fmt.Sprintf("%d_%s", d.now().UnixNano(), name)

	descriptor := &model.FileDescriptor{
		Name:            name,
		AlternativeText: altText,
		Caption:         altText,
		Hash:            hash,
		Ext:             ext,
		Mime:            staged.MimeType(),
		SizeKB:          sizeInKB(staged.SizeBytes()),
		SizeBytes:       staged.SizeBytes(),
		Buffer:          data,
		Stream:          staged.Reader(),
		TmpPath:         staged.Path(),
	}

	if err := d.upload(ctx, descriptor); err != nil {
		return nil, err
	}

	file := &model.UploadFile{
		ID:              uuid.New(),
		Name:            descriptor.Name,
		AlternativeText: descriptor.AlternativeText,
		Caption:         descriptor.Caption,
		Hash:            descriptor.Hash,
		Ext:             descriptor.Ext,
		Mime:            descriptor.Mime,
		Size:            descriptor.SizeKB,
		URL:             descriptor.URL,
		Provider:        d.storage.Name(),
	}
	if err := d.fileDB.Create(ctx, file); err != nil {
		d.logger.Warn("Stored file has no metadata row",
			zap.String("provider", file.Provider),
			zap.String("key", descriptor.Key()),
		)
		return nil, fmt.Errorf("register upload: %w", err)
	}

	d.logger.Info("File published",
		zap.String("id", file.ID.String()),
		zap.String("name", file.Name),
		zap.String("provider", file.Provider),
		zap.Float64("size_kb", file.Size),
	)

	return file, nil
}

// upload sends the descriptor to storage, through the circuit breaker when
// one is configured.
func (d *Domain) upload(ctx context.Context, descriptor *model.FileDescriptor) error {
	start := time.Now()
	var err error
	if d.breaker == nil {
		err = d.storage.Upload(ctx, descriptor)
	} else {
		_, err = d.breaker.Execute(func() (any, error) {
			return nil, d.storage.Upload(ctx, descriptor)
		})
	}
	d.metrics.RecordUpload(d.storage.Name(), err, time.Since(start))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("upload to %s: %w", d.storage.Name(), err)
	}
}

// sizeInKB converts bytes to kilobytes rounded to two decimals.
func sizeInKB(size int64) float64 {
	return math.Round(float64(size)/1024*100) / 100
}
