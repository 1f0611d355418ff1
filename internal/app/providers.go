package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/uniedit/seeder/internal/domain/seed"
	"github.com/uniedit/seeder/internal/domain/upload"

	// Ports
	"github.com/uniedit/seeder/internal/port/outbound"

	// Outbound adapters
	"github.com/uniedit/seeder/internal/adapter/outbound/httpfetch"
	"github.com/uniedit/seeder/internal/adapter/outbound/localstore"
	"github.com/uniedit/seeder/internal/adapter/outbound/postgres"
	redisadapter "github.com/uniedit/seeder/internal/adapter/outbound/redis"
	s3storage "github.com/uniedit/seeder/internal/adapter/outbound/s3"
	"github.com/uniedit/seeder/internal/adapter/outbound/staging"

	// Infrastructure
	"github.com/uniedit/seeder/internal/infra/cache"
	"github.com/uniedit/seeder/internal/infra/config"
	"github.com/uniedit/seeder/internal/infra/database"
	"github.com/uniedit/seeder/internal/infra/httpclient"

	// Shared
	apperrors "github.com/uniedit/seeder/internal/shared/errors"
	"github.com/uniedit/seeder/internal/shared/logger"

	// Utils
	"github.com/uniedit/seeder/internal/utils/mediatype"
	"github.com/uniedit/seeder/internal/utils/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideZapLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideMetrics,
)

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, apperrors.Unavailable("database", err)
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			zapLog.Warn("Failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. It returns nil when no
// address is configured.
func ProvideRedisClient(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (*goredis.Client, func(), error) {
	if cfg.Redis.Address == "" {
		return nil, func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, apperrors.Unavailable("redis", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			zapLog.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideHTTPClient creates the HTTP client used for image downloads.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(cfg *config.Config) *metrics.Metrics {
	return metrics.New(cfg.Metrics.Namespace)
}

// ===== Adapter Providers =====

// AdapterSet provides outbound adapters.
var AdapterSet = wire.NewSet(
	postgres.NewBannerAdapter,
	wire.Bind(new(outbound.BannerDatabasePort), new(*postgres.BannerAdapter)),
	postgres.NewUploadFileAdapter,
	wire.Bind(new(outbound.UploadFileDatabasePort), new(*postgres.UploadFileAdapter)),
	postgres.NewTransactionAdapter,
	wire.Bind(new(outbound.TransactionPort), new(*postgres.TransactionAdapter)),
	ProvideImageFetcher,
	ProvideFileStager,
	ProvideStorageProvider,
	ProvideSeedLock,
)

// ProvideImageFetcher creates the image fetcher.
func ProvideImageFetcher(cfg *config.Config, client *http.Client, zapLog *zap.Logger) outbound.ImageFetcherPort {
	return httpfetch.NewFetcher(client, httpfetch.Config{
		MaxRedirects: cfg.Fetch.MaxRedirects,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}, zapLog)
}

// ProvideFileStager creates the scratch file stager.
func ProvideFileStager(cfg *config.Config) (outbound.FileStagerPort, error) {
	detector, err := mediatype.NewDetector(cfg.Upload.MimeDetection)
	if err != nil {
		return nil, apperrors.Config("upload.mime_detection", err)
	}
	stager, err := staging.NewOSStager(cfg.Staging.Dir, detector)
	if err != nil {
		return nil, apperrors.Config("staging.dir", err)
	}
	return stager, nil
}

// ProvideStorageProvider creates the configured upload storage provider.
func ProvideStorageProvider(ctx context.Context, cfg *config.Config) (outbound.StorageProviderPort, error) {
	switch cfg.Storage.Provider {
	case "", localstore.ProviderName:
		provider, err := localstore.NewOSProvider(cfg.Storage.LocalRoot, cfg.Storage.PublicURL)
		if err != nil {
			return nil, apperrors.Config("storage.local_root", err)
		}
		return provider, nil
	case "s3":
		s3cfg := &s3storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			Prefix:          cfg.Storage.Prefix,
			PublicURL:       cfg.Storage.PublicURL,
		}
		client, err := s3storage.NewClient(ctx, s3cfg)
		if err != nil {
			return nil, apperrors.Config("storage", err)
		}
		return s3storage.NewUploadStorageAdapter(client, s3cfg), nil
	default:
		return nil, apperrors.Config("storage.provider", fmt.Errorf("unknown provider %q", cfg.Storage.Provider))
	}
}

// ProvideSeedLock creates the run lock, or nil without Redis.
func ProvideSeedLock(cfg *config.Config, client *goredis.Client) outbound.SeedLockPort {
	if client == nil {
		return nil
	}
	return redisadapter.NewSeedLock(client, cfg.Seed.LockTTL)
}

// ===== Domain Providers =====

// DomainSet provides domain services.
var DomainSet = wire.NewSet(
	ProvideUploadDomain,
	wire.Bind(new(seed.Publisher), new(*upload.Domain)),
	ProvideSeedDomain,
)

// ProvideUploadDomain creates the upload domain.
func ProvideUploadDomain(
	stager outbound.FileStagerPort,
	storage outbound.StorageProviderPort,
	fileDB outbound.UploadFileDatabasePort,
	m *metrics.Metrics,
	cfg *config.Config,
	zapLog *zap.Logger,
) *upload.Domain {
	return upload.NewDomain(stager, storage, fileDB, m, &upload.Config{
		BreakerThreshold: cfg.Upload.BreakerThreshold,
		BreakerTimeout:   cfg.Upload.BreakerTimeout,
	}, zapLog)
}

// ProvideSeedDomain creates the seed domain.
func ProvideSeedDomain(
	bannerDB outbound.BannerDatabasePort,
	tx outbound.TransactionPort,
	fetcher outbound.ImageFetcherPort,
	publisher seed.Publisher,
	lock outbound.SeedLockPort,
	m *metrics.Metrics,
	cfg *config.Config,
	zapLog *zap.Logger,
) *seed.Domain {
	return seed.NewDomain(bannerDB, tx, fetcher, publisher, lock, m, &seed.Config{
		MaxItemFailures: cfg.Seed.MaxItemFailures,
		Timeout:         cfg.Seed.Timeout,
	}, zapLog)
}

// AppSet combines all provider sets.
var AppSet = wire.NewSet(
	InfraSet,
	AdapterSet,
	DomainSet,
)
