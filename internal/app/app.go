package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/uniedit/seeder/internal/domain/seed"
	"github.com/uniedit/seeder/internal/infra/config"
	apperrors "github.com/uniedit/seeder/internal/shared/errors"
	"github.com/uniedit/seeder/internal/utils/metrics"
)

// metricsJob is the Pushgateway job name for seed runs.
const metricsJob = "banner_seed"

// Seeder runs the banner migration with its dependencies.
type Seeder struct {
	Config  *config.Config
	Runner  *seed.Domain
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// New builds a Seeder by hand in the same order InitializeSeeder does.
// The returned cleanup closes the database and Redis connections.
func New(ctx context.Context, cfg *config.Config) (_ *Seeder, _ func(), retErr error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	defer func() {
		if retErr != nil {
			cleanup()
		}
	}()

	zapLog, err := ProvideZapLogger(cfg)
	if err != nil {
		return nil, nil, apperrors.Config("log", err)
	}

	db, closeDB, err := ProvideDatabase(cfg, zapLog)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeDB)

	redisClient, closeRedis, err := ProvideRedisClient(ctx, cfg, zapLog)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRedis)

	m := ProvideMetrics(cfg)

	stager, err := ProvideFileStager(cfg)
	if err != nil {
		return nil, nil, err
	}
	storage, err := ProvideStorageProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	adapters := newAdapters(db)
	publisher := ProvideUploadDomain(stager, storage, adapters.uploadFileDB, m, cfg, zapLog)
	runner := ProvideSeedDomain(
		adapters.bannerDB,
		adapters.tx,
		ProvideImageFetcher(cfg, ProvideHTTPClient(cfg), zapLog),
		publisher,
		ProvideSeedLock(cfg, redisClient),
		m,
		cfg,
		zapLog,
	)

	return &Seeder{
		Config:  cfg,
		Runner:  runner,
		Metrics: m,
		Logger:  zapLog,
	}, cleanup, nil
}

// Run loads the seed items and runs the migration once. itemsPath overrides
// seed.items_file; with neither set the built-in banners are used.
func (s *Seeder) Run(ctx context.Context, itemsPath string) (*seed.Result, error) {
	items, err := s.items(itemsPath)
	if err != nil {
		return nil, err
	}

	result, runErr := s.Runner.Run(ctx, items)

	if err := s.Metrics.Push(context.WithoutCancel(ctx), s.Config.Metrics.PushgatewayURL, metricsJob); err != nil {
		s.Logger.Warn("Failed to push metrics", zap.Error(err))
	}

	if runErr != nil {
		return result, classify(runErr)
	}
	return result, nil
}

func (s *Seeder) items(path string) ([]seed.Item, error) {
	if path == "" {
		path = s.Config.Seed.ItemsFile
	}
	if path == "" {
		return seed.DefaultItems(), nil
	}
	items, err := seed.LoadItems(path)
	if err != nil {
		return nil, apperrors.Config("seed items", err)
	}
	s.Logger.Info("Loaded seed items", zap.String("path", path), zap.Int("count", len(items)))
	return items, nil
}

// classify maps a run failure to the exit code reported by the CLI.
func classify(err error) error {
	var txErr *seed.TransactionError
	switch {
	case errors.As(err, &txErr):
		return apperrors.Internal("banner commit failed", err)
	case errors.Is(err, seed.ErrTooManyFailures):
		return apperrors.Internal("seed aborted", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Internal("seed interrupted", err)
	default:
		return apperrors.Unavailable("seed run", err)
	}
}
