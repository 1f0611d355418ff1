package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uniedit/seeder/internal/model"
	"github.com/uniedit/seeder/internal/port/outbound"
	"github.com/uniedit/seeder/internal/utils/metrics"
)

// Publisher stores an image and returns its registered upload.
type Publisher interface {
	Publish(ctx context.Context, data []byte, filename, altText string) (*model.UploadFile, error)
}

// Domain runs the banner seed migration.
type Domain struct {
	bannerDB  outbound.BannerDatabasePort
	tx        outbound.TransactionPort
	fetcher   outbound.ImageFetcherPort
	publisher Publisher
	lock      outbound.SeedLockPort
	metrics   *metrics.Metrics
	config    *Config
	now       func() time.Time
	logger    *zap.Logger
}

// NewDomain creates a new seed domain. lock may be nil to run unguarded.
func NewDomain(
	bannerDB outbound.BannerDatabasePort,
	tx outbound.TransactionPort,
	fetcher outbound.ImageFetcherPort,
	publisher Publisher,
	lock outbound.SeedLockPort,
	m *metrics.Metrics,
	config *Config,
	logger *zap.Logger,
) *Domain {
	if config == nil {
		config = DefaultConfig()
	}
	if config.LockName == "" {
		config.LockName = DefaultConfig().LockName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Domain{
		bannerDB:  bannerDB,
		tx:        tx,
		fetcher:   fetcher,
		publisher: publisher,
		lock:      lock,
		metrics:   m,
		config:    config,
		now:       time.Now,
		logger:    logger,
	}
}

// Run seeds banners for items unless the table is missing, banners already
// exist or another run holds the lock. Per-item image failures leave that
// banner without an image; only a failed commit (or an aborted run) is
// returned as an error, and then no banner persists.
func (d *Domain) Run(ctx context.Context, items []Item) (*Result, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	result, err := d.run(ctx, items)
	if err != nil {
		result.State = StateFailed
		result.Created = 0
	}
	d.metrics.RecordSeedRun(string(result.State), result.Created)
	return result, err
}

func (d *Domain) run(ctx context.Context, items []Item) (*Result, error) {
	result := &Result{State: StateNotStarted}

	if d.lock != nil {
		release, ok, err := d.lock.Acquire(ctx, d.config.LockName)
		if err != nil {
			return result, err
		}
		if !ok {
			d.logger.Info("Another seed run holds the lock, skipping", zap.String("lock", d.config.LockName))
			result.State = StateLocked
			return result, nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				d.logger.Warn("Failed to release seed lock", zap.Error(err))
			}
		}()
	}

	hasTable, err := d.bannerDB.HasTable(ctx)
	if err != nil {
		return result, fmt.Errorf("check banners table: %w", err)
	}
	if !hasTable {
		d.logger.Info("Banners table does not exist yet, skipping seed")
		result.State = StateTablePending
		return result, nil
	}

	exists, err := d.bannerDB.Exists(ctx)
	if err != nil {
		return result, fmt.Errorf("check existing banners: %w", err)
	}
	if exists {
		d.logger.Info("Banners already seeded, skipping")
		result.State = StateAlreadySeeded
		return result, nil
	}

	result.State = StateSeeding
	d.logger.Info("Seeding banners", zap.Int("items", len(items)))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("seed aborted: %w", err)
		}

		banner, ok := d.prepare(ctx, item)
		if !ok {
			result.ImageFailures++
			if d.config.MaxItemFailures > 0 && result.ImageFailures > d.config.MaxItemFailures {
				return result, fmt.Errorf("%w: %d of %d items", ErrTooManyFailures, result.ImageFailures, len(items))
			}
		}
		result.Banners = append(result.Banners, banner)
	}

	err = d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, banner := range result.Banners {
			if err := d.bannerDB.Create(ctx, banner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return result, &TransactionError{Err: err}
	}

	result.State = StateDone
	result.Created = len(result.Banners)
	withImage := 0
	for _, banner := range result.Banners {
		if banner.HasImage() {
			withImage++
		}
	}
	d.logger.Info("Banners seeded",
		zap.Int("created", result.Created),
		zap.Int("with_image", withImage),
		zap.Int("image_failures", result.ImageFailures),
	)
	return result, nil
}

// prepare builds the pending banner for item, fetching and publishing its
// image. ok is false when the image could not be attached.
func (d *Domain) prepare(ctx context.Context, item Item) (*model.Banner, bool) {
	banner := &model.Banner{
		ID:          uuid.New(),
		Title:       item.Title,
		CTALabel:    item.CTALabel,
		CTAURL:      item.CTAURL,
		PublishedAt: d.now(),
	}

	if item.ImageURL == "" {
		d.metrics.RecordSeedItem(OutcomeNoImage)
		return banner, true
	}

	start := time.Now()
	data, err := d.fetcher.Fetch(ctx, item.ImageURL)
	d.metrics.RecordFetch(err, time.Since(start))
	if err != nil {
		d.logger.Warn("Failed to download banner image",
			zap.String("title", item.Title),
			zap.String("url", item.ImageURL),
			zap.Error(err),
		)
		d.metrics.RecordSeedItem(OutcomeFetchFailed)
		return banner, false
	}

	file, err := d.publisher.Publish(ctx, data, item.Filename(), item.ImageAlt)
	if err != nil {
		d.logger.Warn("Failed to publish banner image",
			zap.String("title", item.Title),
			zap.Error(err),
		)
		d.metrics.RecordSeedItem(OutcomePublishFailed)
		return banner, false
	}

	id := file.ID
	banner.ImageID = &id
	d.metrics.RecordSeedItem(OutcomePublished)
	d.logger.Info("Banner image ready",
		zap.String("title", item.Title),
		zap.String("image_id", id.String()),
	)
	return banner, true
}
