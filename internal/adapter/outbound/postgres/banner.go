package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniedit/seeder/internal/model"
	"github.com/uniedit/seeder/internal/port/outbound"
)

// BannerAdapter implements BannerDatabasePort.
type BannerAdapter struct {
	db *gorm.DB
}

// NewBannerAdapter creates a new banner database adapter.
func NewBannerAdapter(db *gorm.DB) *BannerAdapter {
	return &BannerAdapter{db: db}
}

// HasTable reports whether the banners table exists in the current schema.
func (a *BannerAdapter) HasTable(ctx context.Context) (bool, error) {
	var count int64
	err := conn(ctx, a.db).
		Raw("SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ? AND table_type = ?",
			model.Banner{}.TableName(), "BASE TABLE").
		Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("query information_schema: %w", err)
	}
	return count > 0, nil
}

// Exists reports whether any banner row exists.
func (a *BannerAdapter) Exists(ctx context.Context) (bool, error) {
	var ids []uuid.UUID
	if err := a.db.WithContext(ctx).
		Model(&model.Banner{}).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("query banners: %w", err)
	}
	return len(ids) > 0, nil
}

// Create creates a banner.
func (a *BannerAdapter) Create(ctx context.Context, banner *model.Banner) error {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	if err := conn(ctx, a.db).Create(banner).Error; err != nil {
		return fmt.Errorf("create banner %q: %w", banner.Title, err)
	}
	return nil
}

var _ outbound.BannerDatabasePort = (*BannerAdapter)(nil)
