package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniedit/seeder/internal/model"
	"github.com/uniedit/seeder/internal/port/outbound"
)

// UploadFileAdapter implements UploadFileDatabasePort.
type UploadFileAdapter struct {
	db *gorm.DB
}

// NewUploadFileAdapter creates a new upload file database adapter.
func NewUploadFileAdapter(db *gorm.DB) *UploadFileAdapter {
	return &UploadFileAdapter{db: db}
}

// Create registers an uploaded file.
func (a *UploadFileAdapter) Create(ctx context.Context, file *model.UploadFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if err := conn(ctx, a.db).Create(file).Error; err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	return nil
}

var _ outbound.UploadFileDatabasePort = (*UploadFileAdapter)(nil)
