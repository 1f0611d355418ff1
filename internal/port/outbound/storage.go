package outbound

import (
	"context"

	"github.com/uniedit/seeder/internal/model"
)

// StorageProviderPort defines durable blob storage for uploaded media.
type StorageProviderPort interface {
	// Name returns the provider name recorded on upload metadata.
	Name() string

	// Upload writes the descriptor's blob to durable storage and may set its URL.
	Upload(ctx context.Context, file *model.FileDescriptor) error
}
