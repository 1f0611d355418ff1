package outbound

import (
	"context"

	"github.com/uniedit/seeder/internal/model"
)

// BannerDatabasePort defines banner persistence.
type BannerDatabasePort interface {
	// HasTable reports whether the banner table has been provisioned.
	HasTable(ctx context.Context) (bool, error)

	// Exists reports whether at least one banner row exists.
	Exists(ctx context.Context) (bool, error)

	// Create creates a banner, joining the transaction carried by ctx if any.
	Create(ctx context.Context, banner *model.Banner) error
}

// UploadFileDatabasePort defines upload metadata persistence.
type UploadFileDatabasePort interface {
	// Create registers an uploaded file.
	Create(ctx context.Context, file *model.UploadFile) error
}

// TransactionPort defines transaction support.
type TransactionPort interface {
	// RunInTransaction executes fn within a transaction; a returned error rolls it back.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
