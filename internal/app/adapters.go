package app

import (
	"gorm.io/gorm"

	"github.com/uniedit/seeder/internal/adapter/outbound/postgres"
	"github.com/uniedit/seeder/internal/port/outbound"
)

// adapters holds the database adapters shared by both domains.
type adapters struct {
	bannerDB     outbound.BannerDatabasePort
	uploadFileDB outbound.UploadFileDatabasePort
	tx           outbound.TransactionPort
}

func newAdapters(db *gorm.DB) *adapters {
	return &adapters{
		bannerDB:     postgres.NewBannerAdapter(db),
		uploadFileDB: postgres.NewUploadFileAdapter(db),
		tx:           postgres.NewTransactionAdapter(db),
	}
}
