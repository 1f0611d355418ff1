package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/uniedit/seeder/internal/port/outbound"
)

// TransactionAdapter implements TransactionPort.
type TransactionAdapter struct {
	db *gorm.DB
}

// NewTransactionAdapter creates a new transaction adapter.
func NewTransactionAdapter(db *gorm.DB) *TransactionAdapter {
	return &TransactionAdapter{db: db}
}

// RunInTransaction runs fn inside a transaction; adapters called with the
// derived context join it.
func (a *TransactionAdapter) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey, tx))
	})
}

// txContextKey is used to store transaction in context.
type txContextKeyType struct{}

var txContextKey = txContextKeyType{}

// conn returns the transaction carried by ctx, or db outside a transaction.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

var _ outbound.TransactionPort = (*TransactionAdapter)(nil)
