package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/shared"
)

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// InTx runs fn inside one database transaction. The context passed to
// fn carries the transaction, so repository calls made with it share
// the same atomic unit of work.
func (d *Database) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

// Ensure Database implements TxRunner
var _ shared.TxRunner = (*Database)(nil)
