package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormBinStockRepository implements BinStockRepository using GORM
type GormBinStockRepository struct {
	db *gorm.DB
}

// NewGormBinStockRepository creates a new GormBinStockRepository
func NewGormBinStockRepository(db *gorm.DB) *GormBinStockRepository {
	return &GormBinStockRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormBinStockRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByBinAndItem finds the stock row for one item in one bin
func (r *GormBinStockRepository) FindByBinAndItem(ctx context.Context, binID, stockItemID uuid.UUID) (*inventory.BinStock, error) {
	var stock inventory.BinStock
	if err := r.conn(ctx).
		Where("bin_id = ? AND stock_item_id = ?", binID, stockItemID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByBin returns all stock rows in a bin
func (r *GormBinStockRepository) FindByBin(ctx context.Context, binID uuid.UUID) ([]*inventory.BinStock, error) {
	var stocks []*inventory.BinStock
	if err := r.conn(ctx).
		Where("bin_id = ?", binID).
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByItem returns all stock rows holding the item, across bins
func (r *GormBinStockRepository) FindByItem(ctx context.Context, stockItemID uuid.UUID) ([]*inventory.BinStock, error) {
	var stocks []*inventory.BinStock
	if err := r.conn(ctx).
		Where("stock_item_id = ?", stockItemID).
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// TotalByItem sums on-hand quantity per item across all bins
func (r *GormBinStockRepository) TotalByItem(ctx context.Context) ([]inventory.ItemStockLevel, error) {
	var levels []inventory.ItemStockLevel
	if err := r.conn(ctx).
		Model(&inventory.BinStock{}).
		Select("stock_item_id, COALESCE(SUM(quantity), 0) AS total").
		Group("stock_item_id").
		Scan(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// TotalForItem sums on-hand quantity of one item across all bins
func (r *GormBinStockRepository) TotalForItem(ctx context.Context, stockItemID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.conn(ctx).
		Model(&inventory.BinStock{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("stock_item_id = ?", stockItemID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a stock row
func (r *GormBinStockRepository) Save(ctx context.Context, stock *inventory.BinStock) error {
	return r.conn(ctx).Save(stock).Error
}

// Ensure GormBinStockRepository implements BinStockRepository
var _ inventory.BinStockRepository = (*GormBinStockRepository)(nil)
