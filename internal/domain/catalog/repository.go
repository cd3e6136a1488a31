package catalog

import (
	"context"

	"github.com/caterflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindBySKU finds a non-deleted stock item by SKU
	FindBySKU(ctx context.Context, sku string) (*StockItem, error)

	// FindByIDs loads multiple stock items at once
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]StockItem, error)

	// FindAll finds stock items with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindWithReorderPolicy returns all non-deleted items whose
	// minimum stock level is above zero
	FindWithReorderPolicy(ctx context.Context) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// Delete soft-deletes a stock item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts stock items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks whether a non-deleted item with the SKU exists,
	// excluding the given item ID (uuid.Nil to exclude nothing)
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)

	// ReplaceSuppliers replaces the item's assigned supplier set
	ReplaceSuppliers(ctx context.Context, itemID uuid.UUID, supplierIDs []uuid.UUID) error
}
