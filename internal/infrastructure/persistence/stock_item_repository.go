package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormStockItemRepository implements StockItemRepository using GORM.
// Supplier assignments live in the stock_item_suppliers join table.
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormStockItemRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a stock item by ID with supplier assignments loaded
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.StockItem, error) {
	var item catalog.StockItem
	if err := r.conn(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSuppliers(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds a non-deleted stock item by SKU
func (r *GormStockItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.StockItem, error) {
	var item catalog.StockItem
	if err := r.conn(ctx).
		Where("sku = ?", sku).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSuppliers(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads multiple stock items at once
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.StockItem, error) {
	if len(ids) == 0 {
		return []catalog.StockItem{}, nil
	}

	var items []catalog.StockItem
	if err := r.conn(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	if err := r.loadSuppliersBatch(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds stock items with filtering and pagination
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.StockItem, error) {
	query := r.applySearch(r.conn(ctx).Model(&catalog.StockItem{}), filter)

	orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var items []catalog.StockItem
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	if err := r.loadSuppliersBatch(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindWithReorderPolicy returns all non-deleted items whose minimum
// stock level is above zero
func (r *GormStockItemRepository) FindWithReorderPolicy(ctx context.Context) ([]catalog.StockItem, error) {
	var items []catalog.StockItem
	if err := r.conn(ctx).
		Where("minimum_stock_level > 0").
		Order("sku ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	if err := r.loadSuppliersBatch(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *catalog.StockItem) error {
	return r.conn(ctx).Save(item).Error
}

// Delete soft-deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&catalog.StockItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.conn(ctx).Model(&catalog.StockItem{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks whether a non-deleted item with the SKU exists,
// excluding the given item ID (uuid.Nil to exclude nothing)
func (r *GormStockItemRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	query := r.conn(ctx).
		Model(&catalog.StockItem{}).
		Where("sku = ?", sku)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceSuppliers replaces the item's assigned supplier set
func (r *GormStockItemRepository) ReplaceSuppliers(ctx context.Context, itemID uuid.UUID, supplierIDs []uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_item_id = ?", itemID).Delete(&catalog.StockItemSupplier{}).Error; err != nil {
			return err
		}
		if len(supplierIDs) == 0 {
			return nil
		}

		now := time.Now()
		rows := make([]catalog.StockItemSupplier, 0, len(supplierIDs))
		for _, supplierID := range supplierIDs {
			rows = append(rows, catalog.StockItemSupplier{
				StockItemID: itemID,
				SupplierID:  supplierID,
				CreatedAt:   now,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *GormStockItemRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sku ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *GormStockItemRepository) loadSuppliers(ctx context.Context, item *catalog.StockItem) error {
	var supplierIDs []uuid.UUID
	if err := r.conn(ctx).
		Model(&catalog.StockItemSupplier{}).
		Where("stock_item_id = ?", item.ID).
		Pluck("supplier_id", &supplierIDs).Error; err != nil {
		return err
	}
	item.SupplierIDs = supplierIDs
	return nil
}

func (r *GormStockItemRepository) loadSuppliersBatch(ctx context.Context, items []catalog.StockItem) error {
	if len(items) == 0 {
		return nil
	}

	itemIDs := make([]uuid.UUID, 0, len(items))
	for i := range items {
		itemIDs = append(itemIDs, items[i].ID)
	}

	var rows []catalog.StockItemSupplier
	if err := r.conn(ctx).
		Where("stock_item_id IN ?", itemIDs).
		Find(&rows).Error; err != nil {
		return err
	}

	byItem := make(map[uuid.UUID][]uuid.UUID, len(items))
	for _, row := range rows {
		byItem[row.StockItemID] = append(byItem[row.StockItemID], row.SupplierID)
	}
	for i := range items {
		items[i].SupplierIDs = byItem[items[i].ID]
	}
	return nil
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ catalog.StockItemRepository = (*GormStockItemRepository)(nil)
