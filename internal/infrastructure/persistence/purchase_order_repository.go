package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/procurement"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormPurchaseOrderRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a purchase order by ID with its lines loaded
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.conn(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a purchase order by its document number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.conn(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds purchase orders matching the filter, paginated
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter procurement.OrderFilter) (*shared.Paginated[*procurement.PurchaseOrder], error) {
	query := r.conn(ctx).Model(&procurement.PurchaseOrder{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Origin != nil {
		query = query.Where("origin = ?", *filter.Origin)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}
	if filter.DateFrom != nil {
		query = query.Where("order_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("order_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var orders []*procurement.PurchaseOrder
	if err := query.Preload("Lines").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

// LastNumber returns the highest-sorting document number with the given
// prefix, or empty string when none exists yet
func (r *GormPurchaseOrderRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.conn(ctx), &procurement.PurchaseOrder{}, prefix)
}

// ExistsByNumber checks if a purchase order with the number exists
func (r *GormPurchaseOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return existsByNumber(ctx, r.conn(ctx), &procurement.PurchaseOrder{}, number)
}

// Save persists the order and its lines, pruning lines removed from the
// aggregate since the last save
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pruneLines(tx, &procurement.PurchaseOrderLine{}, "order_id", order.ID, orderLineIDs(order)); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	})
}

// Delete removes the order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&procurement.PurchaseOrderLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus counts purchase orders grouped by status
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	return countByStatus(ctx, r.conn(ctx), &procurement.PurchaseOrder{})
}

func orderLineIDs(order *procurement.PurchaseOrder) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.ID)
	}
	return ids
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
