package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormAdjustmentRepository implements StockAdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormAdjustmentRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds an adjustment by ID with its lines loaded
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	if err := r.conn(ctx).
		Preload("Lines").
		First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByNumber finds an adjustment by its document number
func (r *GormAdjustmentRepository) FindByNumber(ctx context.Context, number string) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	if err := r.conn(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&adjustment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindAll finds adjustments matching the filter, paginated
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, filter inventory.AdjustmentFilter) (*shared.Paginated[*inventory.StockAdjustment], error) {
	query := r.conn(ctx).Model(&inventory.StockAdjustment{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Reason != nil {
		query = query.Where("reason = ?", *filter.Reason)
	}
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, AdjustmentSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var adjustments []*inventory.StockAdjustment
	if err := query.Preload("Lines").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&adjustments).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(adjustments, total, filter.Page, filter.PageSize)
	return &page, nil
}

// LastNumber returns the highest-sorting adjustment number with the prefix
func (r *GormAdjustmentRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.conn(ctx), &inventory.StockAdjustment{}, prefix)
}

// ExistsByNumber checks if an adjustment with the number exists
func (r *GormAdjustmentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return existsByNumber(ctx, r.conn(ctx), &inventory.StockAdjustment{}, number)
}

// Save persists the adjustment and its lines, pruning removed lines
func (r *GormAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		keepIDs := make([]uuid.UUID, 0, len(adjustment.Lines))
		for _, line := range adjustment.Lines {
			keepIDs = append(keepIDs, line.ID)
		}
		if err := pruneLines(tx, &inventory.AdjustmentLine{}, "adjustment_id", adjustment.ID, keepIDs); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(adjustment).Error
	})
}

// Delete removes the adjustment and its lines
func (r *GormAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("adjustment_id = ?", id).Delete(&inventory.AdjustmentLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.StockAdjustment{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus counts adjustments grouped by status
func (r *GormAdjustmentRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	return countByStatus(ctx, r.conn(ctx), &inventory.StockAdjustment{})
}

// Ensure GormAdjustmentRepository implements StockAdjustmentRepository
var _ inventory.StockAdjustmentRepository = (*GormAdjustmentRepository)(nil)
