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

// GormBinCountRepository implements BinCountRepository using GORM
type GormBinCountRepository struct {
	db *gorm.DB
}

// NewGormBinCountRepository creates a new GormBinCountRepository
func NewGormBinCountRepository(db *gorm.DB) *GormBinCountRepository {
	return &GormBinCountRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormBinCountRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a bin count by ID with its lines loaded
func (r *GormBinCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BinCount, error) {
	var count inventory.BinCount
	if err := r.conn(ctx).
		Preload("Lines").
		First(&count, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByNumber finds a bin count by its document number
func (r *GormBinCountRepository) FindByNumber(ctx context.Context, number string) (*inventory.BinCount, error) {
	var count inventory.BinCount
	if err := r.conn(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindAll finds bin counts matching the filter, paginated
func (r *GormBinCountRepository) FindAll(ctx context.Context, filter inventory.CountFilter) (*shared.Paginated[*inventory.BinCount], error) {
	query := r.conn(ctx).Model(&inventory.BinCount{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.BinID != nil {
		query = query.Where("bin_id = ?", *filter.BinID)
	}
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.DateFrom != nil {
		query = query.Where("count_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("count_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BinCountSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var counts []*inventory.BinCount
	if err := query.Preload("Lines").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&counts).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(counts, total, filter.Page, filter.PageSize)
	return &page, nil
}

// LastNumber returns the highest-sorting count number with the prefix
func (r *GormBinCountRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.conn(ctx), &inventory.BinCount{}, prefix)
}

// ExistsByNumber checks if a bin count with the number exists
func (r *GormBinCountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return existsByNumber(ctx, r.conn(ctx), &inventory.BinCount{}, number)
}

// Save persists the count and its lines, pruning removed lines
func (r *GormBinCountRepository) Save(ctx context.Context, count *inventory.BinCount) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		keepIDs := make([]uuid.UUID, 0, len(count.Lines))
		for _, line := range count.Lines {
			keepIDs = append(keepIDs, line.ID)
		}
		if err := pruneLines(tx, &inventory.CountLine{}, "count_id", count.ID, keepIDs); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(count).Error
	})
}

// Delete removes the count and its lines
func (r *GormBinCountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("count_id = ?", id).Delete(&inventory.CountLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.BinCount{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus counts bin counts grouped by status
func (r *GormBinCountRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	return countByStatus(ctx, r.conn(ctx), &inventory.BinCount{})
}

// Ensure GormBinCountRepository implements BinCountRepository
var _ inventory.BinCountRepository = (*GormBinCountRepository)(nil)
