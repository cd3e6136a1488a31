package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormBinRepository implements BinRepository using GORM
type GormBinRepository struct {
	db *gorm.DB
}

// NewGormBinRepository creates a new GormBinRepository
func NewGormBinRepository(db *gorm.DB) *GormBinRepository {
	return &GormBinRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormBinRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a bin by its ID
func (r *GormBinRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Bin, error) {
	var bin inventory.Bin
	if err := r.conn(ctx).First(&bin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindBySite finds all bins belonging to a site
func (r *GormBinRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]*inventory.Bin, error) {
	var bins []*inventory.Bin
	if err := r.conn(ctx).
		Where("site_id = ?", siteID).
		Order("name ASC").
		Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// FindAll finds bins matching the filter, paginated
func (r *GormBinRepository) FindAll(ctx context.Context, filter inventory.BinFilter) (*shared.Paginated[*inventory.Bin], error) {
	query := r.conn(ctx).Model(&inventory.Bin{})

	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BinSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var bins []*inventory.Bin
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&bins).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(bins, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByName checks if a non-deleted bin with the given name exists in
// the site, optionally excluding one bin ID
func (r *GormBinRepository) ExistsByName(ctx context.Context, siteID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.conn(ctx).
		Model(&inventory.Bin{}).
		Where("site_id = ? AND name = ?", siteID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a bin
func (r *GormBinRepository) Save(ctx context.Context, bin *inventory.Bin) error {
	return r.conn(ctx).Save(bin).Error
}

// Delete soft-deletes a bin
func (r *GormBinRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&inventory.Bin{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBinRepository implements BinRepository
var _ inventory.BinRepository = (*GormBinRepository)(nil)
