package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormSiteRepository implements SiteRepository using GORM
type GormSiteRepository struct {
	db *gorm.DB
}

// NewGormSiteRepository creates a new GormSiteRepository
func NewGormSiteRepository(db *gorm.DB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormSiteRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a site by its ID
func (r *GormSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Site, error) {
	var site partner.Site
	if err := r.conn(ctx).First(&site, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// FindByIDs finds multiple sites by their IDs
func (r *GormSiteRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*partner.Site, error) {
	if len(ids) == 0 {
		return []*partner.Site{}, nil
	}

	var sites []*partner.Site
	if err := r.conn(ctx).
		Where("id IN ?", ids).
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// FindAll finds sites matching the filter, paginated
func (r *GormSiteRepository) FindAll(ctx context.Context, filter partner.SiteFilter) (*shared.Paginated[*partner.Site], error) {
	query := r.conn(ctx).Model(&partner.Site{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR manager ILIKE ? OR address ILIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, SiteSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var sites []*partner.Site
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&sites).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(sites, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByName checks if a non-deleted site with the given name exists,
// optionally excluding one site ID
func (r *GormSiteRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.conn(ctx).
		Model(&partner.Site{}).
		Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a site
func (r *GormSiteRepository) Save(ctx context.Context, site *partner.Site) error {
	return r.conn(ctx).Save(site).Error
}

// Delete soft-deletes a site
func (r *GormSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&partner.Site{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSiteRepository implements SiteRepository
var _ partner.SiteRepository = (*GormSiteRepository)(nil)
