package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/identity"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormUserRepository implements UserRepository using GORM. Site
// restrictions live in the user_sites join table and are loaded
// alongside the user row.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormUserRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a user by ID with site restrictions loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSites(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username with site restrictions loaded
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var user identity.User
	if err := r.conn(ctx).
		Where("username = ?", strings.ToLower(username)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSites(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll finds users matching the filter, paginated
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) (*shared.Paginated[*identity.User], error) {
	query := r.conn(ctx).Model(&identity.User{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR display_name ILIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, UserSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var users []*identity.User
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&users).Error; err != nil {
		return nil, err
	}

	if err := r.loadSitesBatch(ctx, users); err != nil {
		return nil, err
	}

	page := shared.NewPaginated(users, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByUsername checks if a non-deleted user with the username exists,
// optionally excluding one user ID
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error) {
	query := r.conn(ctx).
		Model(&identity.User{}).
		Where("username = ?", strings.ToLower(username))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.conn(ctx).Save(user).Error
}

// ReplaceSites rewrites the user's site restrictions in one transaction
func (r *GormUserRepository) ReplaceSites(ctx context.Context, userID uuid.UUID, siteIDs []uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&identity.UserSite{}).Error; err != nil {
			return err
		}
		if len(siteIDs) == 0 {
			return nil
		}

		now := time.Now()
		rows := make([]identity.UserSite, 0, len(siteIDs))
		for _, siteID := range siteIDs {
			rows = append(rows, identity.UserSite{
				UserID:    userID,
				SiteID:    siteID,
				CreatedAt: now,
			})
		}
		return tx.Create(&rows).Error
	})
}

// Delete soft-deletes a user. Site restrictions are kept; they are
// invisible behind the deleted user row.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) loadSites(ctx context.Context, user *identity.User) error {
	var siteIDs []uuid.UUID
	if err := r.conn(ctx).
		Model(&identity.UserSite{}).
		Where("user_id = ?", user.ID).
		Pluck("site_id", &siteIDs).Error; err != nil {
		return err
	}
	user.SiteIDs = siteIDs
	return nil
}

func (r *GormUserRepository) loadSitesBatch(ctx context.Context, users []*identity.User) error {
	if len(users) == 0 {
		return nil
	}

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, user := range users {
		userIDs = append(userIDs, user.ID)
	}

	var rows []identity.UserSite
	if err := r.conn(ctx).
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return err
	}

	bySite := make(map[uuid.UUID][]uuid.UUID, len(users))
	for _, row := range rows {
		bySite[row.UserID] = append(bySite[row.UserID], row.SiteID)
	}
	for _, user := range users {
		user.SiteIDs = bySite[user.ID]
	}
	return nil
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
