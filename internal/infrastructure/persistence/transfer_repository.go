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

// GormTransferRepository implements InternalTransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormTransferRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a transfer by ID with its lines loaded
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InternalTransfer, error) {
	var transfer inventory.InternalTransfer
	if err := r.conn(ctx).
		Preload("Lines").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindByNumber finds a transfer by its document number
func (r *GormTransferRepository) FindByNumber(ctx context.Context, number string) (*inventory.InternalTransfer, error) {
	var transfer inventory.InternalTransfer
	if err := r.conn(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll finds transfers matching the filter, paginated
func (r *GormTransferRepository) FindAll(ctx context.Context, filter inventory.TransferFilter) (*shared.Paginated[*inventory.InternalTransfer], error) {
	query := r.conn(ctx).Model(&inventory.InternalTransfer{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromSiteID != nil {
		query = query.Where("from_site_id = ?", *filter.FromSiteID)
	}
	if filter.ToSiteID != nil {
		query = query.Where("to_site_id = ?", *filter.ToSiteID)
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

	orderBy := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var transfers []*inventory.InternalTransfer
	if err := query.Preload("Lines").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&transfers).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(transfers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// LastNumber returns the highest-sorting transfer number with the prefix
func (r *GormTransferRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.conn(ctx), &inventory.InternalTransfer{}, prefix)
}

// ExistsByNumber checks if a transfer with the number exists
func (r *GormTransferRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return existsByNumber(ctx, r.conn(ctx), &inventory.InternalTransfer{}, number)
}

// Save persists the transfer and its lines, pruning removed lines
func (r *GormTransferRepository) Save(ctx context.Context, transfer *inventory.InternalTransfer) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		keepIDs := make([]uuid.UUID, 0, len(transfer.Lines))
		for _, line := range transfer.Lines {
			keepIDs = append(keepIDs, line.ID)
		}
		if err := pruneLines(tx, &inventory.TransferLine{}, "transfer_id", transfer.ID, keepIDs); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(transfer).Error
	})
}

// Delete removes the transfer and its lines
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", id).Delete(&inventory.TransferLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.InternalTransfer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus counts transfers grouped by status
func (r *GormTransferRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	return countByStatus(ctx, r.conn(ctx), &inventory.InternalTransfer{})
}

// Ensure GormTransferRepository implements InternalTransferRepository
var _ inventory.InternalTransferRepository = (*GormTransferRepository)(nil)
