package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/dispatch"
	"github.com/caterflow/backend/internal/domain/shared"
)

// GormDispatchLogRepository implements DispatchLogRepository using GORM
type GormDispatchLogRepository struct {
	db *gorm.DB
}

// NewGormDispatchLogRepository creates a new GormDispatchLogRepository
func NewGormDispatchLogRepository(db *gorm.DB) *GormDispatchLogRepository {
	return &GormDispatchLogRepository{db: db}
}

// conn returns the transaction carried by the context, if any,
// otherwise the base connection.
func (r *GormDispatchLogRepository) conn(ctx context.Context) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// FindByID finds a dispatch log by ID with lines and evidence loaded
func (r *GormDispatchLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*dispatch.DispatchLog, error) {
	var log dispatch.DispatchLog
	if err := r.conn(ctx).
		Preload("Lines").
		Preload("Evidence").
		First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindByNumber finds a dispatch log by its document number
func (r *GormDispatchLogRepository) FindByNumber(ctx context.Context, number string) (*dispatch.DispatchLog, error) {
	var log dispatch.DispatchLog
	if err := r.conn(ctx).
		Preload("Lines").
		Preload("Evidence").
		Where("number = ?", number).
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindAll finds dispatch logs matching the filter, paginated
func (r *GormDispatchLogRepository) FindAll(ctx context.Context, filter dispatch.DispatchFilter) (*shared.Paginated[*dispatch.DispatchLog], error) {
	query := r.conn(ctx).Model(&dispatch.DispatchLog{})

	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.EvidenceStatus != nil {
		query = query.Where("evidence_status = ?", *filter.EvidenceStatus)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR event_name ILIKE ?", pattern, pattern)
	}
	if filter.DateFrom != nil {
		query = query.Where("dispatch_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("dispatch_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, DispatchSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var logs []*dispatch.DispatchLog
	if err := query.Preload("Lines").
		Preload("Evidence").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(logs, total, filter.Page, filter.PageSize)
	return &page, nil
}

// LastNumber returns the highest-sorting dispatch number with the prefix.
// Dispatch numbers restart daily, so the prefix carries the date.
func (r *GormDispatchLogRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.conn(ctx), &dispatch.DispatchLog{}, prefix)
}

// ExistsByNumber checks if a dispatch log with the number exists
func (r *GormDispatchLogRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return existsByNumber(ctx, r.conn(ctx), &dispatch.DispatchLog{}, number)
}

// Save persists the dispatch log with its lines and evidence, pruning
// lines removed from the aggregate. Evidence rows are append-only.
func (r *GormDispatchLogRepository) Save(ctx context.Context, log *dispatch.DispatchLog) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		keepIDs := make([]uuid.UUID, 0, len(log.Lines))
		for _, line := range log.Lines {
			keepIDs = append(keepIDs, line.ID)
		}
		if err := pruneLines(tx, &dispatch.DispatchLine{}, "dispatch_id", log.ID, keepIDs); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(log).Error
	})
}

// Delete removes the dispatch log with its lines and evidence rows
func (r *GormDispatchLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispatch_id = ?", id).Delete(&dispatch.DispatchLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dispatch_id = ?", id).Delete(&dispatch.DispatchEvidence{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&dispatch.DispatchLog{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByEvidenceStatus counts dispatch logs grouped by evidence status
func (r *GormDispatchLogRepository) CountByEvidenceStatus(ctx context.Context) (map[dispatch.EvidenceStatus]int64, error) {
	var rows []struct {
		EvidenceStatus dispatch.EvidenceStatus
		Count          int64
	}
	if err := r.conn(ctx).
		Model(&dispatch.DispatchLog{}).
		Select("evidence_status, COUNT(*) AS count").
		Group("evidence_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[dispatch.EvidenceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.EvidenceStatus] = row.Count
	}
	return counts, nil
}

// Ensure GormDispatchLogRepository implements DispatchLogRepository
var _ dispatch.DispatchLogRepository = (*GormDispatchLogRepository)(nil)
