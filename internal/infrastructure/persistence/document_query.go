package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/docflow"
)

// pruneLines deletes line rows that were removed from the aggregate since
// the last save. keepIDs is the set of line IDs still on the document.
func pruneLines(tx *gorm.DB, lineModel interface{}, parentColumn string, parentID uuid.UUID, keepIDs []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	return query.Delete(lineModel).Error
}

// countByStatus counts document rows grouped by workflow status
func countByStatus(ctx context.Context, db *gorm.DB, model interface{}) (map[docflow.Status]int64, error) {
	var rows []struct {
		Status docflow.Status
		Count  int64
	}
	if err := db.WithContext(ctx).
		Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[docflow.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// lastNumber returns the highest-sorting document number with the prefix,
// or empty string when none exists yet
func lastNumber(ctx context.Context, db *gorm.DB, model interface{}, prefix string) (string, error) {
	var numbers []string
	if err := db.WithContext(ctx).
		Model(model).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error; err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// existsByNumber checks whether a document row with the number exists
func existsByNumber(ctx context.Context, db *gorm.DB, model interface{}, number string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(model).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
