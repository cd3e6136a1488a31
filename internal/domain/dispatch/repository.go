package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/shared"
)

// DispatchFilter holds query criteria for listing dispatches
type DispatchFilter struct {
	shared.Filter
	SiteID         *uuid.UUID
	EvidenceStatus *EvidenceStatus
	Search         string
	DateFrom       *time.Time
	DateTo         *time.Time
}

// DispatchLogRepository defines persistence operations for dispatch logs
type DispatchLogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DispatchLog, error)
	FindByNumber(ctx context.Context, number string) (*DispatchLog, error)
	FindAll(ctx context.Context, filter DispatchFilter) (*shared.Paginated[*DispatchLog], error)
	// LastNumber returns the highest-sorting dispatch number with the
	// given prefix. Dispatch numbers restart daily, so the prefix carries
	// the date.
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Save(ctx context.Context, log *DispatchLog) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByEvidenceStatus(ctx context.Context) (map[EvidenceStatus]int64, error)
}
