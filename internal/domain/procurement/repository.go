package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// OrderFilter holds query criteria for listing purchase orders
type OrderFilter struct {
	shared.Filter
	Status     *docflow.Status
	SupplierID *uuid.UUID
	SiteID     *uuid.UUID
	Origin     *OrderOrigin
	Search     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter OrderFilter) (*shared.Paginated[*PurchaseOrder], error)
	// LastNumber returns the highest-sorting document number with the
	// given prefix, or empty string when none exists yet.
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[docflow.Status]int64, error)
}
