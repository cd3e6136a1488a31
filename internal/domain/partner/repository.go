package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/shared"
)

// SupplierFilter holds query criteria for listing suppliers
type SupplierFilter struct {
	shared.Filter
	Search string
	Active *bool
}

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	FindAll(ctx context.Context, filter SupplierFilter) (*shared.Paginated[*Supplier], error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SiteFilter holds query criteria for listing sites
type SiteFilter struct {
	shared.Filter
	Search string
	Type   *SiteType
	Active *bool
}

// SiteRepository defines persistence operations for sites
type SiteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Site, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Site, error)
	FindAll(ctx context.Context, filter SiteFilter) (*shared.Paginated[*Site], error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, site *Site) error
	Delete(ctx context.Context, id uuid.UUID) error
}
