package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// BinFilter holds query criteria for listing bins
type BinFilter struct {
	shared.Filter
	SiteID *uuid.UUID
	Search string
	Active *bool
}

// BinRepository defines persistence operations for bins
type BinRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bin, error)
	FindBySite(ctx context.Context, siteID uuid.UUID) ([]*Bin, error)
	FindAll(ctx context.Context, filter BinFilter) (*shared.Paginated[*Bin], error)
	ExistsByName(ctx context.Context, siteID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, bin *Bin) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemStockLevel is an aggregated view of one item's stock across bins
type ItemStockLevel struct {
	StockItemID uuid.UUID
	Total       decimal.Decimal
}

// BinStockRepository defines persistence operations for per-bin stock
type BinStockRepository interface {
	FindByBinAndItem(ctx context.Context, binID, stockItemID uuid.UUID) (*BinStock, error)
	FindByBin(ctx context.Context, binID uuid.UUID) ([]*BinStock, error)
	FindByItem(ctx context.Context, stockItemID uuid.UUID) ([]*BinStock, error)
	// TotalByItem sums on-hand quantity per item across all bins. Used by
	// the low-stock scan and the stock level report.
	TotalByItem(ctx context.Context) ([]ItemStockLevel, error)
	TotalForItem(ctx context.Context, stockItemID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, stock *BinStock) error
}

// TransferFilter holds query criteria for listing transfers
type TransferFilter struct {
	shared.Filter
	Status     *docflow.Status
	FromSiteID *uuid.UUID
	ToSiteID   *uuid.UUID
	Search     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// InternalTransferRepository defines persistence operations for transfers
type InternalTransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InternalTransfer, error)
	FindByNumber(ctx context.Context, number string) (*InternalTransfer, error)
	FindAll(ctx context.Context, filter TransferFilter) (*shared.Paginated[*InternalTransfer], error)
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Save(ctx context.Context, transfer *InternalTransfer) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[docflow.Status]int64, error)
}

// AdjustmentFilter holds query criteria for listing adjustments
type AdjustmentFilter struct {
	shared.Filter
	Status   *docflow.Status
	SiteID   *uuid.UUID
	Reason   *AdjustmentReason
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// StockAdjustmentRepository defines persistence operations for adjustments
type StockAdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)
	FindByNumber(ctx context.Context, number string) (*StockAdjustment, error)
	FindAll(ctx context.Context, filter AdjustmentFilter) (*shared.Paginated[*StockAdjustment], error)
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Save(ctx context.Context, adjustment *StockAdjustment) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[docflow.Status]int64, error)
}

// CountFilter holds query criteria for listing bin counts
type CountFilter struct {
	shared.Filter
	Status   *docflow.Status
	SiteID   *uuid.UUID
	BinID    *uuid.UUID
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// BinCountRepository defines persistence operations for bin counts
type BinCountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BinCount, error)
	FindByNumber(ctx context.Context, number string) (*BinCount, error)
	FindAll(ctx context.Context, filter CountFilter) (*shared.Paginated[*BinCount], error)
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Save(ctx context.Context, count *BinCount) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[docflow.Status]int64, error)
}
