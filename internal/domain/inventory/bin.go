package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/shared"
)

// Bin is a storage location inside a site: a shelf, fridge, freezer, or
// dry store. Bin names are unique within their site across non-deleted
// rows.
type Bin struct {
	shared.BaseAggregateRoot
	SiteID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_bins_site_name,priority:1,where:deleted_at IS NULL"`
	Name        string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_bins_site_name,priority:2,where:deleted_at IS NULL"`
	Description string         `gorm:"type:varchar(500)"`
	Active      bool           `gorm:"not null;default:true"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Bin) TableName() string {
	return "bins"
}

// NewBin creates a new active bin inside a site
func NewBin(siteID uuid.UUID, name, description string) (*Bin, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewValidationError("bin is missing required fields", "site_id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("bin is missing required fields", "name")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("Bin name cannot exceed 100 characters")
	}

	return &Bin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		Name:              name,
		Description:       description,
		Active:            true,
	}, nil
}

// Update changes the bin's name and description
func (b *Bin) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Bin name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("Bin name cannot exceed 100 characters")
	}

	b.Name = name
	b.Description = description
	b.Touch()
	b.IncrementVersion()

	return nil
}

// Activate re-enables the bin
func (b *Bin) Activate() {
	b.Active = true
	b.Touch()
	b.IncrementVersion()
}

// Deactivate disables the bin for new stock movements
func (b *Bin) Deactivate() {
	b.Active = false
	b.Touch()
	b.IncrementVersion()
}

// BinStock holds the on-hand quantity of one stock item in one bin.
// The composite identifier is BinID + StockItemID.
type BinStock struct {
	shared.BaseAggregateRoot
	BinID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bin_stock_bin_item,priority:1"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bin_stock_bin_item,priority:2"`
	SiteID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (BinStock) TableName() string {
	return "bin_stock"
}

// NewBinStock creates an empty stock record for a bin-item combination
func NewBinStock(siteID, binID, stockItemID uuid.UUID) (*BinStock, error) {
	if binID == uuid.Nil {
		return nil, shared.NewValidationError("bin stock is missing required fields", "bin_id")
	}
	if stockItemID == uuid.Nil {
		return nil, shared.NewValidationError("bin stock is missing required fields", "stock_item_id")
	}
	if siteID == uuid.Nil {
		return nil, shared.NewValidationError("bin stock is missing required fields", "site_id")
	}

	return &BinStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		BinID:             binID,
		StockItemID:       stockItemID,
		Quantity:          decimal.Zero,
	}, nil
}

// Increase adds to the on-hand quantity
func (s *BinStock) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}

	s.Quantity = s.Quantity.Add(quantity)
	s.Touch()
	s.IncrementVersion()

	return nil
}

// Decrease removes from the on-hand quantity. Stock can never go negative.
func (s *BinStock) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if s.Quantity.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock in bin")
	}

	s.Quantity = s.Quantity.Sub(quantity)
	s.Touch()
	s.IncrementVersion()

	return nil
}

// SetQuantity overwrites the on-hand quantity. Used when a completed bin
// count establishes the actual quantity.
func (s *BinStock) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewValidationError("Quantity cannot be negative")
	}

	s.Quantity = quantity
	s.Touch()
	s.IncrementVersion()

	return nil
}

// IsEmpty returns true when the bin holds none of the item
func (s *BinStock) IsEmpty() bool {
	return s.Quantity.IsZero()
}
