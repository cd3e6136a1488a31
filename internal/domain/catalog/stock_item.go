package catalog

import (
	"time"

	"github.com/caterflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockItem represents a purchasable and dispatchable catalog item.
// SKU uniqueness is enforced across non-deleted items (soft delete).
type StockItem struct {
	shared.BaseAggregateRoot
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_item_sku,where:deleted_at IS NULL"`
	Name              string          `gorm:"type:varchar(200);not null"`
	UnitOfMeasure     string          `gorm:"type:varchar(20);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStockLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PrimarySupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierIDs       []uuid.UUID     `gorm:"-"` // loaded via join table
	DeletedAt         gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// StockItemSupplier is the join row linking an item to an assigned supplier
type StockItemSupplier struct {
	StockItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockItemSupplier) TableName() string {
	return "stock_item_suppliers"
}

// NewStockItem creates a new stock item
func NewStockItem(sku, name, unitOfMeasure string, unitPrice decimal.Decimal) (*StockItem, error) {
	if sku == "" {
		return nil, shared.NewValidationError("stock item is missing required fields", "sku")
	}
	if name == "" {
		return nil, shared.NewValidationError("stock item is missing required fields", "name")
	}
	if unitOfMeasure == "" {
		return nil, shared.NewValidationError("stock item is missing required fields", "unit_of_measure")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		UnitOfMeasure:     unitOfMeasure,
		UnitPrice:         unitPrice,
		MinimumStockLevel: decimal.Zero,
		ReorderQuantity:   decimal.Zero,
	}, nil
}

// SetReorderPolicy sets the low-stock threshold and the quantity ordered
// when the item falls below it
func (i *StockItem) SetReorderPolicy(minimumLevel, reorderQuantity decimal.Decimal) error {
	if minimumLevel.IsNegative() || reorderQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Reorder policy values cannot be negative")
	}
	i.MinimumStockLevel = minimumLevel
	i.ReorderQuantity = reorderQuantity
	i.Touch()
	i.IncrementVersion()
	return nil
}

// AssignPrimarySupplier sets the preferred supplier for reordering
func (i *StockItem) AssignPrimarySupplier(supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Supplier ID cannot be empty")
	}
	i.PrimarySupplierID = &supplierID
	i.Touch()
	i.IncrementVersion()
	return nil
}

// ClearPrimarySupplier removes the primary supplier assignment
func (i *StockItem) ClearPrimarySupplier() {
	i.PrimarySupplierID = nil
	i.Touch()
	i.IncrementVersion()
}

// UpdateDetails updates the display fields of the item
func (i *StockItem) UpdateDetails(name, unitOfMeasure string) error {
	if name == "" {
		return shared.NewValidationError("stock item is missing required fields", "name")
	}
	if unitOfMeasure == "" {
		return shared.NewValidationError("stock item is missing required fields", "unit_of_measure")
	}
	i.Name = name
	i.UnitOfMeasure = unitOfMeasure
	i.Touch()
	i.IncrementVersion()
	return nil
}

// UpdateUnitPrice records the latest purchase price for the item.
// Called when a purchase order is processed.
func (i *StockItem) UpdateUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	i.UnitPrice = price
	i.Touch()
	i.IncrementVersion()
	return nil
}

// ResolveSupplier returns the supplier to order from: the primary supplier
// when assigned, otherwise the first assigned supplier, otherwise nil
func (i *StockItem) ResolveSupplier() *uuid.UUID {
	if i.PrimarySupplierID != nil {
		return i.PrimarySupplierID
	}
	if len(i.SupplierIDs) > 0 {
		id := i.SupplierIDs[0]
		return &id
	}
	return nil
}
