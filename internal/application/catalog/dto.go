package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/catalog"
)

// CreateStockItemRequest is the request to create a stock item
type CreateStockItemRequest struct {
	SKU               string           `json:"sku" binding:"required,max=50"`
	Name              string           `json:"name" binding:"required,max=200"`
	UnitOfMeasure     string           `json:"unit_of_measure" binding:"required,max=20"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	MinimumStockLevel *decimal.Decimal `json:"minimum_stock_level"`
	ReorderQuantity   *decimal.Decimal `json:"reorder_quantity"`
	PrimarySupplierID *uuid.UUID       `json:"primary_supplier"`
	SupplierIDs       []uuid.UUID      `json:"suppliers"`
}

// UpdateStockItemRequest is the request to update a stock item. Only the
// fields present in the payload are touched.
type UpdateStockItemRequest struct {
	Name              *string          `json:"name" binding:"omitempty,max=200"`
	UnitOfMeasure     *string          `json:"unit_of_measure" binding:"omitempty,max=20"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	MinimumStockLevel *decimal.Decimal `json:"minimum_stock_level"`
	ReorderQuantity   *decimal.Decimal `json:"reorder_quantity"`
}

// AssignSuppliersRequest replaces the item's supplier set. The primary
// supplier, when given, must be part of the set.
type AssignSuppliersRequest struct {
	SupplierIDs       []uuid.UUID `json:"suppliers" binding:"required"`
	PrimarySupplierID *uuid.UUID  `json:"primary_supplier"`
}

// StockItemListFilter holds the query parameters for listing stock items
type StockItemListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
}

// StockItemResponse is the API representation of a stock item
type StockItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	MinimumStockLevel decimal.Decimal `json:"minimum_stock_level"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`
	PrimarySupplierID *uuid.UUID      `json:"primary_supplier,omitempty"`
	SupplierIDs       []uuid.UUID     `json:"suppliers,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LowStockItemResponse is one row of the low-stock report: an item whose
// on-hand total across all bins is below its minimum stock level.
type LowStockItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	OnHand            decimal.Decimal `json:"on_hand"`
	MinimumStockLevel decimal.Decimal `json:"minimum_stock_level"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`
	Shortfall         decimal.Decimal `json:"shortfall"`
	SupplierID        *uuid.UUID      `json:"supplier,omitempty"`
}

// ToStockItemResponse converts a stock item aggregate to its API representation
func ToStockItemResponse(item *catalog.StockItem) *StockItemResponse {
	return &StockItemResponse{
		ID:                item.ID,
		SKU:               item.SKU,
		Name:              item.Name,
		UnitOfMeasure:     item.UnitOfMeasure,
		UnitPrice:         item.UnitPrice,
		MinimumStockLevel: item.MinimumStockLevel,
		ReorderQuantity:   item.ReorderQuantity,
		PrimarySupplierID: item.PrimarySupplierID,
		SupplierIDs:       item.SupplierIDs,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
