package handler

import (
	catalogapp "github.com/caterflow/backend/internal/application/catalog"
	inventoryapp "github.com/caterflow/backend/internal/application/inventory"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemHandler handles stock item catalog endpoints
type StockItemHandler struct {
	BaseHandler
	stockItemService *catalogapp.StockItemService
	binService       *inventoryapp.BinService
}

// NewStockItemHandler creates a new StockItemHandler
func NewStockItemHandler(stockItemService *catalogapp.StockItemService, binService *inventoryapp.BinService) *StockItemHandler {
	return &StockItemHandler{
		stockItemService: stockItemService,
		binService:       binService,
	}
}

// CreateStockItemRequest is the wire form of a stock item creation.
// Supplier fields accept plain IDs or reference objects.
type CreateStockItemRequest struct {
	SKU               string           `json:"sku" binding:"required,max=50"`
	Name              string           `json:"name" binding:"required,max=200"`
	UnitOfMeasure     string           `json:"unit_of_measure" binding:"required,max=20"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	MinimumStockLevel *decimal.Decimal `json:"minimum_stock_level"`
	ReorderQuantity   *decimal.Decimal `json:"reorder_quantity"`
	PrimarySupplier   dto.Reference    `json:"primary_supplier"`
	Suppliers         []dto.Reference  `json:"suppliers"`
}

// AssignSuppliersRequest is the wire form of a supplier assignment
type AssignSuppliersRequest struct {
	Suppliers       []dto.Reference `json:"suppliers" binding:"required"`
	PrimarySupplier dto.Reference   `json:"primary_supplier"`
}

// Create creates a new stock item
func (h *StockItemHandler) Create(c *gin.Context) {
	var req CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	primarySupplier, err := refUUIDPtr("primary_supplier", req.PrimarySupplier)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	suppliers, err := refUUIDs("suppliers", req.Suppliers)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateStockItemRequest{
		SKU:               req.SKU,
		Name:              req.Name,
		UnitOfMeasure:     req.UnitOfMeasure,
		UnitPrice:         req.UnitPrice,
		MinimumStockLevel: req.MinimumStockLevel,
		ReorderQuantity:   req.ReorderQuantity,
		PrimarySupplierID: primarySupplier,
		SupplierIDs:       suppliers,
	}

	item, err := h.stockItemService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID returns one stock item
func (h *StockItemHandler) GetByID(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	item, err := h.stockItemService.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// GetBySKU returns one stock item by its SKU
func (h *StockItemHandler) GetBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "SKU is required")
		return
	}

	item, err := h.stockItemService.GetBySKU(c.Request.Context(), sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List returns a paginated list of stock items
func (h *StockItemHandler) List(c *gin.Context) {
	var filter catalogapp.StockItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.stockItemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update applies a partial update to a stock item
func (h *StockItemHandler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req catalogapp.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.stockItemService.Update(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// AssignSuppliers replaces the item's supplier set
func (h *StockItemHandler) AssignSuppliers(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req AssignSuppliersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	suppliers, err := refUUIDs("suppliers", req.Suppliers)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	primarySupplier, err := refUUIDPtr("primary_supplier", req.PrimarySupplier)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.stockItemService.AssignSuppliers(c.Request.Context(), itemID, catalogapp.AssignSuppliersRequest{
		SupplierIDs:       suppliers,
		PrimarySupplierID: primarySupplier,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete soft-deletes a stock item
func (h *StockItemHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	if err := h.stockItemService.Delete(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LowStock returns all items whose on-hand total is below the minimum
// stock level
func (h *StockItemHandler) LowStock(c *gin.Context) {
	items, err := h.stockItemService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Stock returns the per-bin stock of one item
func (h *StockItemHandler) Stock(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	stocks, err := h.binService.ItemStock(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stocks)
}
