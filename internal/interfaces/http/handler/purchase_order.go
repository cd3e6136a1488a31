package handler

import (
	"context"
	"fmt"
	"time"

	procurementapp "github.com/caterflow/backend/internal/application/procurement"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderHandler handles purchase order endpoints, including the
// low stock draft generation
type PurchaseOrderHandler struct {
	BaseHandler
	orderService    *procurementapp.PurchaseOrderService
	lowStockService *procurementapp.LowStockService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurementapp.PurchaseOrderService, lowStockService *procurementapp.LowStockService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService:    orderService,
		lowStockService: lowStockService,
	}
}

// CreatePurchaseOrderRequest is the wire form of an order creation.
// Reference fields accept plain IDs or reference objects.
type CreatePurchaseOrderRequest struct {
	Supplier         dto.Reference    `json:"supplier" binding:"required"`
	Site             dto.Reference    `json:"site"`
	ExpectedDelivery *time.Time       `json:"expected_delivery_date"`
	Notes            string           `json:"notes"`
	Lines            []OrderLineInput `json:"items"`
}

// OrderLineInput is the wire form of one order line
type OrderLineInput struct {
	StockItem dto.Reference    `json:"stock_item" binding:"required"`
	Quantity  decimal.Decimal  `json:"ordered_quantity" binding:"required,posdecimal"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// ProcessOrderRequest optionally names the receiving bin
type ProcessOrderRequest struct {
	Bin dto.Reference `json:"bin"`
}

// checkSiteAccess loads the order and verifies the caller may touch its
// delivery site. Orders without a delivery site are open to everyone.
// A false return means an error response has already been written.
func (h *PurchaseOrderHandler) checkSiteAccess(c *gin.Context, orderID uuid.UUID) bool {
	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if order.SiteID == nil {
		return true
	}
	return requireSiteAccess(c, &h.BaseHandler, *order.SiteID)
}

// Create creates a draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplierID, err := refUUID("supplier", req.Supplier)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	siteID, err := refUUIDPtr("site", req.Site)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if siteID != nil && !requireSiteAccess(c, &h.BaseHandler, *siteID) {
		return
	}

	appReq := procurementapp.CreatePurchaseOrderRequest{
		SupplierID:       supplierID,
		SiteID:           siteID,
		ExpectedDelivery: req.ExpectedDelivery,
		Notes:            req.Notes,
		Lines:            make([]procurementapp.OrderLineInput, 0, len(req.Lines)),
	}
	for i, line := range req.Lines {
		itemID, err := refUUID(fmt.Sprintf("items[%d].stock_item", i), line.StockItem)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Lines = append(appReq.Lines, procurementapp.OrderLineInput{
			StockItemID: itemID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), actorID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID returns one purchase order
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if order.SiteID != nil && !requireSiteAccess(c, &h.BaseHandler, *order.SiteID) {
		return
	}

	h.Success(c, order)
}

// GetByNumber returns one purchase order by its document number
func (h *PurchaseOrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Purchase order number is required")
		return
	}

	order, err := h.orderService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if order.SiteID != nil && !requireSiteAccess(c, &h.BaseHandler, *order.SiteID) {
		return
	}

	h.Success(c, order)
}

// List returns a paginated list of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter procurementapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// StatusSummary returns the per-status order counts
func (h *PurchaseOrderHandler) StatusSummary(c *gin.Context) {
	summary, err := h.orderService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update updates header fields of a draft or pending order
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	if !h.checkSiteAccess(c, orderID) {
		return
	}

	var req procurementapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.SiteID != nil && !requireSiteAccess(c, &h.BaseHandler, *req.SiteID) {
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// AddLine adds one line to a draft order
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	var req OrderLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := refUUID("stock_item", req.StockItem)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddLine(c.Request.Context(), orderID, procurementapp.AddOrderLineRequest{
		StockItemID: itemID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateLine changes the quantity or price of an existing line
func (h *PurchaseOrderHandler) UpdateLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	var req procurementapp.UpdateOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateLine(c.Request.Context(), orderID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveLine removes one line from a draft order
func (h *PurchaseOrderHandler) RemoveLine(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	order, err := h.orderService.RemoveLine(c.Request.Context(), orderID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes a draft order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft order to pending approval
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	h.transition(c, h.orderService.Submit)
}

// Approve approves a pending order
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	h.transition(c, h.orderService.Approve)
}

// Reject rejects a pending order with a mandatory reason
func (h *PurchaseOrderHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, true, h.orderService.Reject)
}

// Cancel cancels an order before it is processed
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, false, h.orderService.Cancel)
}

// Process receives an approved order into stock
func (h *PurchaseOrderHandler) Process(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	var req ProcessOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	binID, err := refUUIDPtr("bin", req.Bin)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Process(c.Request.Context(), orderID, actorID, procurementapp.ProcessOrderRequest{BinID: binID})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GenerateLowStock creates draft orders for every low stock item with a
// known supplier. Partial success returns 200 with both lists populated.
func (h *PurchaseOrderHandler) GenerateLowStock(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.lowStockService.GenerateOrders(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *PurchaseOrderHandler) transition(c *gin.Context, apply func(ctx context.Context, orderID, actorID uuid.UUID) (*procurementapp.PurchaseOrderResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	order, err := apply(c.Request.Context(), orderID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

func (h *PurchaseOrderHandler) transitionWithReason(c *gin.Context, reasonRequired bool, apply func(ctx context.Context, orderID, actorID uuid.UUID, reason string) (*procurementapp.PurchaseOrderResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}
	if !h.checkSiteAccess(c, orderID) {
		return
	}

	reason, ok := bindReason(c, &h.BaseHandler, reasonRequired)
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), orderID, actorID, reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
