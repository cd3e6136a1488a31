package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/procurement"
)

// CreatePurchaseOrderRequest is the request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID       uuid.UUID        `json:"supplier" binding:"required"`
	SiteID           *uuid.UUID       `json:"site"`
	ExpectedDelivery *time.Time       `json:"expected_delivery_date"`
	Notes            string           `json:"notes"`
	Lines            []OrderLineInput `json:"items"`
}

// OrderLineInput is one requested order line. UnitPrice is optional and
// defaults to the catalog price of the item.
type OrderLineInput struct {
	StockItemID uuid.UUID        `json:"stock_item" binding:"required"`
	Quantity    decimal.Decimal  `json:"ordered_quantity" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// UpdatePurchaseOrderRequest updates header fields of a draft or pending order
type UpdatePurchaseOrderRequest struct {
	SiteID           *uuid.UUID `json:"site"`
	ExpectedDelivery *time.Time `json:"expected_delivery_date"`
	Notes            *string    `json:"notes"`
}

// AddOrderLineRequest adds one line to an order
type AddOrderLineRequest struct {
	StockItemID uuid.UUID        `json:"stock_item" binding:"required"`
	Quantity    decimal.Decimal  `json:"ordered_quantity" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// UpdateOrderLineRequest changes the quantity or price of an existing line
type UpdateOrderLineRequest struct {
	Quantity  decimal.Decimal `json:"ordered_quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// RejectOrderRequest carries the mandatory rejection reason
type RejectOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelOrderRequest carries the optional cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ProcessOrderRequest optionally names the receiving bin. When absent the
// service resolves the receiving bin of the order's delivery site.
type ProcessOrderRequest struct {
	BinID *uuid.UUID `json:"bin"`
}

// OrderListFilter holds list query parameters for purchase orders
type OrderListFilter struct {
	Page       int                      `form:"page"`
	PageSize   int                      `form:"page_size"`
	OrderBy    string                   `form:"order_by"`
	OrderDir   string                   `form:"order_dir"`
	Search     string                   `form:"search"`
	Status     *docflow.Status          `form:"status"`
	SupplierID *uuid.UUID               `form:"supplier"`
	SiteID     *uuid.UUID               `form:"site"`
	Origin     *procurement.OrderOrigin `form:"origin"`
	DateFrom   *time.Time               `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time               `form:"date_to" time_format:"2006-01-02"`
}

// PurchaseOrderResponse is the full order representation
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	Number               string                      `json:"po_number"`
	SupplierID           uuid.UUID                   `json:"supplier"`
	SupplierName         string                      `json:"supplier_name"`
	SiteID               *uuid.UUID                  `json:"site,omitempty"`
	Origin               procurement.OrderOrigin     `json:"origin"`
	Status               docflow.Status              `json:"status"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	Lines                []PurchaseOrderLineResponse `json:"items"`
	GrandTotal           decimal.Decimal             `json:"total_amount"`
	Notes                string                      `json:"notes,omitempty"`
	CreatedBy            *uuid.UUID                  `json:"created_by,omitempty"`
	SubmittedAt          *time.Time                  `json:"submitted_at,omitempty"`
	SubmittedBy          *uuid.UUID                  `json:"submitted_by,omitempty"`
	ApprovedAt           *time.Time                  `json:"approved_at,omitempty"`
	ApprovedBy           *uuid.UUID                  `json:"approved_by,omitempty"`
	RejectedAt           *time.Time                  `json:"rejected_at,omitempty"`
	RejectedBy           *uuid.UUID                  `json:"rejected_by,omitempty"`
	RejectionReason      string                      `json:"rejection_reason,omitempty"`
	CancelledAt          *time.Time                  `json:"cancelled_at,omitempty"`
	CancelledBy          *uuid.UUID                  `json:"cancelled_by,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	CompletedAt          *time.Time                  `json:"processed_at,omitempty"`
	CompletedBy          *uuid.UUID                  `json:"processed_by,omitempty"`
	Version              int                         `json:"version"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// PurchaseOrderListItemResponse is the compact list representation
type PurchaseOrderListItemResponse struct {
	ID           uuid.UUID               `json:"id"`
	Number       string                  `json:"po_number"`
	SupplierID   uuid.UUID               `json:"supplier"`
	SupplierName string                  `json:"supplier_name"`
	SiteID       *uuid.UUID              `json:"site,omitempty"`
	Origin       procurement.OrderOrigin `json:"origin"`
	Status       docflow.Status          `json:"status"`
	OrderDate    time.Time               `json:"order_date"`
	LineCount    int                     `json:"item_count"`
	GrandTotal   decimal.Decimal         `json:"total_amount"`
	CreatedAt    time.Time               `json:"created_at"`
}

// PurchaseOrderLineResponse is one order line
type PurchaseOrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item"`
	ItemName    string          `json:"item_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"ordered_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"amount"`
}

// OrderStatusSummary is the per-status document count for dashboards
type OrderStatusSummary struct {
	Counts map[docflow.Status]int64 `json:"counts"`
	Total  int64                    `json:"total"`
}

// LowStockOrderResult reports the outcome of a low stock generation run.
// Creation is per supplier, so one run can partially succeed.
type LowStockOrderResult struct {
	Created []PurchaseOrderListItemResponse `json:"created"`
	Failed  []LowStockFailure               `json:"failed"`
}

// LowStockFailure names one item or supplier group that could not be ordered
type LowStockFailure struct {
	StockItemID *uuid.UUID `json:"stock_item,omitempty"`
	SupplierID  *uuid.UUID `json:"supplier,omitempty"`
	ItemName    string     `json:"item_name,omitempty"`
	Code        string     `json:"code"`
	Message     string     `json:"message"`
}

// ToPurchaseOrderResponse converts an order aggregate to its full response
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, len(order.Lines))
	for i := range order.Lines {
		lines[i] = ToPurchaseOrderLineResponse(&order.Lines[i])
	}

	return PurchaseOrderResponse{
		ID:                   order.ID,
		Number:               order.Number,
		SupplierID:           order.SupplierID,
		SupplierName:         order.SupplierName,
		SiteID:               order.SiteID,
		Origin:               order.Origin,
		Status:               order.Status,
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Lines:                lines,
		GrandTotal:           order.GrandTotal,
		Notes:                order.Notes,
		CreatedBy:            order.CreatedBy,
		SubmittedAt:          order.SubmittedAt,
		SubmittedBy:          order.SubmittedBy,
		ApprovedAt:           order.ApprovedAt,
		ApprovedBy:           order.ApprovedBy,
		RejectedAt:           order.RejectedAt,
		RejectedBy:           order.RejectedBy,
		RejectionReason:      order.RejectionReason,
		CancelledAt:          order.CancelledAt,
		CancelledBy:          order.CancelledBy,
		CancelReason:         order.CancelReason,
		CompletedAt:          order.CompletedAt,
		CompletedBy:          order.CompletedBy,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToPurchaseOrderLineResponse converts one order line
func ToPurchaseOrderLineResponse(line *procurement.PurchaseOrderLine) PurchaseOrderLineResponse {
	return PurchaseOrderLineResponse{
		ID:          line.ID,
		StockItemID: line.StockItemID,
		ItemName:    line.ItemName,
		SKU:         line.SKU,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		LineTotal:   line.LineTotal,
	}
}

// ToPurchaseOrderListItemResponse converts an order to its list representation
func ToPurchaseOrderListItemResponse(order *procurement.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:           order.ID,
		Number:       order.Number,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		SiteID:       order.SiteID,
		Origin:       order.Origin,
		Status:       order.Status,
		OrderDate:    order.OrderDate,
		LineCount:    order.LineCount(),
		GrandTotal:   order.GrandTotal,
		CreatedAt:    order.CreatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of orders
func ToPurchaseOrderListItemResponses(orders []*procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(order)
	}
	return responses
}
