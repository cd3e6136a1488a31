package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated       = "PurchaseOrderCreated"
	EventTypePurchaseOrderStatusChanged = "PurchaseOrderStatusChanged"
	EventTypePurchaseOrderApproved      = "PurchaseOrderApproved"
	EventTypePurchaseOrderProcessed     = "PurchaseOrderProcessed"
)

// PurchaseOrderCreatedEvent is published when a new order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID   `json:"order_id"`
	Number     string      `json:"number"`
	SupplierID uuid.UUID   `json:"supplier_id"`
	Origin     OrderOrigin `json:"origin"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		SupplierID:      order.SupplierID,
		Origin:          order.Origin,
	}
}

// PurchaseOrderStatusChangedEvent is published on every status move
type PurchaseOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID      `json:"order_id"`
	Number    string         `json:"number"`
	OldStatus docflow.Status `json:"old_status"`
	NewStatus docflow.Status `json:"new_status"`
}

// NewPurchaseOrderStatusChangedEvent creates a new PurchaseOrderStatusChangedEvent
func NewPurchaseOrderStatusChangedEvent(order *PurchaseOrder, oldStatus, newStatus docflow.Status) *PurchaseOrderStatusChangedEvent {
	return &PurchaseOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderStatusChanged, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// PurchaseOrderApprovedEvent is published when an order is approved and
// ready to send to the supplier
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	Number       string          `json:"number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		GrandTotal:      order.GrandTotal,
	}
}

// PurchaseOrderProcessedEvent is published when goods are received
type PurchaseOrderProcessedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Number     string          `json:"number"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	SiteID     *uuid.UUID      `json:"site_id,omitempty"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	LineCount  int             `json:"line_count"`
}

// NewPurchaseOrderProcessedEvent creates a new PurchaseOrderProcessedEvent
func NewPurchaseOrderProcessedEvent(order *PurchaseOrder) *PurchaseOrderProcessedEvent {
	return &PurchaseOrderProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderProcessed, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		SupplierID:      order.SupplierID,
		SiteID:          order.SiteID,
		GrandTotal:      order.GrandTotal,
		LineCount:       order.LineCount(),
	}
}
