package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// OrderOrigin records how a purchase order came to exist
type OrderOrigin string

const (
	OrderOriginManual   OrderOrigin = "manual"
	OrderOriginLowStock OrderOrigin = "low_stock"
)

// PurchaseOrderLine is one ordered item. ItemName and SKU are snapshots
// taken when the line is added so completed documents stay readable after
// catalog edits.
type PurchaseOrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName    string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewPurchaseOrderLine creates a new order line
func NewPurchaseOrderLine(orderID, stockItemID uuid.UUID, itemName, sku string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderLine, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewValidationError("order line is missing required fields", "stock_item_id")
	}
	if itemName == "" {
		return nil, shared.NewValidationError("order line is missing required fields", "item_name")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		StockItemID: stockItemID,
		ItemName:    itemName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PurchaseOrder is the aggregate root for supplier orders. It moves
// through draft, pending approval, approved, and processed; processing
// receives stock into the destination site.
type PurchaseOrder struct {
	shared.AuthoredAggregateRoot
	docflow.WorkflowStamps
	Number               string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName         string              `gorm:"type:varchar(200);not null"`
	SiteID               *uuid.UUID          `gorm:"type:uuid;index"`
	Origin               OrderOrigin         `gorm:"type:varchar(20);not null;default:'manual'"`
	Status               docflow.Status      `gorm:"type:varchar(20);not null;default:'draft';index"`
	OrderDate            time.Time           `gorm:"not null"`
	ExpectedDeliveryDate *time.Time          `gorm:"index"`
	Lines                []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
	GrandTotal           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Notes                string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft order for a supplier
func NewPurchaseOrder(number string, supplierID uuid.UUID, supplierName string, origin OrderOrigin, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewValidationError("purchase order is missing required fields", "number")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("purchase order is missing required fields", "supplier_id")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("purchase order is missing required fields", "supplier_name")
	}
	if origin == "" {
		origin = OrderOriginManual
	}

	order := &PurchaseOrder{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		SupplierID:            supplierID,
		SupplierName:          supplierName,
		Origin:                origin,
		Status:                docflow.StatusDraft,
		OrderDate:             time.Now(),
		Lines:                 make([]PurchaseOrderLine, 0),
		GrandTotal:            decimal.Zero,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds an item to the order and recalculates the totals
func (o *PurchaseOrder) AddLine(stockItemID uuid.UUID, itemName, sku string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderLine, error) {
	if err := docflow.CanEdit(docflow.DocTypePurchaseOrder, o.Status); err != nil {
		return nil, err
	}

	for _, line := range o.Lines {
		if line.StockItemID == stockItemID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Item already on order, update the existing line")
		}
	}

	line, err := NewPurchaseOrderLine(o.ID, stockItemID, itemName, sku, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotals()
	o.Touch()
	o.IncrementVersion()

	return line, nil
}

// UpdateLine changes the quantity and unit price of an existing line and
// recalculates the totals
func (o *PurchaseOrder) UpdateLine(lineID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if err := docflow.CanEdit(docflow.DocTypePurchaseOrder, o.Status); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}

	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines[i].Quantity = quantity
			o.Lines[i].UnitPrice = unitPrice
			o.Lines[i].UpdatedAt = time.Now()
			o.recalculateTotals()
			o.Touch()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line and recalculates the totals
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if err := docflow.CanEdit(docflow.DocTypePurchaseOrder, o.Status); err != nil {
		return err
	}

	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.recalculateTotals()
			o.Touch()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

// SetDeliverySite sets the site the order will be received into
func (o *PurchaseOrder) SetDeliverySite(siteID uuid.UUID) error {
	if err := docflow.CanEdit(docflow.DocTypePurchaseOrder, o.Status); err != nil {
		return err
	}
	if siteID == uuid.Nil {
		return shared.NewValidationError("Site ID cannot be empty")
	}

	o.SiteID = &siteID
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetExpectedDelivery sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDelivery(date time.Time) error {
	if err := docflow.CanEdit(docflow.DocTypePurchaseOrder, o.Status); err != nil {
		return err
	}

	o.ExpectedDeliveryDate = &date
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes while the document is editable
func (o *PurchaseOrder) SetNotes(notes string) error {
	if err := docflow.CanEdit(docflow.DocTypePurchaseOrder, o.Status); err != nil {
		return err
	}
	o.Notes = notes
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Submit moves the order to pending approval
func (o *PurchaseOrder) Submit(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypePurchaseOrder, o.Status, docflow.StatusPendingApproval); err != nil {
		return err
	}
	if len(o.Lines) == 0 {
		return shared.NewValidationError("Cannot submit an order without lines")
	}

	old := o.Status
	o.Status = docflow.StatusPendingApproval
	o.StampSubmitted(actor)
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, old, o.Status))

	return nil
}

// Approve accepts the order for sending to the supplier
func (o *PurchaseOrder) Approve(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypePurchaseOrder, o.Status, docflow.StatusApproved); err != nil {
		return err
	}

	old := o.Status
	o.Status = docflow.StatusApproved
	o.StampApproved(actor)
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, old, o.Status))
	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	return nil
}

// Reject declines the order with a reason
func (o *PurchaseOrder) Reject(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypePurchaseOrder, o.Status, docflow.StatusRejected); err != nil {
		return err
	}

	old := o.Status
	o.Status = docflow.StatusRejected
	o.StampRejected(actor, reason)
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, old, o.Status))

	return nil
}

// Process marks goods as received. The stock intake and catalog price
// refresh run in the application service within the same transaction.
func (o *PurchaseOrder) Process(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypePurchaseOrder, o.Status, docflow.StatusProcessed); err != nil {
		return err
	}

	old := o.Status
	o.Status = docflow.StatusProcessed
	o.StampCompleted(actor)
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderProcessedEvent(o))
	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, old, o.Status))

	return nil
}

// Cancel abandons the order before it is approved
func (o *PurchaseOrder) Cancel(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypePurchaseOrder, o.Status, docflow.StatusCancelled); err != nil {
		return err
	}

	old := o.Status
	o.Status = docflow.StatusCancelled
	o.StampCancelled(actor, reason)
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, old, o.Status))

	return nil
}

// CanDelete reports whether the order may be deleted in its current status
func (o *PurchaseOrder) CanDelete() error {
	return docflow.CanDelete(docflow.DocTypePurchaseOrder, o.Status)
}

// IsTerminal returns true once the order is read-only
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// LineCount returns the number of lines on the order
func (o *PurchaseOrder) LineCount() int {
	return len(o.Lines)
}

// recalculateTotals recomputes every line total and the grand total from
// scratch over the full line list
func (o *PurchaseOrder) recalculateTotals() {
	lines := make([]docflow.Line, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = docflow.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	lineTotals, grandTotal := docflow.Recalculate(lines)
	for i := range o.Lines {
		o.Lines[i].LineTotal = lineTotals[i]
	}
	o.GrandTotal = grandTotal
}
