package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// TransferLine is one item movement inside an internal transfer
type TransferLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName    string          `gorm:"type:varchar(200);not null"`
	FromBinID   uuid.UUID       `gorm:"type:uuid;not null"`
	ToBinID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "internal_transfer_lines"
}

// NewTransferLine creates a new transfer line
func NewTransferLine(transferID, stockItemID uuid.UUID, itemName string, fromBinID, toBinID uuid.UUID, quantity decimal.Decimal) (*TransferLine, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewValidationError("transfer line is missing required fields", "stock_item_id")
	}
	if fromBinID == uuid.Nil || toBinID == uuid.Nil {
		return nil, shared.NewValidationError("transfer line is missing required fields", "from_bin_id", "to_bin_id")
	}
	if fromBinID == toBinID {
		return nil, shared.NewValidationError("Source and destination bins must differ")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}

	now := time.Now()
	return &TransferLine{
		ID:          uuid.New(),
		TransferID:  transferID,
		StockItemID: stockItemID,
		ItemName:    itemName,
		FromBinID:   fromBinID,
		ToBinID:     toBinID,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// InternalTransfer moves stock between bins, possibly across sites. It is
// a numbered workflow document: stock only moves when the approved
// document is completed.
type InternalTransfer struct {
	shared.AuthoredAggregateRoot
	docflow.WorkflowStamps
	Number     string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	FromSiteID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToSiteID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status     docflow.Status `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes      string         `gorm:"type:text"`
	Lines      []TransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (InternalTransfer) TableName() string {
	return "internal_transfers"
}

// NewInternalTransfer creates a draft transfer document
func NewInternalTransfer(number string, fromSiteID, toSiteID, createdBy uuid.UUID) (*InternalTransfer, error) {
	if number == "" {
		return nil, shared.NewValidationError("transfer is missing required fields", "number")
	}
	if fromSiteID == uuid.Nil || toSiteID == uuid.Nil {
		return nil, shared.NewValidationError("transfer is missing required fields", "from_site_id", "to_site_id")
	}

	transfer := &InternalTransfer{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		FromSiteID:            fromSiteID,
		ToSiteID:              toSiteID,
		Status:                docflow.StatusDraft,
		Lines:                 make([]TransferLine, 0),
	}

	transfer.AddDomainEvent(NewTransferCreatedEvent(transfer))

	return transfer, nil
}

// AddLine adds an item movement to the transfer
func (t *InternalTransfer) AddLine(stockItemID uuid.UUID, itemName string, fromBinID, toBinID uuid.UUID, quantity decimal.Decimal) (*TransferLine, error) {
	if err := docflow.CanEdit(docflow.DocTypeInternalTransfer, t.Status); err != nil {
		return nil, err
	}

	line, err := NewTransferLine(t.ID, stockItemID, itemName, fromBinID, toBinID, quantity)
	if err != nil {
		return nil, err
	}

	t.Lines = append(t.Lines, *line)
	t.Touch()
	t.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity changes the quantity of an existing line
func (t *InternalTransfer) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if err := docflow.CanEdit(docflow.DocTypeInternalTransfer, t.Status); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}

	for i := range t.Lines {
		if t.Lines[i].ID == lineID {
			t.Lines[i].Quantity = quantity
			t.Lines[i].UpdatedAt = time.Now()
			t.Touch()
			t.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Transfer line not found")
}

// RemoveLine removes a line from the transfer
func (t *InternalTransfer) RemoveLine(lineID uuid.UUID) error {
	if err := docflow.CanEdit(docflow.DocTypeInternalTransfer, t.Status); err != nil {
		return err
	}

	for i := range t.Lines {
		if t.Lines[i].ID == lineID {
			t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
			t.Touch()
			t.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Transfer line not found")
}

// SetNotes sets free-form notes. Allowed while the document is editable.
func (t *InternalTransfer) SetNotes(notes string) error {
	if err := docflow.CanEdit(docflow.DocTypeInternalTransfer, t.Status); err != nil {
		return err
	}
	t.Notes = notes
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Submit moves the transfer to pending approval
func (t *InternalTransfer) Submit(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeInternalTransfer, t.Status, docflow.StatusPendingApproval); err != nil {
		return err
	}
	if len(t.Lines) == 0 {
		return shared.NewValidationError("Cannot submit a transfer without lines")
	}

	t.Status = docflow.StatusPendingApproval
	t.StampSubmitted(actor)
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferStatusChangedEvent(t, docflow.StatusDraft, t.Status))

	return nil
}

// Approve accepts the transfer for execution
func (t *InternalTransfer) Approve(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeInternalTransfer, t.Status, docflow.StatusApproved); err != nil {
		return err
	}

	old := t.Status
	t.Status = docflow.StatusApproved
	t.StampApproved(actor)
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferStatusChangedEvent(t, old, t.Status))

	return nil
}

// Reject declines the transfer with a reason
func (t *InternalTransfer) Reject(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypeInternalTransfer, t.Status, docflow.StatusRejected); err != nil {
		return err
	}

	old := t.Status
	t.Status = docflow.StatusRejected
	t.StampRejected(actor, reason)
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferStatusChangedEvent(t, old, t.Status))

	return nil
}

// Complete finalizes the approved transfer. The stock movement itself is
// applied by the application service in the same transaction.
func (t *InternalTransfer) Complete(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeInternalTransfer, t.Status, docflow.StatusCompleted); err != nil {
		return err
	}

	old := t.Status
	t.Status = docflow.StatusCompleted
	t.StampCompleted(actor)
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t))
	t.AddDomainEvent(NewTransferStatusChangedEvent(t, old, t.Status))

	return nil
}

// Cancel abandons the transfer before it is approved
func (t *InternalTransfer) Cancel(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypeInternalTransfer, t.Status, docflow.StatusCancelled); err != nil {
		return err
	}

	old := t.Status
	t.Status = docflow.StatusCancelled
	t.StampCancelled(actor, reason)
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferStatusChangedEvent(t, old, t.Status))

	return nil
}

// CanDelete reports whether the document may be deleted in its current status
func (t *InternalTransfer) CanDelete() error {
	return docflow.CanDelete(docflow.DocTypeInternalTransfer, t.Status)
}

// IsTerminal returns true once the transfer is read-only
func (t *InternalTransfer) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// TotalQuantity returns the sum of all line quantities
func (t *InternalTransfer) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}
