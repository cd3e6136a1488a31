package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// AdjustmentReason classifies why stock is being corrected
type AdjustmentReason string

const (
	AdjustmentReasonWastage    AdjustmentReason = "wastage"
	AdjustmentReasonDamage     AdjustmentReason = "damage"
	AdjustmentReasonExpiry     AdjustmentReason = "expiry"
	AdjustmentReasonTheft      AdjustmentReason = "theft"
	AdjustmentReasonCorrection AdjustmentReason = "correction"
)

func validAdjustmentReason(r AdjustmentReason) bool {
	switch r {
	case AdjustmentReasonWastage, AdjustmentReasonDamage, AdjustmentReasonExpiry,
		AdjustmentReasonTheft, AdjustmentReasonCorrection:
		return true
	}
	return false
}

// AdjustmentLine corrects the quantity of one item in one bin. The delta
// may be negative (write-off) or positive (found stock).
type AdjustmentLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	AdjustmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID   uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	BinID         uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityDelta decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note          string          `gorm:"type:varchar(500)"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdjustmentLine) TableName() string {
	return "stock_adjustment_lines"
}

// NewAdjustmentLine creates a new adjustment line
func NewAdjustmentLine(adjustmentID, stockItemID uuid.UUID, itemName string, binID uuid.UUID, delta decimal.Decimal, note string) (*AdjustmentLine, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewValidationError("adjustment line is missing required fields", "stock_item_id")
	}
	if binID == uuid.Nil {
		return nil, shared.NewValidationError("adjustment line is missing required fields", "bin_id")
	}
	if delta.IsZero() {
		return nil, shared.NewValidationError("Adjustment delta cannot be zero")
	}

	now := time.Now()
	return &AdjustmentLine{
		ID:            uuid.New(),
		AdjustmentID:  adjustmentID,
		StockItemID:   stockItemID,
		ItemName:      itemName,
		BinID:         binID,
		QuantityDelta: delta,
		Note:          note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// StockAdjustment corrects recorded stock levels outside the normal
// purchase and dispatch flows. It follows the standard document chain;
// the bin quantities change only when the document completes.
type StockAdjustment struct {
	shared.AuthoredAggregateRoot
	docflow.WorkflowStamps
	Number string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	SiteID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Reason AdjustmentReason `gorm:"type:varchar(20);not null"`
	Status docflow.Status   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes  string           `gorm:"type:text"`
	Lines  []AdjustmentLine `gorm:"foreignKey:AdjustmentID;references:ID"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment creates a draft adjustment document
func NewStockAdjustment(number string, siteID uuid.UUID, reason AdjustmentReason, createdBy uuid.UUID) (*StockAdjustment, error) {
	if number == "" {
		return nil, shared.NewValidationError("adjustment is missing required fields", "number")
	}
	if siteID == uuid.Nil {
		return nil, shared.NewValidationError("adjustment is missing required fields", "site_id")
	}
	if !validAdjustmentReason(reason) {
		return nil, shared.NewValidationError("Invalid adjustment reason")
	}

	adjustment := &StockAdjustment{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		SiteID:                siteID,
		Reason:                reason,
		Status:                docflow.StatusDraft,
		Lines:                 make([]AdjustmentLine, 0),
	}

	adjustment.AddDomainEvent(NewAdjustmentCreatedEvent(adjustment))

	return adjustment, nil
}

// AddLine adds a quantity correction to the adjustment
func (a *StockAdjustment) AddLine(stockItemID uuid.UUID, itemName string, binID uuid.UUID, delta decimal.Decimal, note string) (*AdjustmentLine, error) {
	if err := docflow.CanEdit(docflow.DocTypeStockAdjustment, a.Status); err != nil {
		return nil, err
	}

	line, err := NewAdjustmentLine(a.ID, stockItemID, itemName, binID, delta, note)
	if err != nil {
		return nil, err
	}

	a.Lines = append(a.Lines, *line)
	a.Touch()
	a.IncrementVersion()

	return line, nil
}

// RemoveLine removes a line from the adjustment
func (a *StockAdjustment) RemoveLine(lineID uuid.UUID) error {
	if err := docflow.CanEdit(docflow.DocTypeStockAdjustment, a.Status); err != nil {
		return err
	}

	for i := range a.Lines {
		if a.Lines[i].ID == lineID {
			a.Lines = append(a.Lines[:i], a.Lines[i+1:]...)
			a.Touch()
			a.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Adjustment line not found")
}

// SetNotes sets free-form notes while the document is editable
func (a *StockAdjustment) SetNotes(notes string) error {
	if err := docflow.CanEdit(docflow.DocTypeStockAdjustment, a.Status); err != nil {
		return err
	}
	a.Notes = notes
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Submit moves the adjustment to pending approval
func (a *StockAdjustment) Submit(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeStockAdjustment, a.Status, docflow.StatusPendingApproval); err != nil {
		return err
	}
	if len(a.Lines) == 0 {
		return shared.NewValidationError("Cannot submit an adjustment without lines")
	}

	old := a.Status
	a.Status = docflow.StatusPendingApproval
	a.StampSubmitted(actor)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentStatusChangedEvent(a, old, a.Status))

	return nil
}

// Approve accepts the adjustment for execution
func (a *StockAdjustment) Approve(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeStockAdjustment, a.Status, docflow.StatusApproved); err != nil {
		return err
	}

	old := a.Status
	a.Status = docflow.StatusApproved
	a.StampApproved(actor)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentStatusChangedEvent(a, old, a.Status))

	return nil
}

// Reject declines the adjustment with a reason
func (a *StockAdjustment) Reject(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypeStockAdjustment, a.Status, docflow.StatusRejected); err != nil {
		return err
	}

	old := a.Status
	a.Status = docflow.StatusRejected
	a.StampRejected(actor, reason)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentStatusChangedEvent(a, old, a.Status))

	return nil
}

// Complete finalizes the approved adjustment. Bin quantities are applied
// by the application service in the same transaction.
func (a *StockAdjustment) Complete(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeStockAdjustment, a.Status, docflow.StatusCompleted); err != nil {
		return err
	}

	old := a.Status
	a.Status = docflow.StatusCompleted
	a.StampCompleted(actor)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentCompletedEvent(a))
	a.AddDomainEvent(NewAdjustmentStatusChangedEvent(a, old, a.Status))

	return nil
}

// Cancel abandons the adjustment before it is approved
func (a *StockAdjustment) Cancel(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypeStockAdjustment, a.Status, docflow.StatusCancelled); err != nil {
		return err
	}

	old := a.Status
	a.Status = docflow.StatusCancelled
	a.StampCancelled(actor, reason)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentStatusChangedEvent(a, old, a.Status))

	return nil
}

// CanDelete reports whether the document may be deleted in its current status
func (a *StockAdjustment) CanDelete() error {
	return docflow.CanDelete(docflow.DocTypeStockAdjustment, a.Status)
}

// IsTerminal returns true once the adjustment is read-only
func (a *StockAdjustment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// NetDelta returns the sum of all line deltas
func (a *StockAdjustment) NetDelta() decimal.Decimal {
	total := decimal.Zero
	for _, line := range a.Lines {
		total = total.Add(line.QuantityDelta)
	}
	return total
}
