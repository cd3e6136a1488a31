package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// CountLine records the counted quantity of one item against the system
// quantity captured when the line was added.
type CountLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	CountID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName        string          `gorm:"type:varchar(200);not null"`
	SystemQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CountedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note            string          `gorm:"type:varchar(500)"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CountLine) TableName() string {
	return "bin_count_lines"
}

// Variance returns counted minus system quantity
func (l *CountLine) Variance() decimal.Decimal {
	return l.CountedQuantity.Sub(l.SystemQuantity)
}

// HasVariance returns true if the physical count differs from the records
func (l *CountLine) HasVariance() bool {
	return !l.Variance().IsZero()
}

// BinCount is a physical stocktake of a single bin. On completion the
// bin's recorded quantities are set to the counted values.
type BinCount struct {
	shared.AuthoredAggregateRoot
	docflow.WorkflowStamps
	Number    string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	SiteID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	BinID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	CountDate time.Time      `gorm:"not null"`
	Status    docflow.Status `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes     string         `gorm:"type:text"`
	Lines     []CountLine    `gorm:"foreignKey:CountID;references:ID"`
}

// TableName returns the table name for GORM
func (BinCount) TableName() string {
	return "bin_counts"
}

// NewBinCount creates a draft count document for a bin
func NewBinCount(number string, siteID, binID uuid.UUID, countDate time.Time, createdBy uuid.UUID) (*BinCount, error) {
	if number == "" {
		return nil, shared.NewValidationError("bin count is missing required fields", "number")
	}
	if siteID == uuid.Nil || binID == uuid.Nil {
		return nil, shared.NewValidationError("bin count is missing required fields", "site_id", "bin_id")
	}
	if countDate.IsZero() {
		countDate = time.Now()
	}

	count := &BinCount{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		SiteID:                siteID,
		BinID:                 binID,
		CountDate:             countDate,
		Status:                docflow.StatusDraft,
		Lines:                 make([]CountLine, 0),
	}

	count.AddDomainEvent(NewCountCreatedEvent(count))

	return count, nil
}

// AddLine records a counted item. The system quantity is captured at the
// moment the line is added so the variance is stable under later stock
// movements.
func (c *BinCount) AddLine(stockItemID uuid.UUID, itemName string, systemQty, countedQty decimal.Decimal, note string) (*CountLine, error) {
	if err := docflow.CanEdit(docflow.DocTypeBinCount, c.Status); err != nil {
		return nil, err
	}
	if stockItemID == uuid.Nil {
		return nil, shared.NewValidationError("count line is missing required fields", "stock_item_id")
	}
	if countedQty.IsNegative() {
		return nil, shared.NewValidationError("Counted quantity cannot be negative")
	}
	for _, line := range c.Lines {
		if line.StockItemID == stockItemID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Item already counted, update the existing line")
		}
	}

	now := time.Now()
	line := &CountLine{
		ID:              uuid.New(),
		CountID:         c.ID,
		StockItemID:     stockItemID,
		ItemName:        itemName,
		SystemQuantity:  systemQty,
		CountedQuantity: countedQty,
		Note:            note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	c.Lines = append(c.Lines, *line)
	c.Touch()
	c.IncrementVersion()

	return line, nil
}

// UpdateLineCount changes the counted quantity of an existing line
func (c *BinCount) UpdateLineCount(lineID uuid.UUID, countedQty decimal.Decimal, note string) error {
	if err := docflow.CanEdit(docflow.DocTypeBinCount, c.Status); err != nil {
		return err
	}
	if countedQty.IsNegative() {
		return shared.NewValidationError("Counted quantity cannot be negative")
	}

	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].CountedQuantity = countedQty
			c.Lines[i].Note = note
			c.Lines[i].UpdatedAt = time.Now()
			c.Touch()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Count line not found")
}

// RemoveLine removes a line from the count
func (c *BinCount) RemoveLine(lineID uuid.UUID) error {
	if err := docflow.CanEdit(docflow.DocTypeBinCount, c.Status); err != nil {
		return err
	}

	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.Touch()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Count line not found")
}

// SetNotes sets free-form notes while the document is editable
func (c *BinCount) SetNotes(notes string) error {
	if err := docflow.CanEdit(docflow.DocTypeBinCount, c.Status); err != nil {
		return err
	}
	c.Notes = notes
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Submit moves the count to pending approval
func (c *BinCount) Submit(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeBinCount, c.Status, docflow.StatusPendingApproval); err != nil {
		return err
	}
	if len(c.Lines) == 0 {
		return shared.NewValidationError("Cannot submit a count without lines")
	}

	old := c.Status
	c.Status = docflow.StatusPendingApproval
	c.StampSubmitted(actor)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCountStatusChangedEvent(c, old, c.Status))

	return nil
}

// Approve accepts the count results
func (c *BinCount) Approve(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeBinCount, c.Status, docflow.StatusApproved); err != nil {
		return err
	}

	old := c.Status
	c.Status = docflow.StatusApproved
	c.StampApproved(actor)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCountStatusChangedEvent(c, old, c.Status))

	return nil
}

// Reject declines the count with a reason
func (c *BinCount) Reject(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypeBinCount, c.Status, docflow.StatusRejected); err != nil {
		return err
	}

	old := c.Status
	c.Status = docflow.StatusRejected
	c.StampRejected(actor, reason)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCountStatusChangedEvent(c, old, c.Status))

	return nil
}

// Complete finalizes the approved count. Bin quantities are reconciled by
// the application service in the same transaction.
func (c *BinCount) Complete(actor uuid.UUID) error {
	if err := docflow.CanTransition(docflow.DocTypeBinCount, c.Status, docflow.StatusCompleted); err != nil {
		return err
	}

	old := c.Status
	c.Status = docflow.StatusCompleted
	c.StampCompleted(actor)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCountCompletedEvent(c))
	c.AddDomainEvent(NewCountStatusChangedEvent(c, old, c.Status))

	return nil
}

// Cancel abandons the count before it is approved
func (c *BinCount) Cancel(actor uuid.UUID, reason string) error {
	if err := docflow.CanTransition(docflow.DocTypeBinCount, c.Status, docflow.StatusCancelled); err != nil {
		return err
	}

	old := c.Status
	c.Status = docflow.StatusCancelled
	c.StampCancelled(actor, reason)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCountStatusChangedEvent(c, old, c.Status))

	return nil
}

// CanDelete reports whether the document may be deleted in its current status
func (c *BinCount) CanDelete() error {
	return docflow.CanDelete(docflow.DocTypeBinCount, c.Status)
}

// IsTerminal returns true once the count is read-only
func (c *BinCount) IsTerminal() bool {
	return c.Status.IsTerminal()
}

// VarianceLines returns the lines whose counted quantity differs from the
// system quantity
func (c *BinCount) VarianceLines() []CountLine {
	lines := make([]CountLine, 0)
	for _, line := range c.Lines {
		if line.HasVariance() {
			lines = append(lines, line)
		}
	}
	return lines
}
