package dispatch

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// EvidenceStatus tracks whether proof of delivery has been attached to a
// dispatch. Dispatches have no draft or approval chain; the evidence
// status is the only guard on them. A dispatch with complete evidence is
// read-only.
type EvidenceStatus string

const (
	EvidenceStatusPending  EvidenceStatus = "pending"
	EvidenceStatusPartial  EvidenceStatus = "partial"
	EvidenceStatusComplete EvidenceStatus = "complete"
)

// DispatchLine is one item sent out on a dispatch. Name and price are
// snapshots taken at dispatch time.
type DispatchLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DispatchID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName    string          `gorm:"type:varchar(200);not null"`
	BinID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DispatchLine) TableName() string {
	return "dispatch_lines"
}

// DispatchEvidence is one uploaded proof-of-delivery file. The object
// itself lives in blob storage; only the key and metadata are stored here.
type DispatchEvidence struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	DispatchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	FileKey     string     `gorm:"type:varchar(500);not null"`
	FileName    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100)"`
	SizeBytes   int64      `gorm:"not null;default:0"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid"`
	UploadedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DispatchEvidence) TableName() string {
	return "dispatch_evidence"
}

// DispatchLog records food leaving a site for an event. There is no
// approval step; stock is deducted when the evidence is completed and
// the record locks.
type DispatchLog struct {
	shared.AuthoredAggregateRoot
	Number         string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	SiteID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	DispatchDate   time.Time          `gorm:"not null;index"`
	EventName      string             `gorm:"type:varchar(200)"`
	PeopleFed      int                `gorm:"not null;default:0"`
	Lines          []DispatchLine     `gorm:"foreignKey:DispatchID;references:ID"`
	Evidence       []DispatchEvidence `gorm:"foreignKey:DispatchID;references:ID"`
	GrandTotal     decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerPerson  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	EvidenceStatus EvidenceStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes          string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DispatchLog) TableName() string {
	return "dispatch_logs"
}

// NewDispatchLog creates a dispatch for a site and date
func NewDispatchLog(number string, siteID uuid.UUID, dispatchDate time.Time, eventName string, peopleFed int, createdBy uuid.UUID) (*DispatchLog, error) {
	if number == "" {
		return nil, shared.NewValidationError("dispatch is missing required fields", "number")
	}
	if siteID == uuid.Nil {
		return nil, shared.NewValidationError("dispatch is missing required fields", "site_id")
	}
	if peopleFed < 0 {
		return nil, shared.NewValidationError("People fed cannot be negative")
	}
	if dispatchDate.IsZero() {
		dispatchDate = time.Now()
	}

	log := &DispatchLog{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		SiteID:                siteID,
		DispatchDate:          dispatchDate,
		EventName:             eventName,
		PeopleFed:             peopleFed,
		Lines:                 make([]DispatchLine, 0),
		Evidence:              make([]DispatchEvidence, 0),
		GrandTotal:            decimal.Zero,
		CostPerPerson:         decimal.Zero,
		EvidenceStatus:        EvidenceStatusPending,
	}

	log.AddDomainEvent(NewDispatchCreatedEvent(log))

	return log, nil
}

// canEdit returns an error when the dispatch can no longer be modified
func (d *DispatchLog) canEdit() error {
	if d.EvidenceStatus == EvidenceStatusComplete {
		return shared.NewDomainError("PRECONDITION_FAILED", "Dispatch with complete evidence cannot be modified")
	}
	return nil
}

// AddLine adds an item to the dispatch and recalculates the totals
func (d *DispatchLog) AddLine(stockItemID uuid.UUID, itemName string, binID uuid.UUID, quantity, unitPrice decimal.Decimal) (*DispatchLine, error) {
	if err := d.canEdit(); err != nil {
		return nil, err
	}
	if stockItemID == uuid.Nil {
		return nil, shared.NewValidationError("dispatch line is missing required fields", "stock_item_id")
	}
	if binID == uuid.Nil {
		return nil, shared.NewValidationError("dispatch line is missing required fields", "bin_id")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	now := time.Now()
	line := &DispatchLine{
		ID:          uuid.New(),
		DispatchID:  d.ID,
		StockItemID: stockItemID,
		ItemName:    itemName,
		BinID:       binID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	d.Lines = append(d.Lines, *line)
	d.recalculate()
	d.Touch()
	d.IncrementVersion()

	return line, nil
}

// RemoveLine removes a line and recalculates the totals
func (d *DispatchLog) RemoveLine(lineID uuid.UUID) error {
	if err := d.canEdit(); err != nil {
		return err
	}

	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			d.recalculate()
			d.Touch()
			d.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Dispatch line not found")
}

// SetPeopleFed updates the headcount and the derived cost per person
func (d *DispatchLog) SetPeopleFed(peopleFed int) error {
	if err := d.canEdit(); err != nil {
		return err
	}
	if peopleFed < 0 {
		return shared.NewValidationError("People fed cannot be negative")
	}

	d.PeopleFed = peopleFed
	d.recalculate()
	d.Touch()
	d.IncrementVersion()

	return nil
}

// SetEventName updates the event the dispatch was for
func (d *DispatchLog) SetEventName(eventName string) error {
	if err := d.canEdit(); err != nil {
		return err
	}
	d.EventName = eventName
	d.Touch()
	d.IncrementVersion()
	return nil
}

// SetNotes sets free-form notes while the dispatch is editable
func (d *DispatchLog) SetNotes(notes string) error {
	if err := d.canEdit(); err != nil {
		return err
	}
	d.Notes = notes
	d.Touch()
	d.IncrementVersion()
	return nil
}

// AttachEvidence records an uploaded proof-of-delivery file. The first
// attachment moves the evidence status from pending to partial.
func (d *DispatchLog) AttachEvidence(fileKey, fileName, contentType string, sizeBytes int64, uploadedBy uuid.UUID) (*DispatchEvidence, error) {
	if d.EvidenceStatus == EvidenceStatusComplete {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "Evidence is already complete")
	}
	if fileKey == "" || fileName == "" {
		return nil, shared.NewValidationError("evidence is missing required fields", "file_key", "file_name")
	}

	evidence := &DispatchEvidence{
		ID:          uuid.New(),
		DispatchID:  d.ID,
		FileKey:     fileKey,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		UploadedAt:  time.Now(),
	}
	if uploadedBy != uuid.Nil {
		evidence.UploadedBy = &uploadedBy
	}

	d.Evidence = append(d.Evidence, *evidence)
	if d.EvidenceStatus == EvidenceStatusPending {
		d.EvidenceStatus = EvidenceStatusPartial
	}
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewEvidenceAttachedEvent(d, evidence))

	return evidence, nil
}

// CompleteEvidence confirms the attached files fully document the
// dispatch and locks the record
func (d *DispatchLog) CompleteEvidence(actor uuid.UUID) error {
	if d.EvidenceStatus == EvidenceStatusComplete {
		return shared.NewDomainError("PRECONDITION_FAILED", "Evidence is already complete")
	}
	if len(d.Evidence) == 0 {
		return shared.NewValidationError("Cannot complete evidence without at least one file")
	}

	d.EvidenceStatus = EvidenceStatusComplete
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewEvidenceCompletedEvent(d, actor))

	return nil
}

// IsLocked returns true once evidence is complete and the dispatch is
// read-only
func (d *DispatchLog) IsLocked() bool {
	return d.EvidenceStatus == EvidenceStatusComplete
}

// recalculate recomputes line totals, the grand total, and the cost per
// person from scratch
func (d *DispatchLog) recalculate() {
	lines := make([]docflow.Line, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = docflow.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	lineTotals, grandTotal := docflow.Recalculate(lines)
	for i := range d.Lines {
		d.Lines[i].LineTotal = lineTotals[i]
	}
	d.GrandTotal = grandTotal
	d.CostPerPerson = docflow.CostPerPerson(grandTotal, d.PeopleFed)
}
