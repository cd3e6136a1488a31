package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInternalTransfer = "InternalTransfer"
	AggregateTypeStockAdjustment  = "StockAdjustment"
	AggregateTypeBinCount         = "BinCount"
)

// Event type constants
const (
	EventTypeTransferCreated         = "TransferCreated"
	EventTypeTransferStatusChanged   = "TransferStatusChanged"
	EventTypeTransferCompleted       = "TransferCompleted"
	EventTypeAdjustmentCreated       = "AdjustmentCreated"
	EventTypeAdjustmentStatusChanged = "AdjustmentStatusChanged"
	EventTypeAdjustmentCompleted     = "AdjustmentCompleted"
	EventTypeCountCreated            = "CountCreated"
	EventTypeCountStatusChanged      = "CountStatusChanged"
	EventTypeCountCompleted          = "CountCompleted"
)

// TransferCreatedEvent is published when a transfer document is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID `json:"transfer_id"`
	Number     string    `json:"number"`
	FromSiteID uuid.UUID `json:"from_site_id"`
	ToSiteID   uuid.UUID `json:"to_site_id"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(transfer *InternalTransfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCreated, AggregateTypeInternalTransfer, transfer.ID),
		TransferID:      transfer.ID,
		Number:          transfer.Number,
		FromSiteID:      transfer.FromSiteID,
		ToSiteID:        transfer.ToSiteID,
	}
}

// TransferStatusChangedEvent is published on every transfer status move
type TransferStatusChangedEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID      `json:"transfer_id"`
	Number     string         `json:"number"`
	OldStatus  docflow.Status `json:"old_status"`
	NewStatus  docflow.Status `json:"new_status"`
}

// NewTransferStatusChangedEvent creates a new TransferStatusChangedEvent
func NewTransferStatusChangedEvent(transfer *InternalTransfer, oldStatus, newStatus docflow.Status) *TransferStatusChangedEvent {
	return &TransferStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferStatusChanged, AggregateTypeInternalTransfer, transfer.ID),
		TransferID:      transfer.ID,
		Number:          transfer.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TransferCompletedEvent is published when stock has moved between bins
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID    uuid.UUID       `json:"transfer_id"`
	Number        string          `json:"number"`
	FromSiteID    uuid.UUID       `json:"from_site_id"`
	ToSiteID      uuid.UUID       `json:"to_site_id"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(transfer *InternalTransfer) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeInternalTransfer, transfer.ID),
		TransferID:      transfer.ID,
		Number:          transfer.Number,
		FromSiteID:      transfer.FromSiteID,
		ToSiteID:        transfer.ToSiteID,
		TotalQuantity:   transfer.TotalQuantity(),
	}
}

// AdjustmentCreatedEvent is published when an adjustment document is created
type AdjustmentCreatedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID        `json:"adjustment_id"`
	Number       string           `json:"number"`
	SiteID       uuid.UUID        `json:"site_id"`
	Reason       AdjustmentReason `json:"reason"`
}

// NewAdjustmentCreatedEvent creates a new AdjustmentCreatedEvent
func NewAdjustmentCreatedEvent(adjustment *StockAdjustment) *AdjustmentCreatedEvent {
	return &AdjustmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentCreated, AggregateTypeStockAdjustment, adjustment.ID),
		AdjustmentID:    adjustment.ID,
		Number:          adjustment.Number,
		SiteID:          adjustment.SiteID,
		Reason:          adjustment.Reason,
	}
}

// AdjustmentStatusChangedEvent is published on every adjustment status move
type AdjustmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID      `json:"adjustment_id"`
	Number       string         `json:"number"`
	OldStatus    docflow.Status `json:"old_status"`
	NewStatus    docflow.Status `json:"new_status"`
}

// NewAdjustmentStatusChangedEvent creates a new AdjustmentStatusChangedEvent
func NewAdjustmentStatusChangedEvent(adjustment *StockAdjustment, oldStatus, newStatus docflow.Status) *AdjustmentStatusChangedEvent {
	return &AdjustmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentStatusChanged, AggregateTypeStockAdjustment, adjustment.ID),
		AdjustmentID:    adjustment.ID,
		Number:          adjustment.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// AdjustmentCompletedEvent is published when corrections have been applied
type AdjustmentCompletedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID        `json:"adjustment_id"`
	Number       string           `json:"number"`
	SiteID       uuid.UUID        `json:"site_id"`
	Reason       AdjustmentReason `json:"reason"`
	NetDelta     decimal.Decimal  `json:"net_delta"`
}

// NewAdjustmentCompletedEvent creates a new AdjustmentCompletedEvent
func NewAdjustmentCompletedEvent(adjustment *StockAdjustment) *AdjustmentCompletedEvent {
	return &AdjustmentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentCompleted, AggregateTypeStockAdjustment, adjustment.ID),
		AdjustmentID:    adjustment.ID,
		Number:          adjustment.Number,
		SiteID:          adjustment.SiteID,
		Reason:          adjustment.Reason,
		NetDelta:        adjustment.NetDelta(),
	}
}

// CountCreatedEvent is published when a bin count document is created
type CountCreatedEvent struct {
	shared.BaseDomainEvent
	CountID uuid.UUID `json:"count_id"`
	Number  string    `json:"number"`
	SiteID  uuid.UUID `json:"site_id"`
	BinID   uuid.UUID `json:"bin_id"`
}

// NewCountCreatedEvent creates a new CountCreatedEvent
func NewCountCreatedEvent(count *BinCount) *CountCreatedEvent {
	return &CountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCountCreated, AggregateTypeBinCount, count.ID),
		CountID:         count.ID,
		Number:          count.Number,
		SiteID:          count.SiteID,
		BinID:           count.BinID,
	}
}

// CountStatusChangedEvent is published on every count status move
type CountStatusChangedEvent struct {
	shared.BaseDomainEvent
	CountID   uuid.UUID      `json:"count_id"`
	Number    string         `json:"number"`
	OldStatus docflow.Status `json:"old_status"`
	NewStatus docflow.Status `json:"new_status"`
}

// NewCountStatusChangedEvent creates a new CountStatusChangedEvent
func NewCountStatusChangedEvent(count *BinCount, oldStatus, newStatus docflow.Status) *CountStatusChangedEvent {
	return &CountStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCountStatusChanged, AggregateTypeBinCount, count.ID),
		CountID:         count.ID,
		Number:          count.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// CountCompletedEvent is published when bin quantities have been reconciled
type CountCompletedEvent struct {
	shared.BaseDomainEvent
	CountID       uuid.UUID `json:"count_id"`
	Number        string    `json:"number"`
	SiteID        uuid.UUID `json:"site_id"`
	BinID         uuid.UUID `json:"bin_id"`
	VarianceLines int       `json:"variance_lines"`
}

// NewCountCompletedEvent creates a new CountCompletedEvent
func NewCountCompletedEvent(count *BinCount) *CountCompletedEvent {
	return &CountCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCountCompleted, AggregateTypeBinCount, count.ID),
		CountID:         count.ID,
		Number:          count.Number,
		SiteID:          count.SiteID,
		BinID:           count.BinID,
		VarianceLines:   len(count.VarianceLines()),
	}
}
