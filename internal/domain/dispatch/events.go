package dispatch

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDispatchLog = "DispatchLog"

// Event type constants
const (
	EventTypeDispatchCreated   = "DispatchCreated"
	EventTypeEvidenceAttached  = "EvidenceAttached"
	EventTypeEvidenceCompleted = "EvidenceCompleted"
)

// DispatchCreatedEvent is published when a dispatch is created
type DispatchCreatedEvent struct {
	shared.BaseDomainEvent
	DispatchID uuid.UUID `json:"dispatch_id"`
	Number     string    `json:"number"`
	SiteID     uuid.UUID `json:"site_id"`
	EventName  string    `json:"event_name,omitempty"`
	PeopleFed  int       `json:"people_fed"`
}

// NewDispatchCreatedEvent creates a new DispatchCreatedEvent
func NewDispatchCreatedEvent(log *DispatchLog) *DispatchCreatedEvent {
	return &DispatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDispatchCreated, AggregateTypeDispatchLog, log.ID),
		DispatchID:      log.ID,
		Number:          log.Number,
		SiteID:          log.SiteID,
		EventName:       log.EventName,
		PeopleFed:       log.PeopleFed,
	}
}

// EvidenceAttachedEvent is published when a proof file is uploaded
type EvidenceAttachedEvent struct {
	shared.BaseDomainEvent
	DispatchID uuid.UUID      `json:"dispatch_id"`
	Number     string         `json:"number"`
	EvidenceID uuid.UUID      `json:"evidence_id"`
	FileName   string         `json:"file_name"`
	Status     EvidenceStatus `json:"status"`
}

// NewEvidenceAttachedEvent creates a new EvidenceAttachedEvent
func NewEvidenceAttachedEvent(log *DispatchLog, evidence *DispatchEvidence) *EvidenceAttachedEvent {
	return &EvidenceAttachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvidenceAttached, AggregateTypeDispatchLog, log.ID),
		DispatchID:      log.ID,
		Number:          log.Number,
		EvidenceID:      evidence.ID,
		FileName:        evidence.FileName,
		Status:          log.EvidenceStatus,
	}
}

// EvidenceCompletedEvent is published when a dispatch's evidence is
// confirmed complete and the record locks
type EvidenceCompletedEvent struct {
	shared.BaseDomainEvent
	DispatchID    uuid.UUID       `json:"dispatch_id"`
	Number        string          `json:"number"`
	ConfirmedBy   uuid.UUID       `json:"confirmed_by"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	CostPerPerson decimal.Decimal `json:"cost_per_person"`
}

// NewEvidenceCompletedEvent creates a new EvidenceCompletedEvent
func NewEvidenceCompletedEvent(log *DispatchLog, confirmedBy uuid.UUID) *EvidenceCompletedEvent {
	return &EvidenceCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvidenceCompleted, AggregateTypeDispatchLog, log.ID),
		DispatchID:      log.ID,
		Number:          log.Number,
		ConfirmedBy:     confirmedBy,
		GrandTotal:      log.GrandTotal,
		CostPerPerson:   log.CostPerPerson,
	}
}
