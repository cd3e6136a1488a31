package event

import (
	"context"
	"fmt"

	"github.com/caterflow/backend/internal/domain/shared"
	"github.com/caterflow/backend/internal/infrastructure/audit"
)

// AuditHandler forwards every domain event to the audit sink, giving a
// queryable trail of document lifecycle changes. Subscribe it without
// event types so it receives all events.
type AuditHandler struct {
	sink audit.Sink
}

// NewAuditHandler creates an AuditHandler writing to the given sink
func NewAuditHandler(sink audit.Sink) *AuditHandler {
	return &AuditHandler{sink: sink}
}

// describable is implemented by events that carry their own human
// readable summary.
type describable interface {
	Description() string
}

// Handle records the event as an audit entry. The acting user is taken
// from the context attached by the authentication middleware.
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	aggregateID := event.AggregateID()

	description := fmt.Sprintf("%s on %s %s", event.EventType(), event.AggregateType(), aggregateID)
	if d, ok := event.(describable); ok {
		description = d.Description()
	}

	h.sink.Record(ctx, audit.Entry{
		Action:       event.EventType(),
		Description:  description,
		DocumentType: event.AggregateType(),
		DocumentID:   &aggregateID,
		ActorID:      audit.ActorFromContext(ctx),
		Success:      true,
		CreatedAt:    event.OccurredAt(),
	})
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Ensure AuditHandler implements EventHandler
var _ shared.EventHandler = (*AuditHandler)(nil)
