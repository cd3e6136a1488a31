package partner

import (
	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSite = "Site"

// Event type constants
const (
	EventTypeSiteCreated       = "SiteCreated"
	EventTypeSiteUpdated       = "SiteUpdated"
	EventTypeSiteStatusChanged = "SiteStatusChanged"
	EventTypeSiteDeleted       = "SiteDeleted"
)

// SiteCreatedEvent is published when a new site is created
type SiteCreatedEvent struct {
	shared.BaseDomainEvent
	SiteID uuid.UUID `json:"site_id"`
	Name   string    `json:"name"`
	Type   SiteType  `json:"type"`
}

// NewSiteCreatedEvent creates a new SiteCreatedEvent
func NewSiteCreatedEvent(site *Site) *SiteCreatedEvent {
	return &SiteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteCreated, AggregateTypeSite, site.ID),
		SiteID:          site.ID,
		Name:            site.Name,
		Type:            site.Type,
	}
}

// SiteUpdatedEvent is published when a site is updated
type SiteUpdatedEvent struct {
	shared.BaseDomainEvent
	SiteID uuid.UUID `json:"site_id"`
	Name   string    `json:"name"`
	Type   SiteType  `json:"type"`
}

// NewSiteUpdatedEvent creates a new SiteUpdatedEvent
func NewSiteUpdatedEvent(site *Site) *SiteUpdatedEvent {
	return &SiteUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteUpdated, AggregateTypeSite, site.ID),
		SiteID:          site.ID,
		Name:            site.Name,
		Type:            site.Type,
	}
}

// SiteStatusChangedEvent is published when a site is activated or deactivated
type SiteStatusChangedEvent struct {
	shared.BaseDomainEvent
	SiteID uuid.UUID `json:"site_id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// NewSiteStatusChangedEvent creates a new SiteStatusChangedEvent
func NewSiteStatusChangedEvent(site *Site, active bool) *SiteStatusChangedEvent {
	return &SiteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteStatusChanged, AggregateTypeSite, site.ID),
		SiteID:          site.ID,
		Name:            site.Name,
		Active:          active,
	}
}

// SiteDeletedEvent is published when a site is deleted
type SiteDeletedEvent struct {
	shared.BaseDomainEvent
	SiteID uuid.UUID `json:"site_id"`
	Name   string    `json:"name"`
}

// NewSiteDeletedEvent creates a new SiteDeletedEvent
func NewSiteDeletedEvent(site *Site) *SiteDeletedEvent {
	return &SiteDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteDeleted, AggregateTypeSite, site.ID),
		SiteID:          site.ID,
		Name:            site.Name,
	}
}
