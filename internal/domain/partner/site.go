package partner

import (
	"strings"

	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/shared"
)

// SiteType classifies what kind of location a site is
type SiteType string

const (
	SiteTypeKitchen   SiteType = "kitchen"   // Production kitchen
	SiteTypeWarehouse SiteType = "warehouse" // Central storage
	SiteTypeVenue     SiteType = "venue"     // Event or serving location
)

// Site is a physical location that holds storage bins and receives
// dispatches. Users can be restricted to a subset of sites; documents
// scoped to a site are only visible to users allowed on that site.
type Site struct {
	shared.BaseAggregateRoot
	Name      string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_sites_name,where:deleted_at IS NULL"`
	Type      SiteType       `gorm:"type:varchar(20);not null;default:'kitchen'"`
	Address   string         `gorm:"type:text"`
	Manager   string         `gorm:"type:varchar(100)"`
	Phone     string         `gorm:"type:varchar(50)"`
	Active    bool           `gorm:"not null;default:true"`
	Notes     string         `gorm:"type:text"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Site) TableName() string {
	return "sites"
}

// NewSite creates a new active site
func NewSite(name string, siteType SiteType) (*Site, error) {
	if err := validateSiteName(name); err != nil {
		return nil, err
	}
	if err := validateSiteType(siteType); err != nil {
		return nil, err
	}

	site := &Site{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Type:              siteType,
		Active:            true,
	}

	site.AddDomainEvent(NewSiteCreatedEvent(site))

	return site, nil
}

// Update changes the site's name and type
func (s *Site) Update(name string, siteType SiteType) error {
	if err := validateSiteName(name); err != nil {
		return err
	}
	if err := validateSiteType(siteType); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.Type = siteType
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSiteUpdatedEvent(s))

	return nil
}

// SetContact sets the site's manager and phone
func (s *Site) SetContact(manager, phone string) error {
	if manager != "" && len(manager) > 100 {
		return shared.NewValidationError("Manager name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	s.Manager = manager
	s.Phone = phone
	s.Touch()
	s.IncrementVersion()

	return nil
}

// SetAddress sets the site's address
func (s *Site) SetAddress(address string) error {
	if len(address) > 500 {
		return shared.NewValidationError("Address cannot exceed 500 characters")
	}

	s.Address = address
	s.Touch()
	s.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes about the site
func (s *Site) SetNotes(notes string) {
	s.Notes = notes
	s.Touch()
	s.IncrementVersion()
}

// Activate re-enables the site
func (s *Site) Activate() error {
	if s.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Site is already active")
	}

	s.Active = true
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSiteStatusChangedEvent(s, true))

	return nil
}

// Deactivate disables the site. Bins and stock records remain but no
// new documents can target an inactive site.
func (s *Site) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Site is already inactive")
	}

	s.Active = false
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSiteStatusChangedEvent(s, false))

	return nil
}

// IsActive returns true if the site can receive new documents
func (s *Site) IsActive() bool {
	return s.Active
}

func validateSiteName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Site name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Site name cannot exceed 200 characters")
	}
	return nil
}

func validateSiteType(t SiteType) error {
	switch t {
	case SiteTypeKitchen, SiteTypeWarehouse, SiteTypeVenue:
		return nil
	default:
		return shared.NewValidationError("Invalid site type")
	}
}
