package partner

import (
	"strings"

	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/shared"
)

// Supplier is the aggregate root for vendors that stock items can be
// purchased from. A supplier must exist and be active before a purchase
// order can reference it.
type Supplier struct {
	shared.BaseAggregateRoot
	Name          string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_suppliers_name,where:deleted_at IS NULL"`
	ContactPerson string         `gorm:"type:varchar(100)"`
	Email         string         `gorm:"type:varchar(200);index"`
	Phone         string         `gorm:"type:varchar(50)"`
	Address       string         `gorm:"type:text"`
	Notes         string         `gorm:"type:text"`
	Active        bool           `gorm:"not null;default:true"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name, contactPerson, email, phone string) (*Supplier, error) {
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		ContactPerson:     contactPerson,
		Email:             email,
		Phone:             phone,
		Active:            true,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Rename changes the supplier's display name
func (s *Supplier) Rename(name string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// UpdateContact updates the supplier's contact information
func (s *Supplier) UpdateContact(contactPerson, email, phone, address string) error {
	if contactPerson != "" && len(contactPerson) > 100 {
		return shared.NewValidationError("Contact person cannot exceed 100 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if len(address) > 500 {
		return shared.NewValidationError("Address cannot exceed 500 characters")
	}

	s.ContactPerson = contactPerson
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// SetNotes sets free-form notes about the supplier
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.Touch()
	s.IncrementVersion()
}

// Activate re-enables the supplier for new purchase orders
func (s *Supplier) Activate() error {
	if s.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}

	s.Active = true
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, true))

	return nil
}

// Deactivate disables the supplier. Existing documents keep their
// reference; new purchase orders cannot target an inactive supplier.
func (s *Supplier) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}

	s.Active = false
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, false))

	return nil
}

// IsActive returns true if the supplier can receive new purchase orders
func (s *Supplier) IsActive() bool {
	return s.Active
}

func validateSupplierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Supplier name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewValidationError("Phone cannot exceed 50 characters")
	}
	for _, r := range phone {
		if !((r >= '0' && r <= '9') || r == '+' || r == '-' || r == ' ' || r == '(' || r == ')') {
			return shared.NewValidationError("Phone contains invalid characters")
		}
	}
	return nil
}
