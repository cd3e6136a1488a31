package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// SupplierService handles supplier master data operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create creates a new active supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier with this name already exists")
	}

	supplier, err := partner.NewSupplier(req.Name, req.ContactPerson, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		if err := supplier.UpdateContact(req.ContactPerson, req.Email, req.Phone, req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	return ToSupplierResponse(supplier), nil
}

// GetByID returns a single supplier
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// List returns suppliers matching the filter, paginated
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) (*shared.Paginated[*SupplierResponse], error) {
	page, err := s.supplierRepo.FindAll(ctx, partner.SupplierFilter{
		Filter: buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Search: filter.Search,
		Active: filter.Active,
	})
	if err != nil {
		return nil, err
	}
	return ToSupplierResponses(page), nil
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != supplier.Name {
		exists, err := s.supplierRepo.ExistsByName(ctx, *req.Name, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier with this name already exists")
		}
		if err := supplier.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ContactPerson != nil || req.Email != nil || req.Phone != nil || req.Address != nil {
		contact := supplier.ContactPerson
		email := supplier.Email
		phone := supplier.Phone
		address := supplier.Address
		if req.ContactPerson != nil {
			contact = *req.ContactPerson
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := supplier.UpdateContact(contact, email, phone, address); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	return ToSupplierResponse(supplier), nil
}

// Activate re-enables a supplier for new purchase orders
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate disables a supplier
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *SupplierService) setActive(ctx context.Context, id uuid.UUID, active bool) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = supplier.Activate()
	} else {
		err = supplier.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	return ToSupplierResponse(supplier), nil
}

// Delete soft-deletes a supplier. Documents that reference the supplier
// keep their snapshot; the row itself stays recoverable.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.supplierRepo.Delete(ctx, id)
}

func buildFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = "created_at"
	}
	if orderDir == "" {
		orderDir = "desc"
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
	}
}
