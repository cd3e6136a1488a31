package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// SiteService handles site master data operations
type SiteService struct {
	siteRepo partner.SiteRepository
	binRepo  inventory.BinRepository
}

// NewSiteService creates a new SiteService
func NewSiteService(siteRepo partner.SiteRepository, binRepo inventory.BinRepository) *SiteService {
	return &SiteService{
		siteRepo: siteRepo,
		binRepo:  binRepo,
	}
}

// Create creates a new active site
func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest) (*SiteResponse, error) {
	exists, err := s.siteRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A site with this name already exists")
	}

	site, err := partner.NewSite(req.Name, partner.SiteType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.Manager != "" || req.Phone != "" {
		if err := site.SetContact(req.Manager, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := site.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		site.SetNotes(req.Notes)
	}

	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}

	return ToSiteResponse(site), nil
}

// GetByID returns a single site
func (s *SiteService) GetByID(ctx context.Context, id uuid.UUID) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSiteResponse(site), nil
}

// List returns sites matching the filter, paginated
func (s *SiteService) List(ctx context.Context, filter SiteListFilter) (*shared.Paginated[*SiteResponse], error) {
	siteFilter := partner.SiteFilter{
		Filter: buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Search: filter.Search,
		Active: filter.Active,
	}
	if filter.Type != "" {
		siteType := partner.SiteType(filter.Type)
		siteFilter.Type = &siteType
	}

	page, err := s.siteRepo.FindAll(ctx, siteFilter)
	if err != nil {
		return nil, err
	}
	return ToSiteResponses(page), nil
}

// Update applies a partial update to a site
func (s *SiteService) Update(ctx context.Context, id uuid.UUID, req UpdateSiteRequest) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Type != nil {
		name := site.Name
		siteType := site.Type
		if req.Name != nil {
			name = *req.Name
		}
		if req.Type != nil {
			siteType = partner.SiteType(*req.Type)
		}
		if name != site.Name {
			exists, err := s.siteRepo.ExistsByName(ctx, name, &id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "A site with this name already exists")
			}
		}
		if err := site.Update(name, siteType); err != nil {
			return nil, err
		}
	}

	if req.Manager != nil || req.Phone != nil {
		manager := site.Manager
		phone := site.Phone
		if req.Manager != nil {
			manager = *req.Manager
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := site.SetContact(manager, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil {
		if err := site.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		site.SetNotes(*req.Notes)
	}

	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}

	return ToSiteResponse(site), nil
}

// Activate re-enables a site
func (s *SiteService) Activate(ctx context.Context, id uuid.UUID) (*SiteResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate disables a site
func (s *SiteService) Deactivate(ctx context.Context, id uuid.UUID) (*SiteResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *SiteService) setActive(ctx context.Context, id uuid.UUID, active bool) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = site.Activate()
	} else {
		err = site.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}

	return ToSiteResponse(site), nil
}

// Delete soft-deletes a site. A site that still has bins cannot be
// deleted; remove or move the bins first.
func (s *SiteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.siteRepo.FindByID(ctx, id); err != nil {
		return err
	}

	bins, err := s.binRepo.FindBySite(ctx, id)
	if err != nil {
		return err
	}
	if len(bins) > 0 {
		return shared.NewDomainError("PRECONDITION_FAILED", "Site still has storage bins and cannot be deleted")
	}

	return s.siteRepo.Delete(ctx, id)
}
