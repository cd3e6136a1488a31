package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// BinService handles storage bin management and stock level queries
type BinService struct {
	binRepo      inventory.BinRepository
	binStockRepo inventory.BinStockRepository
	siteRepo     partner.SiteRepository
}

// NewBinService creates a new BinService
func NewBinService(
	binRepo inventory.BinRepository,
	binStockRepo inventory.BinStockRepository,
	siteRepo partner.SiteRepository,
) *BinService {
	return &BinService{
		binRepo:      binRepo,
		binStockRepo: binStockRepo,
		siteRepo:     siteRepo,
	}
}

// Create creates a bin within a site. Bin names are unique per site.
func (s *BinService) Create(ctx context.Context, req CreateBinRequest) (*BinResponse, error) {
	if _, err := s.siteRepo.FindByID(ctx, req.SiteID); err != nil {
		return nil, err
	}

	exists, err := s.binRepo.ExistsByName(ctx, req.SiteID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a bin named "+req.Name+" already exists at the site")
	}

	bin, err := inventory.NewBin(req.SiteID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.binRepo.Save(ctx, bin); err != nil {
		return nil, err
	}

	response := ToBinResponse(bin)
	return &response, nil
}

// GetByID retrieves a bin by ID
func (s *BinService) GetByID(ctx context.Context, binID uuid.UUID) (*BinResponse, error) {
	bin, err := s.binRepo.FindByID(ctx, binID)
	if err != nil {
		return nil, err
	}
	response := ToBinResponse(bin)
	return &response, nil
}

// List retrieves bins with filtering and pagination
func (s *BinService) List(ctx context.Context, filter BinListFilter) (*shared.Paginated[BinResponse], error) {
	domainFilter := inventory.BinFilter{
		Filter: buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		SiteID: filter.SiteID,
		Active: filter.Active,
		Search: filter.Search,
	}

	page, err := s.binRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToBinResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update renames or re-describes a bin
func (s *BinService) Update(ctx context.Context, binID uuid.UUID, req UpdateBinRequest) (*BinResponse, error) {
	bin, err := s.binRepo.FindByID(ctx, binID)
	if err != nil {
		return nil, err
	}

	if req.Name != bin.Name {
		exists, err := s.binRepo.ExistsByName(ctx, bin.SiteID, req.Name, &binID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "a bin named "+req.Name+" already exists at the site")
		}
	}

	if err := bin.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.binRepo.Save(ctx, bin); err != nil {
		return nil, err
	}

	response := ToBinResponse(bin)
	return &response, nil
}

// Activate re-enables a bin
func (s *BinService) Activate(ctx context.Context, binID uuid.UUID) (*BinResponse, error) {
	return s.setActive(ctx, binID, true)
}

// Deactivate disables a bin for new movements
func (s *BinService) Deactivate(ctx context.Context, binID uuid.UUID) (*BinResponse, error) {
	return s.setActive(ctx, binID, false)
}

// Delete soft-deletes a bin. Bins still holding stock cannot be deleted.
func (s *BinService) Delete(ctx context.Context, binID uuid.UUID) error {
	if _, err := s.binRepo.FindByID(ctx, binID); err != nil {
		return err
	}

	stocks, err := s.binStockRepo.FindByBin(ctx, binID)
	if err != nil {
		return err
	}
	for _, stock := range stocks {
		if !stock.IsEmpty() {
			return shared.NewDomainError("PRECONDITION_FAILED", "bin still holds stock and cannot be deleted")
		}
	}

	return s.binRepo.Delete(ctx, binID)
}

// Stock returns the stock levels held in a bin
func (s *BinService) Stock(ctx context.Context, binID uuid.UUID) ([]BinStockResponse, error) {
	if _, err := s.binRepo.FindByID(ctx, binID); err != nil {
		return nil, err
	}

	stocks, err := s.binStockRepo.FindByBin(ctx, binID)
	if err != nil {
		return nil, err
	}
	return ToBinStockResponses(stocks), nil
}

// ItemStock returns every bin holding the given item
func (s *BinService) ItemStock(ctx context.Context, stockItemID uuid.UUID) ([]BinStockResponse, error) {
	stocks, err := s.binStockRepo.FindByItem(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	return ToBinStockResponses(stocks), nil
}

func (s *BinService) setActive(ctx context.Context, binID uuid.UUID, active bool) (*BinResponse, error) {
	bin, err := s.binRepo.FindByID(ctx, binID)
	if err != nil {
		return nil, err
	}

	if active {
		bin.Activate()
	} else {
		bin.Deactivate()
	}

	if err := s.binRepo.Save(ctx, bin); err != nil {
		return nil, err
	}

	response := ToBinResponse(bin)
	return &response, nil
}

// buildFilter normalizes list parameters into a shared filter with defaults
func buildFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
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
		Filters:  make(map[string]interface{}),
	}
}
