package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// StockItemService handles stock item master data operations
type StockItemService struct {
	itemRepo     catalog.StockItemRepository
	supplierRepo partner.SupplierRepository
	binStockRepo inventory.BinStockRepository
}

// NewStockItemService creates a new StockItemService
func NewStockItemService(
	itemRepo catalog.StockItemRepository,
	supplierRepo partner.SupplierRepository,
	binStockRepo inventory.BinStockRepository,
) *StockItemService {
	return &StockItemService{
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		binStockRepo: binStockRepo,
	}
}

// Create creates a new stock item
func (s *StockItemService) Create(ctx context.Context, req CreateStockItemRequest) (*StockItemResponse, error) {
	exists, err := s.itemRepo.ExistsBySKU(ctx, req.SKU, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A stock item with this SKU already exists")
	}

	item, err := catalog.NewStockItem(req.SKU, req.Name, req.UnitOfMeasure, req.UnitPrice)
	if err != nil {
		return nil, err
	}

	if req.MinimumStockLevel != nil || req.ReorderQuantity != nil {
		minimum := decimal.Zero
		reorder := decimal.Zero
		if req.MinimumStockLevel != nil {
			minimum = *req.MinimumStockLevel
		}
		if req.ReorderQuantity != nil {
			reorder = *req.ReorderQuantity
		}
		if err := item.SetReorderPolicy(minimum, reorder); err != nil {
			return nil, err
		}
	}

	supplierIDs := req.SupplierIDs
	if req.PrimarySupplierID != nil {
		if err := item.AssignPrimarySupplier(*req.PrimarySupplierID); err != nil {
			return nil, err
		}
		supplierIDs = ensureContains(supplierIDs, *req.PrimarySupplierID)
	}
	if len(supplierIDs) > 0 {
		if err := s.verifySuppliers(ctx, supplierIDs); err != nil {
			return nil, err
		}
		item.SupplierIDs = supplierIDs
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	if len(supplierIDs) > 0 {
		if err := s.itemRepo.ReplaceSuppliers(ctx, item.ID, supplierIDs); err != nil {
			return nil, err
		}
	}

	return ToStockItemResponse(item), nil
}

// GetByID returns a single stock item
func (s *StockItemService) GetByID(ctx context.Context, id uuid.UUID) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(item), nil
}

// GetBySKU returns a single stock item by its SKU
func (s *StockItemService) GetBySKU(ctx context.Context, sku string) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(item), nil
}

// List returns stock items matching the filter, paginated
func (s *StockItemService) List(ctx context.Context, filter StockItemListFilter) (*shared.Paginated[*StockItemResponse], error) {
	repoFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	repoFilter.Search = filter.Search

	items, err := s.itemRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i])
	}
	page := shared.NewPaginated(responses, total, repoFilter.Page, repoFilter.PageSize)
	return &page, nil
}

// Update applies a partial update to a stock item. The SKU is immutable.
func (s *StockItemService) Update(ctx context.Context, id uuid.UUID, req UpdateStockItemRequest) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.UnitOfMeasure != nil {
		name := item.Name
		unit := item.UnitOfMeasure
		if req.Name != nil {
			name = *req.Name
		}
		if req.UnitOfMeasure != nil {
			unit = *req.UnitOfMeasure
		}
		if err := item.UpdateDetails(name, unit); err != nil {
			return nil, err
		}
	}

	if req.UnitPrice != nil {
		if err := item.UpdateUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.MinimumStockLevel != nil || req.ReorderQuantity != nil {
		minimum := item.MinimumStockLevel
		reorder := item.ReorderQuantity
		if req.MinimumStockLevel != nil {
			minimum = *req.MinimumStockLevel
		}
		if req.ReorderQuantity != nil {
			reorder = *req.ReorderQuantity
		}
		if err := item.SetReorderPolicy(minimum, reorder); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return ToStockItemResponse(item), nil
}

// AssignSuppliers replaces the item's supplier set and optionally the
// primary supplier
func (s *StockItemService) AssignSuppliers(ctx context.Context, id uuid.UUID, req AssignSuppliersRequest) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PrimarySupplierID != nil && !contains(req.SupplierIDs, *req.PrimarySupplierID) {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "The primary supplier must be part of the assigned supplier set")
	}
	if err := s.verifySuppliers(ctx, req.SupplierIDs); err != nil {
		return nil, err
	}

	if req.PrimarySupplierID != nil {
		if err := item.AssignPrimarySupplier(*req.PrimarySupplierID); err != nil {
			return nil, err
		}
	} else {
		item.ClearPrimarySupplier()
	}
	item.SupplierIDs = req.SupplierIDs

	if err := s.itemRepo.ReplaceSuppliers(ctx, item.ID, req.SupplierIDs); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return ToStockItemResponse(item), nil
}

// Delete soft-deletes a stock item. The SKU becomes reusable because
// uniqueness is scoped to non-deleted rows.
func (s *StockItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, id)
}

// LowStock returns every item whose on-hand total across all bins is
// below its minimum stock level, with the resolved reorder supplier.
func (s *StockItemService) LowStock(ctx context.Context) ([]LowStockItemResponse, error) {
	items, err := s.itemRepo.FindWithReorderPolicy(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := s.binStockRepo.TotalByItem(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal, len(levels))
	for _, level := range levels {
		totals[level.StockItemID] = level.Total
	}

	result := make([]LowStockItemResponse, 0)
	for i := range items {
		item := &items[i]
		onHand := totals[item.ID]
		if onHand.GreaterThanOrEqual(item.MinimumStockLevel) {
			continue
		}
		result = append(result, LowStockItemResponse{
			ID:                item.ID,
			SKU:               item.SKU,
			Name:              item.Name,
			UnitOfMeasure:     item.UnitOfMeasure,
			OnHand:            onHand,
			MinimumStockLevel: item.MinimumStockLevel,
			ReorderQuantity:   item.ReorderQuantity,
			Shortfall:         item.MinimumStockLevel.Sub(onHand),
			SupplierID:        item.ResolveSupplier(),
		})
	}
	return result, nil
}

func (s *StockItemService) verifySuppliers(ctx context.Context, ids []uuid.UUID) error {
	suppliers, err := s.supplierRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(suppliers) != len(ids) {
		return shared.NewDomainError("NOT_FOUND", "One or more suppliers do not exist")
	}
	return nil
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

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func ensureContains(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
