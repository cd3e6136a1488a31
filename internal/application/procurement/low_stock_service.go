package procurement

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/procurement"
	"github.com/caterflow/backend/internal/domain/shared"
)

// LowStockService turns low stock levels into draft purchase orders.
// One run produces at most one order per supplier; suppliers are
// processed independently so a single bad group never sinks the run.
type LowStockService struct {
	orderRepo      procurement.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	itemRepo       catalog.StockItemRepository
	binStockRepo   inventory.BinStockRepository
	eventPublisher shared.EventPublisher
}

// NewLowStockService creates a new LowStockService
func NewLowStockService(
	orderRepo procurement.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	itemRepo catalog.StockItemRepository,
	binStockRepo inventory.BinStockRepository,
) *LowStockService {
	return &LowStockService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		binStockRepo: binStockRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LowStockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// lowStockLine is one qualifying item with its order quantity
type lowStockLine struct {
	item     catalog.StockItem
	quantity decimal.Decimal
}

// GenerateOrders scans current stock against each item's minimum level
// and creates draft purchase orders for everything that needs reordering.
// Items without a resolvable supplier fail individually; order creation
// failures fail their supplier group. The run itself only errors when the
// scan cannot be performed at all.
func (s *LowStockService) GenerateOrders(ctx context.Context, actorID uuid.UUID) (*LowStockOrderResult, error) {
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

	result := &LowStockOrderResult{
		Created: []PurchaseOrderListItemResponse{},
		Failed:  []LowStockFailure{},
	}

	groups := make(map[uuid.UUID][]lowStockLine)
	for _, item := range items {
		onHand := totals[item.ID]
		if onHand.GreaterThanOrEqual(item.MinimumStockLevel) {
			continue
		}

		supplierID := item.ResolveSupplier()
		if supplierID == nil {
			itemID := item.ID
			result.Failed = append(result.Failed, LowStockFailure{
				StockItemID: &itemID,
				ItemName:    item.Name,
				Code:        "VALIDATION_FAILED",
				Message:     "stock item " + item.Name + " is below minimum but has no supplier assigned",
			})
			continue
		}

		groups[*supplierID] = append(groups[*supplierID], lowStockLine{
			item:     item,
			quantity: orderQuantity(item, onHand),
		})
	}

	// Stable supplier order keeps runs reproducible
	supplierIDs := make([]uuid.UUID, 0, len(groups))
	for id := range groups {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Slice(supplierIDs, func(i, j int) bool {
		return supplierIDs[i].String() < supplierIDs[j].String()
	})

	for _, supplierID := range supplierIDs {
		order, err := s.createOrder(ctx, actorID, supplierID, groups[supplierID])
		if err != nil {
			sid := supplierID
			failure := LowStockFailure{
				SupplierID: &sid,
				Code:       "UPSTREAM_FAILURE",
				Message:    err.Error(),
			}
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				failure.Code = domainErr.Code
				failure.Message = domainErr.Message
			}
			result.Failed = append(result.Failed, failure)
			continue
		}
		result.Created = append(result.Created, ToPurchaseOrderListItemResponse(order))
	}

	return result, nil
}

// createOrder builds and saves one draft order for a supplier group
func (s *LowStockService) createOrder(ctx context.Context, actorID, supplierID uuid.UUID, lines []lowStockLine) (*procurement.PurchaseOrder, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "supplier "+supplier.Name+" is inactive")
	}

	number, err := docflow.NextNumber(ctx, s.orderRepo, docflow.DocTypePurchaseOrder, time.Now())
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(number, supplier.ID, supplier.Name, procurement.OrderOriginLowStock, actorID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, err := order.AddLine(line.item.ID, line.item.Name, line.item.SKU, line.quantity, line.item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

func (s *LowStockService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// orderQuantity is the configured reorder quantity, or enough to get
// back to the minimum level when none is configured.
func orderQuantity(item catalog.StockItem, onHand decimal.Decimal) decimal.Decimal {
	if item.ReorderQuantity.GreaterThan(decimal.Zero) {
		return item.ReorderQuantity
	}
	return item.MinimumStockLevel.Sub(onHand)
}
