package procurement

import (
	"context"
	"errors"
	"strings"
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

// receivingBinName is the conventional bin stock arrives into when the
// caller does not name one explicitly.
const receivingBinName = "Receiving"

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	itemRepo       catalog.StockItemRepository
	binRepo        inventory.BinRepository
	binStockRepo   inventory.BinStockRepository
	eventPublisher shared.EventPublisher
	txRunner       shared.TxRunner
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	itemRepo catalog.StockItemRepository,
	binRepo inventory.BinRepository,
	binStockRepo inventory.BinStockRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		binRepo:      binRepo,
		binStockRepo: binStockRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxRunner sets the transaction runner for atomic stock receipt
func (s *PurchaseOrderService) SetTxRunner(runner shared.TxRunner) {
	s.txRunner = runner
}

func (s *PurchaseOrderService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txRunner == nil {
		return fn(ctx)
	}
	return s.txRunner.InTx(ctx, fn)
}

// Create creates a new draft purchase order. Authorship is stamped from
// the session identity, never from the payload.
func (s *PurchaseOrderService) Create(ctx context.Context, actorID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
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

	order, err := procurement.NewPurchaseOrder(number, supplier.ID, supplier.Name, procurement.OrderOriginManual, actorID)
	if err != nil {
		return nil, err
	}

	if req.SiteID != nil {
		if err := order.SetDeliverySite(*req.SiteID); err != nil {
			return nil, err
		}
	}
	if req.ExpectedDelivery != nil {
		if err := order.SetExpectedDelivery(*req.ExpectedDelivery); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := order.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Lines {
		if err := s.addLine(ctx, order, line.StockItemID, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves a purchase order by its document number
func (s *PurchaseOrderService) GetByNumber(ctx context.Context, number string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[PurchaseOrderListItemResponse], error) {
	domainFilter := procurement.OrderFilter{
		Filter:     buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Status:     filter.Status,
		SupplierID: filter.SupplierID,
		SiteID:     filter.SiteID,
		Origin:     filter.Origin,
		Search:     filter.Search,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
	}

	page, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(
		ToPurchaseOrderListItemResponses(page.Items),
		page.Total, page.Page, page.PageSize,
	)
	return &result, nil
}

// StatusSummary returns the order count per workflow status
func (s *PurchaseOrderService) StatusSummary(ctx context.Context) (*OrderStatusSummary, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &OrderStatusSummary{Counts: counts, Total: total}, nil
}

// Update updates header fields of an order while it is still editable
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.SiteID != nil {
		if err := order.SetDeliverySite(*req.SiteID); err != nil {
			return nil, err
		}
	}
	if req.ExpectedDelivery != nil {
		if err := order.SetExpectedDelivery(*req.ExpectedDelivery); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := order.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddLine adds an item line to an order
func (s *PurchaseOrderService) AddLine(ctx context.Context, orderID uuid.UUID, req AddOrderLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, order, req.StockItemID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateLine changes quantity or price of an existing line
func (s *PurchaseOrderService) UpdateLine(ctx context.Context, orderID, lineID uuid.UUID, req UpdateOrderLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateLine(lineID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveLine removes a line from an order
func (s *PurchaseOrderService) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete deletes an order. Only drafts can be deleted.
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := order.CanDelete(); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, orderID)
}

// Submit moves an order from draft to pending approval
func (s *PurchaseOrderService) Submit(ctx context.Context, orderID, actorID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Submit(actorID)
	})
}

// Approve moves an order from pending approval to approved
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID, actorID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Approve(actorID)
	})
}

// Reject rejects a pending order with a reason
func (s *PurchaseOrderService) Reject(ctx context.Context, orderID, actorID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Reject(actorID, reason)
	})
}

// Cancel cancels a draft or pending order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Cancel(actorID, reason)
	})
}

// Process marks an approved order processed, receives the ordered
// quantities into the receiving bin and refreshes catalog unit prices
// from the order's line prices.
func (s *PurchaseOrderService) Process(ctx context.Context, orderID, actorID uuid.UUID, req ProcessOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := docflow.CanTransition(docflow.DocTypePurchaseOrder, order.Status, docflow.StatusProcessed); err != nil {
		return nil, err
	}

	bin, err := s.resolveReceivingBin(ctx, order, req.BinID)
	if err != nil {
		return nil, err
	}

	// Receiving every line and the status change commit or roll back as
	// one unit. A failed line must not leave earlier lines received.
	err = s.runInTx(ctx, func(ctx context.Context) error {
		for i := range order.Lines {
			line := &order.Lines[i]
			if err := s.receiveLine(ctx, bin, line); err != nil {
				return err
			}
			if err := s.refreshItemPrice(ctx, line); err != nil {
				return err
			}
		}

		if err := order.Process(actorID); err != nil {
			return err
		}
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// addLine resolves the catalog item and appends a snapshot line. A nil
// unit price falls back to the catalog price.
func (s *PurchaseOrderService) addLine(ctx context.Context, order *procurement.PurchaseOrder, itemID uuid.UUID, quantity decimal.Decimal, unitPrice *decimal.Decimal) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	price := item.UnitPrice
	if unitPrice != nil {
		price = *unitPrice
	}

	_, err = order.AddLine(item.ID, item.Name, item.SKU, quantity, price)
	return err
}

// resolveReceivingBin picks the bin stock arrives into. An explicit bin
// wins; otherwise the delivery site's bin named "Receiving", falling back
// to the site's first active bin.
func (s *PurchaseOrderService) resolveReceivingBin(ctx context.Context, order *procurement.PurchaseOrder, binID *uuid.UUID) (*inventory.Bin, error) {
	if binID != nil {
		bin, err := s.binRepo.FindByID(ctx, *binID)
		if err != nil {
			return nil, err
		}
		if order.SiteID != nil && bin.SiteID != *order.SiteID {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "bin "+bin.Name+" does not belong to the order's delivery site")
		}
		return bin, nil
	}

	if order.SiteID == nil {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "order "+order.Number+" has no delivery site and no receiving bin was given")
	}

	bins, err := s.binRepo.FindBySite(ctx, *order.SiteID)
	if err != nil {
		return nil, err
	}

	var fallback *inventory.Bin
	for _, bin := range bins {
		if !bin.Active {
			continue
		}
		if strings.EqualFold(bin.Name, receivingBinName) {
			return bin, nil
		}
		if fallback == nil {
			fallback = bin
		}
	}
	if fallback == nil {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "the order's delivery site has no active bin to receive into")
	}
	return fallback, nil
}

// receiveLine increases bin stock by the ordered quantity, creating the
// bin stock row on first receipt of an item into the bin.
func (s *PurchaseOrderService) receiveLine(ctx context.Context, bin *inventory.Bin, line *procurement.PurchaseOrderLine) error {
	stock, err := s.binStockRepo.FindByBinAndItem(ctx, bin.ID, line.StockItemID)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		stock, err = inventory.NewBinStock(bin.SiteID, bin.ID, line.StockItemID)
		if err != nil {
			return err
		}
	}
	if err := stock.Increase(line.Quantity); err != nil {
		return err
	}
	return s.binStockRepo.Save(ctx, stock)
}

// refreshItemPrice updates the catalog unit price from the processed line
func (s *PurchaseOrderService) refreshItemPrice(ctx context.Context, line *procurement.PurchaseOrderLine) error {
	item, err := s.itemRepo.FindByID(ctx, line.StockItemID)
	if err != nil {
		// Items deleted after ordering no longer carry a price to refresh
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if item.UnitPrice.Equal(line.UnitPrice) {
		return nil
	}
	if err := item.UpdateUnitPrice(line.UnitPrice); err != nil {
		return err
	}
	return s.itemRepo.Save(ctx, item)
}

func (s *PurchaseOrderService) transition(ctx context.Context, orderID uuid.UUID, apply func(*procurement.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
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

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}
