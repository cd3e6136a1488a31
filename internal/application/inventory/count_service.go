package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

// CountService handles physical bin counts
type CountService struct {
	countRepo      inventory.BinCountRepository
	binRepo        inventory.BinRepository
	binStockRepo   inventory.BinStockRepository
	itemRepo       catalog.StockItemRepository
	eventPublisher shared.EventPublisher
	txRunner       shared.TxRunner
}

// NewCountService creates a new CountService
func NewCountService(
	countRepo inventory.BinCountRepository,
	binRepo inventory.BinRepository,
	binStockRepo inventory.BinStockRepository,
	itemRepo catalog.StockItemRepository,
) *CountService {
	return &CountService{
		countRepo:    countRepo,
		binRepo:      binRepo,
		binStockRepo: binStockRepo,
		itemRepo:     itemRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxRunner sets the transaction runner for atomic stock movement
func (s *CountService) SetTxRunner(runner shared.TxRunner) {
	s.txRunner = runner
}

func (s *CountService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txRunner == nil {
		return fn(ctx)
	}
	return s.txRunner.InTx(ctx, fn)
}

// Create creates a draft bin count. System quantities are snapshotted
// from bin stock as each line is added.
func (s *CountService) Create(ctx context.Context, actorID uuid.UUID, req CreateCountRequest) (*CountResponse, error) {
	bin, err := s.binRepo.FindByID(ctx, req.BinID)
	if err != nil {
		return nil, err
	}
	if bin.SiteID != req.SiteID {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "bin "+bin.Name+" does not belong to the given site")
	}

	number, err := docflow.NextNumber(ctx, s.countRepo, docflow.DocTypeBinCount, time.Now())
	if err != nil {
		return nil, err
	}

	countDate := time.Now()
	if req.CountDate != nil {
		countDate = *req.CountDate
	}

	count, err := inventory.NewBinCount(number, req.SiteID, req.BinID, countDate, actorID)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		if err := count.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Lines {
		if err := s.addLine(ctx, count, line); err != nil {
			return nil, err
		}
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, count)

	response := ToCountResponse(count)
	return &response, nil
}

// GetByID retrieves a bin count by ID
func (s *CountService) GetByID(ctx context.Context, countID uuid.UUID) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}
	response := ToCountResponse(count)
	return &response, nil
}

// List retrieves bin counts with filtering and pagination
func (s *CountService) List(ctx context.Context, filter CountListFilter) (*shared.Paginated[CountResponse], error) {
	domainFilter := inventory.CountFilter{
		Filter:   buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Status:   filter.Status,
		SiteID:   filter.SiteID,
		BinID:    filter.BinID,
		Search:   filter.Search,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}

	page, err := s.countRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToCountResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// StatusSummary returns the bin count tally per workflow status
func (s *CountService) StatusSummary(ctx context.Context) (*DocumentStatusSummary, error) {
	counts, err := s.countRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &DocumentStatusSummary{Counts: counts, Total: total}, nil
}

// Update updates count header fields while it is still editable
func (s *CountService) Update(ctx context.Context, countID uuid.UUID, req UpdateCountRequest) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		if err := count.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count)
	return &response, nil
}

// AddLine adds a counted item to the count
func (s *CountService) AddLine(ctx context.Context, countID uuid.UUID, req CountLineInput) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, count, req); err != nil {
		return nil, err
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count)
	return &response, nil
}

// UpdateLine re-records a counted quantity
func (s *CountService) UpdateLine(ctx context.Context, countID, lineID uuid.UUID, req UpdateCountLineRequest) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}

	if err := count.UpdateLineCount(lineID, req.CountedQuantity, req.Note); err != nil {
		return nil, err
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count)
	return &response, nil
}

// RemoveLine removes a line from the count
func (s *CountService) RemoveLine(ctx context.Context, countID, lineID uuid.UUID) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}

	if err := count.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count)
	return &response, nil
}

// Delete deletes a bin count. Only drafts can be deleted.
func (s *CountService) Delete(ctx context.Context, countID uuid.UUID) error {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return err
	}
	if err := count.CanDelete(); err != nil {
		return err
	}
	return s.countRepo.Delete(ctx, countID)
}

// Submit moves a count from draft to pending approval
func (s *CountService) Submit(ctx context.Context, countID, actorID uuid.UUID) (*CountResponse, error) {
	return s.transition(ctx, countID, func(count *inventory.BinCount) error {
		return count.Submit(actorID)
	})
}

// Approve moves a count from pending approval to approved
func (s *CountService) Approve(ctx context.Context, countID, actorID uuid.UUID) (*CountResponse, error) {
	return s.transition(ctx, countID, func(count *inventory.BinCount) error {
		return count.Approve(actorID)
	})
}

// Reject rejects a pending count with a reason
func (s *CountService) Reject(ctx context.Context, countID, actorID uuid.UUID, reason string) (*CountResponse, error) {
	return s.transition(ctx, countID, func(count *inventory.BinCount) error {
		return count.Reject(actorID, reason)
	})
}

// Cancel cancels a draft or pending count
func (s *CountService) Cancel(ctx context.Context, countID, actorID uuid.UUID, reason string) (*CountResponse, error) {
	return s.transition(ctx, countID, func(count *inventory.BinCount) error {
		return count.Cancel(actorID, reason)
	})
}

// Complete marks an approved count completed and writes each counted
// quantity back to bin stock, so the book quantity matches the shelf.
func (s *CountService) Complete(ctx context.Context, countID, actorID uuid.UUID) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}

	if err := docflow.CanTransition(docflow.DocTypeBinCount, count.Status, docflow.StatusCompleted); err != nil {
		return nil, err
	}

	// Applying the counted quantities and the status change commit or
	// roll back as one unit.
	err = s.runInTx(ctx, func(ctx context.Context) error {
		mover := stockMover{binStockRepo: s.binStockRepo}
		for i := range count.Lines {
			line := &count.Lines[i]
			if err := mover.set(ctx, count.SiteID, count.BinID, line.StockItemID, line.CountedQuantity); err != nil {
				return err
			}
		}

		if err := count.Complete(actorID); err != nil {
			return err
		}
		return s.countRepo.Save(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, count)

	response := ToCountResponse(count)
	return &response, nil
}

// addLine snapshots the current system quantity and appends the line
func (s *CountService) addLine(ctx context.Context, count *inventory.BinCount, req CountLineInput) error {
	item, err := s.itemRepo.FindByID(ctx, req.StockItemID)
	if err != nil {
		return err
	}

	mover := stockMover{binStockRepo: s.binStockRepo}
	systemQty, err := mover.onHand(ctx, count.BinID, item.ID)
	if err != nil {
		return err
	}

	_, err = count.AddLine(item.ID, item.Name, systemQty, req.CountedQuantity, req.Note)
	return err
}

func (s *CountService) transition(ctx context.Context, countID uuid.UUID, apply func(*inventory.BinCount) error) (*CountResponse, error) {
	count, err := s.countRepo.FindByID(ctx, countID)
	if err != nil {
		return nil, err
	}
	if err := apply(count); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, count)

	response := ToCountResponse(count)
	return &response, nil
}

func (s *CountService) publishEvents(ctx context.Context, count *inventory.BinCount) {
	if s.eventPublisher == nil {
		return
	}
	events := count.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	count.ClearDomainEvents()
}
