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

// AdjustmentService handles stock adjustments
type AdjustmentService struct {
	adjustmentRepo inventory.StockAdjustmentRepository
	binRepo        inventory.BinRepository
	binStockRepo   inventory.BinStockRepository
	itemRepo       catalog.StockItemRepository
	eventPublisher shared.EventPublisher
	txRunner       shared.TxRunner
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	adjustmentRepo inventory.StockAdjustmentRepository,
	binRepo inventory.BinRepository,
	binStockRepo inventory.BinStockRepository,
	itemRepo catalog.StockItemRepository,
) *AdjustmentService {
	return &AdjustmentService{
		adjustmentRepo: adjustmentRepo,
		binRepo:        binRepo,
		binStockRepo:   binStockRepo,
		itemRepo:       itemRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxRunner sets the transaction runner for atomic stock movement
func (s *AdjustmentService) SetTxRunner(runner shared.TxRunner) {
	s.txRunner = runner
}

func (s *AdjustmentService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txRunner == nil {
		return fn(ctx)
	}
	return s.txRunner.InTx(ctx, fn)
}

// Create creates a draft stock adjustment
func (s *AdjustmentService) Create(ctx context.Context, actorID uuid.UUID, req CreateAdjustmentRequest) (*AdjustmentResponse, error) {
	number, err := docflow.NextNumber(ctx, s.adjustmentRepo, docflow.DocTypeStockAdjustment, time.Now())
	if err != nil {
		return nil, err
	}

	adjustment, err := inventory.NewStockAdjustment(number, req.SiteID, req.Reason, actorID)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		if err := adjustment.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Lines {
		if err := s.addLine(ctx, adjustment, line); err != nil {
			return nil, err
		}
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, adjustment)

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// GetByID retrieves an adjustment by ID
func (s *AdjustmentService) GetByID(ctx context.Context, adjustmentID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// List retrieves adjustments with filtering and pagination
func (s *AdjustmentService) List(ctx context.Context, filter AdjustmentListFilter) (*shared.Paginated[AdjustmentResponse], error) {
	domainFilter := inventory.AdjustmentFilter{
		Filter:   buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Status:   filter.Status,
		SiteID:   filter.SiteID,
		Reason:   filter.Reason,
		Search:   filter.Search,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}

	page, err := s.adjustmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToAdjustmentResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// StatusSummary returns the adjustment count per workflow status
func (s *AdjustmentService) StatusSummary(ctx context.Context) (*DocumentStatusSummary, error) {
	counts, err := s.adjustmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &DocumentStatusSummary{Counts: counts, Total: total}, nil
}

// Update updates adjustment header fields while it is still editable
func (s *AdjustmentService) Update(ctx context.Context, adjustmentID uuid.UUID, req UpdateAdjustmentRequest) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		if err := adjustment.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// AddLine adds an item line to an adjustment
func (s *AdjustmentService) AddLine(ctx context.Context, adjustmentID uuid.UUID, req AdjustmentLineInput) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, adjustment, req); err != nil {
		return nil, err
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// RemoveLine removes a line from an adjustment
func (s *AdjustmentService) RemoveLine(ctx context.Context, adjustmentID, lineID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}

	if err := adjustment.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// Delete deletes an adjustment. Only drafts can be deleted.
func (s *AdjustmentService) Delete(ctx context.Context, adjustmentID uuid.UUID) error {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return err
	}
	if err := adjustment.CanDelete(); err != nil {
		return err
	}
	return s.adjustmentRepo.Delete(ctx, adjustmentID)
}

// Submit moves an adjustment from draft to pending approval
func (s *AdjustmentService) Submit(ctx context.Context, adjustmentID, actorID uuid.UUID) (*AdjustmentResponse, error) {
	return s.transition(ctx, adjustmentID, func(adjustment *inventory.StockAdjustment) error {
		return adjustment.Submit(actorID)
	})
}

// Approve moves an adjustment from pending approval to approved
func (s *AdjustmentService) Approve(ctx context.Context, adjustmentID, actorID uuid.UUID) (*AdjustmentResponse, error) {
	return s.transition(ctx, adjustmentID, func(adjustment *inventory.StockAdjustment) error {
		return adjustment.Approve(actorID)
	})
}

// Reject rejects a pending adjustment with a reason
func (s *AdjustmentService) Reject(ctx context.Context, adjustmentID, actorID uuid.UUID, reason string) (*AdjustmentResponse, error) {
	return s.transition(ctx, adjustmentID, func(adjustment *inventory.StockAdjustment) error {
		return adjustment.Reject(actorID, reason)
	})
}

// Cancel cancels a draft or pending adjustment
func (s *AdjustmentService) Cancel(ctx context.Context, adjustmentID, actorID uuid.UUID, reason string) (*AdjustmentResponse, error) {
	return s.transition(ctx, adjustmentID, func(adjustment *inventory.StockAdjustment) error {
		return adjustment.Cancel(actorID, reason)
	})
}

// Complete marks an approved adjustment completed and applies every
// line's signed delta to its bin. Stock removals are verified for the
// whole document before anything is applied.
func (s *AdjustmentService) Complete(ctx context.Context, adjustmentID, actorID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}

	if err := docflow.CanTransition(docflow.DocTypeStockAdjustment, adjustment.Status, docflow.StatusCompleted); err != nil {
		return nil, err
	}

	// Verification, deltas and the status change commit or roll back as
	// one unit. A failed line must not leave earlier lines applied.
	err = s.runInTx(ctx, func(ctx context.Context) error {
		mover := stockMover{binStockRepo: s.binStockRepo}
		for i := range adjustment.Lines {
			line := &adjustment.Lines[i]
			if !line.QuantityDelta.IsNegative() {
				continue
			}
			onHand, err := mover.onHand(ctx, line.BinID, line.StockItemID)
			if err != nil {
				return err
			}
			if onHand.LessThan(line.QuantityDelta.Neg()) {
				return shared.NewDomainError("PRECONDITION_FAILED",
					"insufficient stock of "+line.ItemName+" to remove")
			}
		}

		for i := range adjustment.Lines {
			line := &adjustment.Lines[i]
			if line.QuantityDelta.IsNegative() {
				if err := mover.decrease(ctx, line.BinID, line.StockItemID, line.QuantityDelta.Neg()); err != nil {
					return err
				}
				continue
			}
			if err := mover.increase(ctx, adjustment.SiteID, line.BinID, line.StockItemID, line.QuantityDelta); err != nil {
				return err
			}
		}

		if err := adjustment.Complete(actorID); err != nil {
			return err
		}
		return s.adjustmentRepo.Save(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, adjustment)

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// addLine validates the bin against the adjustment site and appends a
// line with the item name snapshotted from the catalog.
func (s *AdjustmentService) addLine(ctx context.Context, adjustment *inventory.StockAdjustment, req AdjustmentLineInput) error {
	item, err := s.itemRepo.FindByID(ctx, req.StockItemID)
	if err != nil {
		return err
	}

	bin, err := s.binRepo.FindByID(ctx, req.BinID)
	if err != nil {
		return err
	}
	if bin.SiteID != adjustment.SiteID {
		return shared.NewDomainError("VALIDATION_FAILED", "bin "+bin.Name+" does not belong to the adjustment's site")
	}

	_, err = adjustment.AddLine(item.ID, item.Name, bin.ID, req.QuantityDelta, req.Note)
	return err
}

func (s *AdjustmentService) transition(ctx context.Context, adjustmentID uuid.UUID, apply func(*inventory.StockAdjustment) error) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := apply(adjustment); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, adjustment)

	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

func (s *AdjustmentService) publishEvents(ctx context.Context, adjustment *inventory.StockAdjustment) {
	if s.eventPublisher == nil {
		return
	}
	events := adjustment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	adjustment.ClearDomainEvents()
}
