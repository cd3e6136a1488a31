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

// TransferService handles internal stock transfers between sites
type TransferService struct {
	transferRepo   inventory.InternalTransferRepository
	binRepo        inventory.BinRepository
	binStockRepo   inventory.BinStockRepository
	itemRepo       catalog.StockItemRepository
	eventPublisher shared.EventPublisher
	txRunner       shared.TxRunner
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo inventory.InternalTransferRepository,
	binRepo inventory.BinRepository,
	binStockRepo inventory.BinStockRepository,
	itemRepo catalog.StockItemRepository,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		binRepo:      binRepo,
		binStockRepo: binStockRepo,
		itemRepo:     itemRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxRunner sets the transaction runner for atomic stock movement
func (s *TransferService) SetTxRunner(runner shared.TxRunner) {
	s.txRunner = runner
}

func (s *TransferService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txRunner == nil {
		return fn(ctx)
	}
	return s.txRunner.InTx(ctx, fn)
}

// Create creates a draft transfer between two sites
func (s *TransferService) Create(ctx context.Context, actorID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	number, err := docflow.NextNumber(ctx, s.transferRepo, docflow.DocTypeInternalTransfer, time.Now())
	if err != nil {
		return nil, err
	}

	transfer, err := inventory.NewInternalTransfer(number, req.FromSiteID, req.ToSiteID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		if err := transfer.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Lines {
		if err := s.addLine(ctx, transfer, line); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, transfer)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// List retrieves transfers with filtering and pagination
func (s *TransferService) List(ctx context.Context, filter TransferListFilter) (*shared.Paginated[TransferResponse], error) {
	domainFilter := inventory.TransferFilter{
		Filter:     buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Status:     filter.Status,
		FromSiteID: filter.FromSiteID,
		ToSiteID:   filter.ToSiteID,
		Search:     filter.Search,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
	}

	page, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToTransferResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// StatusSummary returns the transfer count per workflow status
func (s *TransferService) StatusSummary(ctx context.Context) (*DocumentStatusSummary, error) {
	counts, err := s.transferRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &DocumentStatusSummary{Counts: counts, Total: total}, nil
}

// Update updates transfer header fields while it is still editable
func (s *TransferService) Update(ctx context.Context, transferID uuid.UUID, req UpdateTransferRequest) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		if err := transfer.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// AddLine adds an item line to a transfer
func (s *TransferService) AddLine(ctx context.Context, transferID uuid.UUID, req TransferLineInput) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, transfer, req); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// UpdateLine changes the quantity of a transfer line
func (s *TransferService) UpdateLine(ctx context.Context, transferID, lineID uuid.UUID, req UpdateTransferLineRequest) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := transfer.UpdateLineQuantity(lineID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// RemoveLine removes a line from a transfer
func (s *TransferService) RemoveLine(ctx context.Context, transferID, lineID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := transfer.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Delete deletes a transfer. Only drafts can be deleted.
func (s *TransferService) Delete(ctx context.Context, transferID uuid.UUID) error {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}
	if err := transfer.CanDelete(); err != nil {
		return err
	}
	return s.transferRepo.Delete(ctx, transferID)
}

// Submit moves a transfer from draft to pending approval
func (s *TransferService) Submit(ctx context.Context, transferID, actorID uuid.UUID) (*TransferResponse, error) {
	return s.transition(ctx, transferID, func(transfer *inventory.InternalTransfer) error {
		return transfer.Submit(actorID)
	})
}

// Approve moves a transfer from pending approval to approved
func (s *TransferService) Approve(ctx context.Context, transferID, actorID uuid.UUID) (*TransferResponse, error) {
	return s.transition(ctx, transferID, func(transfer *inventory.InternalTransfer) error {
		return transfer.Approve(actorID)
	})
}

// Reject rejects a pending transfer with a reason
func (s *TransferService) Reject(ctx context.Context, transferID, actorID uuid.UUID, reason string) (*TransferResponse, error) {
	return s.transition(ctx, transferID, func(transfer *inventory.InternalTransfer) error {
		return transfer.Reject(actorID, reason)
	})
}

// Cancel cancels a draft or pending transfer
func (s *TransferService) Cancel(ctx context.Context, transferID, actorID uuid.UUID, reason string) (*TransferResponse, error) {
	return s.transition(ctx, transferID, func(transfer *inventory.InternalTransfer) error {
		return transfer.Cancel(actorID, reason)
	})
}

// Complete marks an approved transfer completed and moves the stock of
// every line out of its source bin into its destination bin. Source
// stock is verified for the whole document before anything moves.
func (s *TransferService) Complete(ctx context.Context, transferID, actorID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := docflow.CanTransition(docflow.DocTypeInternalTransfer, transfer.Status, docflow.StatusCompleted); err != nil {
		return nil, err
	}

	// Verification, movement and the status change commit or roll back
	// as one unit. A failed line must not leave earlier lines moved.
	err = s.runInTx(ctx, func(ctx context.Context) error {
		mover := stockMover{binStockRepo: s.binStockRepo}
		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			onHand, err := mover.onHand(ctx, line.FromBinID, line.StockItemID)
			if err != nil {
				return err
			}
			if onHand.LessThan(line.Quantity) {
				return shared.NewDomainError("PRECONDITION_FAILED",
					"insufficient stock of "+line.ItemName+" in the source bin")
			}
		}

		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			if err := mover.decrease(ctx, line.FromBinID, line.StockItemID, line.Quantity); err != nil {
				return err
			}
			if err := mover.increase(ctx, transfer.ToSiteID, line.ToBinID, line.StockItemID, line.Quantity); err != nil {
				return err
			}
		}

		if err := transfer.Complete(actorID); err != nil {
			return err
		}
		return s.transferRepo.Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, transfer)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// addLine validates the bins against the transfer route and appends a
// line with the item name snapshotted from the catalog.
func (s *TransferService) addLine(ctx context.Context, transfer *inventory.InternalTransfer, req TransferLineInput) error {
	item, err := s.itemRepo.FindByID(ctx, req.StockItemID)
	if err != nil {
		return err
	}

	fromBin, err := s.binRepo.FindByID(ctx, req.FromBinID)
	if err != nil {
		return err
	}
	if fromBin.SiteID != transfer.FromSiteID {
		return shared.NewDomainError("VALIDATION_FAILED", "bin "+fromBin.Name+" does not belong to the source site")
	}

	toBin, err := s.binRepo.FindByID(ctx, req.ToBinID)
	if err != nil {
		return err
	}
	if toBin.SiteID != transfer.ToSiteID {
		return shared.NewDomainError("VALIDATION_FAILED", "bin "+toBin.Name+" does not belong to the destination site")
	}

	_, err = transfer.AddLine(item.ID, item.Name, fromBin.ID, toBin.ID, req.Quantity)
	return err
}

func (s *TransferService) transition(ctx context.Context, transferID uuid.UUID, apply func(*inventory.InternalTransfer) error) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if err := apply(transfer); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, transfer)

	response := ToTransferResponse(transfer)
	return &response, nil
}

func (s *TransferService) publishEvents(ctx context.Context, transfer *inventory.InternalTransfer) {
	if s.eventPublisher == nil {
		return
	}
	events := transfer.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	transfer.ClearDomainEvents()
}
