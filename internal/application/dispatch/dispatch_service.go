package dispatch

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/dispatch"
	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

// EvidenceStorage stores proof-of-delivery files in object storage. The
// dispatch record keeps only the key and metadata.
type EvidenceStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, sizeBytes int64) error
	Delete(ctx context.Context, key string) error
}

// EvidenceUpload is one incoming proof-of-delivery file
type EvidenceUpload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// DispatchService handles dispatch logs and their evidence lifecycle
type DispatchService struct {
	dispatchRepo   dispatch.DispatchLogRepository
	binRepo        inventory.BinRepository
	binStockRepo   inventory.BinStockRepository
	itemRepo       catalog.StockItemRepository
	storage        EvidenceStorage
	eventPublisher shared.EventPublisher
	txRunner       shared.TxRunner
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	dispatchRepo dispatch.DispatchLogRepository,
	binRepo inventory.BinRepository,
	binStockRepo inventory.BinStockRepository,
	itemRepo catalog.StockItemRepository,
	storage EvidenceStorage,
) *DispatchService {
	return &DispatchService{
		dispatchRepo: dispatchRepo,
		binRepo:      binRepo,
		binStockRepo: binStockRepo,
		itemRepo:     itemRepo,
		storage:      storage,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DispatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxRunner sets the transaction runner for atomic stock movement
func (s *DispatchService) SetTxRunner(runner shared.TxRunner) {
	s.txRunner = runner
}

func (s *DispatchService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txRunner == nil {
		return fn(ctx)
	}
	return s.txRunner.InTx(ctx, fn)
}

// Create records a new dispatch. The dispatch number restarts daily and
// carries the dispatch date.
func (s *DispatchService) Create(ctx context.Context, actorID uuid.UUID, req CreateDispatchRequest) (*DispatchResponse, error) {
	dispatchDate := req.DispatchDate
	if dispatchDate.IsZero() {
		dispatchDate = time.Now()
	}

	number, err := docflow.NextNumber(ctx, s.dispatchRepo, docflow.DocTypeDispatchLog, dispatchDate)
	if err != nil {
		return nil, err
	}

	log, err := dispatch.NewDispatchLog(number, req.SiteID, dispatchDate, req.EventName, req.PeopleFed, actorID)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		if err := log.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Lines {
		if err := s.addLine(ctx, log, line); err != nil {
			return nil, err
		}
	}

	if err := s.dispatchRepo.Save(ctx, log); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, log)

	response := ToDispatchResponse(log)
	return &response, nil
}

// GetByID retrieves a dispatch by ID
func (s *DispatchService) GetByID(ctx context.Context, dispatchID uuid.UUID) (*DispatchResponse, error) {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	response := ToDispatchResponse(log)
	return &response, nil
}

// List retrieves dispatches with filtering and pagination
func (s *DispatchService) List(ctx context.Context, filter DispatchListFilter) (*shared.Paginated[DispatchResponse], error) {
	page, err := s.dispatchRepo.FindAll(ctx, dispatch.DispatchFilter{
		Filter:         buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		SiteID:         filter.SiteID,
		EvidenceStatus: filter.EvidenceStatus,
		Search:         filter.Search,
		DateFrom:       filter.DateFrom,
		DateTo:         filter.DateTo,
	})
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToDispatchResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// EvidenceSummary returns the dispatch count per evidence status
func (s *DispatchService) EvidenceSummary(ctx context.Context) (*EvidenceStatusSummary, error) {
	counts, err := s.dispatchRepo.CountByEvidenceStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &EvidenceStatusSummary{Counts: counts, Total: total}, nil
}

// Update updates dispatch header fields while the record is editable
func (s *DispatchService) Update(ctx context.Context, dispatchID uuid.UUID, req UpdateDispatchRequest) (*DispatchResponse, error) {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}

	if req.PeopleFed != nil {
		if err := log.SetPeopleFed(*req.PeopleFed); err != nil {
			return nil, err
		}
	}
	if req.EventName != nil {
		if err := log.SetEventName(*req.EventName); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := log.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.dispatchRepo.Save(ctx, log); err != nil {
		return nil, err
	}

	response := ToDispatchResponse(log)
	return &response, nil
}

// AddLine adds an item line to a dispatch
func (s *DispatchService) AddLine(ctx context.Context, dispatchID uuid.UUID, req DispatchLineInput) (*DispatchResponse, error) {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, log, req); err != nil {
		return nil, err
	}

	if err := s.dispatchRepo.Save(ctx, log); err != nil {
		return nil, err
	}

	response := ToDispatchResponse(log)
	return &response, nil
}

// RemoveLine removes a line from a dispatch
func (s *DispatchService) RemoveLine(ctx context.Context, dispatchID, lineID uuid.UUID) (*DispatchResponse, error) {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}

	if err := log.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.dispatchRepo.Save(ctx, log); err != nil {
		return nil, err
	}

	response := ToDispatchResponse(log)
	return &response, nil
}

// AttachEvidence uploads a proof-of-delivery file and records it on the
// dispatch. The first attachment moves the evidence status to partial.
func (s *DispatchService) AttachEvidence(ctx context.Context, dispatchID, actorID uuid.UUID, upload EvidenceUpload) (*DispatchResponse, error) {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	if log.IsLocked() {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "Evidence is already complete")
	}
	if upload.FileName == "" {
		return nil, shared.NewValidationError("evidence is missing required fields", "file_name")
	}

	key := evidenceKey(log.ID, upload.FileName)
	if err := s.storage.Put(ctx, key, upload.ContentType, upload.Body, upload.SizeBytes); err != nil {
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to store evidence file")
	}

	if _, err := log.AttachEvidence(key, upload.FileName, upload.ContentType, upload.SizeBytes, actorID); err != nil {
		return nil, err
	}

	if err := s.dispatchRepo.Save(ctx, log); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, log)

	response := ToDispatchResponse(log)
	return &response, nil
}

// CompleteEvidence locks the dispatch and deducts every line's quantity
// from its source bin. Stock is verified for the whole document before
// anything moves.
func (s *DispatchService) CompleteEvidence(ctx context.Context, dispatchID, actorID uuid.UUID) (*DispatchResponse, error) {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	if log.IsLocked() {
		return nil, shared.NewDomainError("PRECONDITION_FAILED", "Evidence is already complete")
	}

	// Verification, deduction and the lock commit or roll back as one
	// unit. A failed line must not leave earlier lines deducted.
	err = s.runInTx(ctx, func(ctx context.Context) error {
		for i := range log.Lines {
			line := &log.Lines[i]
			onHand, err := s.onHand(ctx, line.BinID, line.StockItemID)
			if err != nil {
				return err
			}
			if onHand.LessThan(line.Quantity) {
				return shared.NewDomainError("PRECONDITION_FAILED",
					"insufficient stock of "+line.ItemName+" in the source bin")
			}
		}

		if err := log.CompleteEvidence(actorID); err != nil {
			return err
		}

		for i := range log.Lines {
			line := &log.Lines[i]
			if err := s.deduct(ctx, line.BinID, line.StockItemID, line.Quantity); err != nil {
				return err
			}
		}

		return s.dispatchRepo.Save(ctx, log)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, log)

	response := ToDispatchResponse(log)
	return &response, nil
}

// Delete deletes a dispatch while its evidence is incomplete. Stored
// evidence files are removed best-effort.
func (s *DispatchService) Delete(ctx context.Context, dispatchID uuid.UUID) error {
	log, err := s.dispatchRepo.FindByID(ctx, dispatchID)
	if err != nil {
		return err
	}
	if log.IsLocked() {
		return shared.NewDomainError("PRECONDITION_FAILED", "Dispatch with complete evidence cannot be deleted")
	}

	if err := s.dispatchRepo.Delete(ctx, dispatchID); err != nil {
		return err
	}

	for _, evidence := range log.Evidence {
		_ = s.storage.Delete(ctx, evidence.FileKey)
	}

	return nil
}

// addLine validates the bin against the dispatch site and appends a line
// with name and price snapshotted from the catalog
func (s *DispatchService) addLine(ctx context.Context, log *dispatch.DispatchLog, req DispatchLineInput) error {
	item, err := s.itemRepo.FindByID(ctx, req.StockItemID)
	if err != nil {
		return err
	}

	bin, err := s.binRepo.FindByID(ctx, req.BinID)
	if err != nil {
		return err
	}
	if bin.SiteID != log.SiteID {
		return shared.NewDomainError("VALIDATION_FAILED", "bin "+bin.Name+" does not belong to the dispatch site")
	}

	_, err = log.AddLine(item.ID, item.Name, bin.ID, req.Quantity, item.UnitPrice)
	return err
}

func (s *DispatchService) onHand(ctx context.Context, binID, itemID uuid.UUID) (decimal.Decimal, error) {
	stock, err := s.binStockRepo.FindByBinAndItem(ctx, binID, itemID)
	if err != nil {
		if isNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return stock.Quantity, nil
}

func (s *DispatchService) deduct(ctx context.Context, binID, itemID uuid.UUID, quantity decimal.Decimal) error {
	stock, err := s.binStockRepo.FindByBinAndItem(ctx, binID, itemID)
	if err != nil {
		return err
	}
	if err := stock.Decrease(quantity); err != nil {
		return err
	}
	return s.binStockRepo.Save(ctx, stock)
}

func (s *DispatchService) publishEvents(ctx context.Context, log *dispatch.DispatchLog) {
	if s.eventPublisher == nil {
		return
	}
	events := log.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	log.ClearDomainEvents()
}

// evidenceKey builds the object storage key for an uploaded file. A
// random segment keeps repeated uploads of the same filename apart.
func evidenceKey(dispatchID uuid.UUID, fileName string) string {
	cleaned := strings.ReplaceAll(path.Base(fileName), " ", "_")
	return fmt.Sprintf("dispatches/%s/%s-%s", dispatchID, uuid.New().String(), cleaned)
}

func isNotFound(err error) bool {
	domainErr, ok := err.(*shared.DomainError)
	return ok && domainErr.Code == "NOT_FOUND"
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
