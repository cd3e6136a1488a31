package dispatch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/dispatch"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

type dispatchServiceMocks struct {
	dispatches *MockDispatchLogRepository
	bins       *MockBinRepository
	binStock   *MockBinStockRepository
	items      *MockStockItemRepository
	storage    *MockEvidenceStorage
}

func newDispatchService(t *testing.T) (*DispatchService, *dispatchServiceMocks) {
	t.Helper()
	m := &dispatchServiceMocks{
		dispatches: new(MockDispatchLogRepository),
		bins:       new(MockBinRepository),
		binStock:   new(MockBinStockRepository),
		items:      new(MockStockItemRepository),
		storage:    new(MockEvidenceStorage),
	}
	svc := NewDispatchService(m.dispatches, m.bins, m.binStock, m.items, m.storage)
	return svc, m
}

func newSoupItem(t *testing.T) *catalog.StockItem {
	t.Helper()
	item, err := catalog.NewStockItem("SOUP-01", "Tomato Soup", "litre", decimal.NewFromFloat(3.50))
	require.NoError(t, err)
	return item
}

func newSiteBin(t *testing.T, siteID uuid.UUID) *inventory.Bin {
	t.Helper()
	bin, err := inventory.NewBin(siteID, "Cold Store", "")
	require.NoError(t, err)
	return bin
}

func newStockedBin(t *testing.T, siteID, binID, itemID uuid.UUID, quantity decimal.Decimal) *inventory.BinStock {
	t.Helper()
	stock, err := inventory.NewBinStock(siteID, binID, itemID)
	require.NoError(t, err)
	require.NoError(t, stock.Increase(quantity))
	return stock
}

func newDispatchLog(t *testing.T, siteID uuid.UUID) *dispatch.DispatchLog {
	t.Helper()
	log, err := dispatch.NewDispatchLog("DL-2026-03-14-001", siteID, time.Now(), "Spring Gala", 120, uuid.New())
	require.NoError(t, err)
	return log
}

func assertDomainError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestDispatchService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	siteID := uuid.New()

	t.Run("creates a dispatch with a daily number and snapshot prices", func(t *testing.T) {
		svc, m := newDispatchService(t)
		item := newSoupItem(t)
		bin := newSiteBin(t, siteID)
		day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

		m.dispatches.On("LastNumber", ctx, "DL-2026-03-14-").Return("DL-2026-03-14-041", nil)
		m.dispatches.On("ExistsByNumber", ctx, "DL-2026-03-14-042").Return(false, nil)
		m.items.On("FindByID", ctx, item.ID).Return(item, nil)
		m.bins.On("FindByID", ctx, bin.ID).Return(bin, nil)
		m.dispatches.On("Save", ctx, mock.AnythingOfType("*dispatch.DispatchLog")).Return(nil)

		resp, err := svc.Create(ctx, actorID, CreateDispatchRequest{
			SiteID:       siteID,
			DispatchDate: day,
			EventName:    "Spring Gala",
			PeopleFed:    100,
			Lines: []DispatchLineInput{
				{StockItemID: item.ID, BinID: bin.ID, Quantity: decimal.NewFromInt(40)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "DL-2026-03-14-042", resp.Number)
		assert.Equal(t, dispatch.EvidenceStatusPending, resp.EvidenceStatus)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Tomato Soup", resp.Lines[0].ItemName)
		assert.True(t, resp.Lines[0].UnitPrice.Equal(decimal.NewFromFloat(3.50)))
		assert.True(t, resp.GrandTotal.Equal(decimal.NewFromFloat(140)))
		assert.True(t, resp.CostPerPerson.Equal(decimal.NewFromFloat(1.40)))
		assert.Equal(t, &actorID, resp.DispatchedBy)
		m.dispatches.AssertExpectations(t)
	})

	t.Run("rejects a bin from another site", func(t *testing.T) {
		svc, m := newDispatchService(t)
		item := newSoupItem(t)
		foreignBin := newSiteBin(t, uuid.New())

		m.dispatches.On("LastNumber", ctx, mock.AnythingOfType("string")).Return("", nil)
		m.dispatches.On("ExistsByNumber", ctx, mock.AnythingOfType("string")).Return(false, nil)
		m.items.On("FindByID", ctx, item.ID).Return(item, nil)
		m.bins.On("FindByID", ctx, foreignBin.ID).Return(foreignBin, nil)

		_, err := svc.Create(ctx, actorID, CreateDispatchRequest{
			SiteID: siteID,
			Lines: []DispatchLineInput{
				{StockItemID: item.ID, BinID: foreignBin.ID, Quantity: decimal.NewFromInt(5)},
			},
		})

		assertDomainError(t, err, "VALIDATION_FAILED")
		m.dispatches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative people fed", func(t *testing.T) {
		svc, m := newDispatchService(t)

		m.dispatches.On("LastNumber", ctx, mock.AnythingOfType("string")).Return("", nil)
		m.dispatches.On("ExistsByNumber", ctx, mock.AnythingOfType("string")).Return(false, nil)

		_, err := svc.Create(ctx, actorID, CreateDispatchRequest{SiteID: siteID, PeopleFed: -3})

		assertDomainError(t, err, "VALIDATION_FAILED")
	})
}

func TestDispatchService_Update(t *testing.T) {
	ctx := context.Background()
	siteID := uuid.New()

	t.Run("updates headcount and recalculates cost per person", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		_, err := log.AddLine(uuid.New(), "Tomato Soup", uuid.New(), decimal.NewFromInt(40), decimal.NewFromFloat(3.50))
		require.NoError(t, err)

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.dispatches.On("Save", ctx, log).Return(nil)

		peopleFed := 70
		resp, err := svc.Update(ctx, log.ID, UpdateDispatchRequest{PeopleFed: &peopleFed})

		require.NoError(t, err)
		assert.Equal(t, 70, resp.PeopleFed)
		assert.True(t, resp.CostPerPerson.Equal(decimal.NewFromFloat(2)))
	})

	t.Run("a locked dispatch rejects edits", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		_, err := log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, uuid.New())
		require.NoError(t, err)
		require.NoError(t, log.CompleteEvidence(uuid.New()))

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)

		notes := "late edit"
		_, err = svc.Update(ctx, log.ID, UpdateDispatchRequest{Notes: &notes})

		assertDomainError(t, err, "PRECONDITION_FAILED")
	})
}

func TestDispatchService_AttachEvidence(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	siteID := uuid.New()

	t.Run("stores the file and moves status to partial", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.storage.On("Put", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything, int64(2048)).Return(nil)
		m.dispatches.On("Save", ctx, log).Return(nil)

		resp, err := svc.AttachEvidence(ctx, log.ID, actorID, EvidenceUpload{
			FileName:    "delivery note.jpg",
			ContentType: "image/jpeg",
			SizeBytes:   2048,
			Body:        bytes.NewReader([]byte("jpeg-bytes")),
		})

		require.NoError(t, err)
		assert.Equal(t, dispatch.EvidenceStatusPartial, resp.EvidenceStatus)
		require.Len(t, resp.Evidence, 1)
		assert.Equal(t, "delivery note.jpg", resp.Evidence[0].FileName)
		assert.Contains(t, resp.Evidence[0].FileKey, "dispatches/"+log.ID.String()+"/")
		assert.Contains(t, resp.Evidence[0].FileKey, "delivery_note.jpg")
		assert.Equal(t, &actorID, resp.Evidence[0].UploadedBy)
		m.storage.AssertExpectations(t)
	})

	t.Run("does not record evidence when the upload fails", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.storage.On("Put", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything, int64(2048)).
			Return(assert.AnError)

		_, err := svc.AttachEvidence(ctx, log.ID, actorID, EvidenceUpload{
			FileName:    "receipt.jpg",
			ContentType: "image/jpeg",
			SizeBytes:   2048,
			Body:        bytes.NewReader([]byte("jpeg-bytes")),
		})

		assertDomainError(t, err, "UPSTREAM_FAILURE")
		assert.Empty(t, log.Evidence)
		m.dispatches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects uploads once evidence is complete", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		_, err := log.AttachEvidence("dispatches/x/first.jpg", "first.jpg", "image/jpeg", 512, actorID)
		require.NoError(t, err)
		require.NoError(t, log.CompleteEvidence(actorID))

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)

		_, err = svc.AttachEvidence(ctx, log.ID, actorID, EvidenceUpload{
			FileName: "late.jpg",
			Body:     bytes.NewReader(nil),
		})

		assertDomainError(t, err, "PRECONDITION_FAILED")
		m.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDispatchService_CompleteEvidence(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	siteID := uuid.New()

	t.Run("locks the dispatch and deducts source bin stock", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		binID := uuid.New()
		itemID := uuid.New()
		_, err := log.AddLine(itemID, "Tomato Soup", binID, decimal.NewFromInt(40), decimal.NewFromFloat(3.50))
		require.NoError(t, err)
		_, err = log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, actorID)
		require.NoError(t, err)

		stock := newStockedBin(t, siteID, binID, itemID, decimal.NewFromInt(55))

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.binStock.On("FindByBinAndItem", ctx, binID, itemID).Return(stock, nil)
		m.binStock.On("Save", ctx, stock).Return(nil)
		m.dispatches.On("Save", ctx, log).Return(nil)

		resp, err := svc.CompleteEvidence(ctx, log.ID, actorID)

		require.NoError(t, err)
		assert.Equal(t, dispatch.EvidenceStatusComplete, resp.EvidenceStatus)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(15)))
	})

	t.Run("fails before any deduction when stock is short", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		binID := uuid.New()
		itemID := uuid.New()
		_, err := log.AddLine(itemID, "Tomato Soup", binID, decimal.NewFromInt(40), decimal.NewFromFloat(3.50))
		require.NoError(t, err)
		_, err = log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, actorID)
		require.NoError(t, err)

		stock := newStockedBin(t, siteID, binID, itemID, decimal.NewFromInt(10))

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.binStock.On("FindByBinAndItem", ctx, binID, itemID).Return(stock, nil)

		_, err = svc.CompleteEvidence(ctx, log.ID, actorID)

		assertDomainError(t, err, "PRECONDITION_FAILED")
		assert.Equal(t, dispatch.EvidenceStatusPartial, log.EvidenceStatus)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(10)))
		m.binStock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires at least one evidence file", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)

		_, err := svc.CompleteEvidence(ctx, log.ID, actorID)

		assertDomainError(t, err, "VALIDATION_FAILED")
	})
}

func TestDispatchService_Delete(t *testing.T) {
	ctx := context.Background()
	siteID := uuid.New()

	t.Run("deletes an unlocked dispatch and its stored files", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		_, err := log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, uuid.New())
		require.NoError(t, err)

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.dispatches.On("Delete", ctx, log.ID).Return(nil)
		m.storage.On("Delete", ctx, "dispatches/x/receipt.jpg").Return(nil)

		require.NoError(t, svc.Delete(ctx, log.ID))
		m.storage.AssertExpectations(t)
	})

	t.Run("refuses to delete a locked dispatch", func(t *testing.T) {
		svc, m := newDispatchService(t)
		log := newDispatchLog(t, siteID)
		_, err := log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, uuid.New())
		require.NoError(t, err)
		require.NoError(t, log.CompleteEvidence(uuid.New()))

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)

		err = svc.Delete(ctx, log.ID)

		assertDomainError(t, err, "PRECONDITION_FAILED")
		m.dispatches.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestDispatchService_EvidenceSummary(t *testing.T) {
	ctx := context.Background()

	svc, m := newDispatchService(t)
	m.dispatches.On("CountByEvidenceStatus", ctx).Return(map[dispatch.EvidenceStatus]int64{
		dispatch.EvidenceStatusPending:  3,
		dispatch.EvidenceStatusPartial:  1,
		dispatch.EvidenceStatusComplete: 8,
	}, nil)

	summary, err := svc.EvidenceSummary(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(12), summary.Total)
	assert.Equal(t, int64(3), summary.Counts[dispatch.EvidenceStatusPending])
}

func TestDispatchService_CompleteEvidence_Transactional(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	siteID := uuid.New()

	t.Run("deduction and save run in one unit of work", func(t *testing.T) {
		svc, m := newDispatchService(t)
		runner := &recordingTxRunner{}
		svc.SetTxRunner(runner)

		log := newDispatchLog(t, siteID)
		binID := uuid.New()
		itemID := uuid.New()
		_, err := log.AddLine(itemID, "Lentil Stew", binID, decimal.NewFromInt(30), decimal.NewFromFloat(2.75))
		require.NoError(t, err)
		_, err = log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, actorID)
		require.NoError(t, err)

		stock := newStockedBin(t, siteID, binID, itemID, decimal.NewFromInt(50))

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.binStock.On("FindByBinAndItem", ctx, binID, itemID).Return(stock, nil)
		m.binStock.On("Save", ctx, stock).Return(nil)
		m.dispatches.On("Save", ctx, log).Return(nil)

		_, err = svc.CompleteEvidence(ctx, log.ID, actorID)
		require.NoError(t, err)

		assert.Equal(t, 1, runner.calls)
		assert.NoError(t, runner.err)
	})

	t.Run("a failed deduction surfaces from the unit of work so nothing commits", func(t *testing.T) {
		svc, m := newDispatchService(t)
		runner := &recordingTxRunner{}
		svc.SetTxRunner(runner)

		log := newDispatchLog(t, siteID)
		binID := uuid.New()
		itemID := uuid.New()
		_, err := log.AddLine(itemID, "Lentil Stew", binID, decimal.NewFromInt(30), decimal.NewFromFloat(2.75))
		require.NoError(t, err)
		_, err = log.AttachEvidence("dispatches/x/receipt.jpg", "receipt.jpg", "image/jpeg", 1024, actorID)
		require.NoError(t, err)

		stock := newStockedBin(t, siteID, binID, itemID, decimal.NewFromInt(50))
		saveErr := shared.NewDomainError("UPSTREAM_FAILURE", "write failed")

		m.dispatches.On("FindByID", ctx, log.ID).Return(log, nil)
		m.binStock.On("FindByBinAndItem", ctx, binID, itemID).Return(stock, nil)
		m.binStock.On("Save", ctx, stock).Return(saveErr)

		_, err = svc.CompleteEvidence(ctx, log.ID, actorID)
		require.Error(t, err)

		assert.Equal(t, 1, runner.calls)
		assert.Error(t, runner.err)
		m.dispatches.AssertNotCalled(t, "Save", ctx, log)
	})
}
