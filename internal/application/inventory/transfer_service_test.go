package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

type transferServiceMocks struct {
	transfers *MockTransferRepository
	bins      *MockBinRepository
	binStock  *MockBinStockRepository
	items     *MockStockItemRepository
}

func newTransferService(t *testing.T) (*TransferService, transferServiceMocks) {
	t.Helper()
	m := transferServiceMocks{
		transfers: new(MockTransferRepository),
		bins:      new(MockBinRepository),
		binStock:  new(MockBinStockRepository),
		items:     new(MockStockItemRepository),
	}
	svc := NewTransferService(m.transfers, m.bins, m.binStock, m.items)
	return svc, m
}

func newTestItem(t *testing.T, sku, name string) *catalog.StockItem {
	t.Helper()
	item, err := catalog.NewStockItem(sku, name, "kg", decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	return item
}

func newTestBin(t *testing.T, siteID uuid.UUID, name string) *inventory.Bin {
	t.Helper()
	bin, err := inventory.NewBin(siteID, name, "")
	require.NoError(t, err)
	return bin
}

func approvedTransfer(t *testing.T, itemID uuid.UUID, itemName string, fromSite, toSite uuid.UUID, fromBin, toBin uuid.UUID, quantity string) (*inventory.InternalTransfer, uuid.UUID) {
	t.Helper()
	actor := uuid.New()
	transfer, err := inventory.NewInternalTransfer("TRF-00007", fromSite, toSite, actor)
	require.NoError(t, err)
	_, err = transfer.AddLine(itemID, itemName, fromBin, toBin, decimal.RequireFromString(quantity))
	require.NoError(t, err)
	require.NoError(t, transfer.Submit(actor))
	require.NoError(t, transfer.Approve(actor))
	return transfer, actor
}

func stockFor(t *testing.T, siteID, binID, itemID uuid.UUID, quantity string) *inventory.BinStock {
	t.Helper()
	stock, err := inventory.NewBinStock(siteID, binID, itemID)
	require.NoError(t, err)
	require.NoError(t, stock.SetQuantity(decimal.RequireFromString(quantity)))
	return stock
}

func TestTransferService_Create(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("validates bins against the transfer route", func(t *testing.T) {
		svc, m := newTransferService(t)

		fromSite := uuid.New()
		toSite := uuid.New()
		item := newTestItem(t, "TOM-01", "Tomatoes")
		strayBin := newTestBin(t, uuid.New(), "Dry Store")

		m.transfers.On("LastNumber", mock.Anything, "TRF-").Return("", nil)
		m.transfers.On("ExistsByNumber", mock.Anything, "TRF-00001").Return(false, nil)
		m.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.bins.On("FindByID", mock.Anything, strayBin.ID).Return(strayBin, nil)

		_, err := svc.Create(ctx, actor, CreateTransferRequest{
			FromSiteID: fromSite,
			ToSiteID:   toSite,
			Lines: []TransferLineInput{{
				StockItemID: item.ID,
				FromBinID:   strayBin.ID,
				ToBinID:     uuid.New(),
				Quantity:    decimal.RequireFromString("5"),
			}},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		m.transfers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates a draft with generated number and snapshot names", func(t *testing.T) {
		svc, m := newTransferService(t)

		fromSite := uuid.New()
		toSite := uuid.New()
		item := newTestItem(t, "TOM-01", "Tomatoes")
		fromBin := newTestBin(t, fromSite, "Cold Room")
		toBin := newTestBin(t, toSite, "Receiving")

		m.transfers.On("LastNumber", mock.Anything, "TRF-").Return("TRF-00009", nil)
		m.transfers.On("ExistsByNumber", mock.Anything, "TRF-00010").Return(false, nil)
		m.items.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.bins.On("FindByID", mock.Anything, fromBin.ID).Return(fromBin, nil)
		m.bins.On("FindByID", mock.Anything, toBin.ID).Return(toBin, nil)
		m.transfers.On("Save", mock.Anything, mock.AnythingOfType("*inventory.InternalTransfer")).Return(nil)

		resp, err := svc.Create(ctx, actor, CreateTransferRequest{
			FromSiteID: fromSite,
			ToSiteID:   toSite,
			Lines: []TransferLineInput{{
				StockItemID: item.ID,
				FromBinID:   fromBin.ID,
				ToBinID:     toBin.ID,
				Quantity:    decimal.RequireFromString("5"),
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, "TRF-00010", resp.Number)
		assert.Equal(t, docflow.StatusDraft, resp.Status)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Tomatoes", resp.Lines[0].ItemName)
	})
}

func TestTransferService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("moves stock from source bin to destination bin", func(t *testing.T) {
		svc, m := newTransferService(t)

		fromSite := uuid.New()
		toSite := uuid.New()
		item := newTestItem(t, "TOM-01", "Tomatoes")
		fromBin := newTestBin(t, fromSite, "Cold Room")
		toBin := newTestBin(t, toSite, "Receiving")

		transfer, actor := approvedTransfer(t, item.ID, item.Name, fromSite, toSite, fromBin.ID, toBin.ID, "8")

		source := stockFor(t, fromSite, fromBin.ID, item.ID, "10")
		notFound := shared.NewDomainError("NOT_FOUND", "bin stock not found")

		m.transfers.On("FindByID", mock.Anything, transfer.ID).Return(transfer, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, fromBin.ID, item.ID).Return(source, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, toBin.ID, item.ID).Return(nil, notFound)

		var destination *inventory.BinStock
		m.binStock.On("Save", mock.Anything, mock.AnythingOfType("*inventory.BinStock")).
			Run(func(args mock.Arguments) {
				stock := args.Get(1).(*inventory.BinStock)
				if stock.BinID == toBin.ID {
					destination = stock
				}
			}).
			Return(nil)
		m.transfers.On("Save", mock.Anything, transfer).Return(nil)

		resp, err := svc.Complete(ctx, transfer.ID, actor)
		require.NoError(t, err)

		assert.Equal(t, docflow.StatusCompleted, resp.Status)
		assert.True(t, source.Quantity.Equal(decimal.RequireFromString("2")))
		require.NotNil(t, destination)
		assert.Equal(t, toSite, destination.SiteID)
		assert.True(t, destination.Quantity.Equal(decimal.RequireFromString("8")))
	})

	t.Run("insufficient source stock fails before anything moves", func(t *testing.T) {
		svc, m := newTransferService(t)

		fromSite := uuid.New()
		toSite := uuid.New()
		item := newTestItem(t, "TOM-01", "Tomatoes")
		fromBin := newTestBin(t, fromSite, "Cold Room")
		toBin := newTestBin(t, toSite, "Receiving")

		transfer, actor := approvedTransfer(t, item.ID, item.Name, fromSite, toSite, fromBin.ID, toBin.ID, "8")
		source := stockFor(t, fromSite, fromBin.ID, item.ID, "3")

		m.transfers.On("FindByID", mock.Anything, transfer.ID).Return(transfer, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, fromBin.ID, item.ID).Return(source, nil)

		_, err := svc.Complete(ctx, transfer.ID, actor)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRECONDITION_FAILED", domainErr.Code)
		assert.True(t, source.Quantity.Equal(decimal.RequireFromString("3")), "source stock is untouched")
		m.binStock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Equal(t, docflow.StatusApproved, transfer.Status)
	})

	t.Run("completing an unapproved transfer is rejected", func(t *testing.T) {
		svc, m := newTransferService(t)

		actor := uuid.New()
		transfer, err := inventory.NewInternalTransfer("TRF-00007", uuid.New(), uuid.New(), actor)
		require.NoError(t, err)

		m.transfers.On("FindByID", mock.Anything, transfer.ID).Return(transfer, nil)

		_, err = svc.Complete(ctx, transfer.ID, actor)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestTransferService_Complete_Transactional(t *testing.T) {
	ctx := context.Background()

	t.Run("movement and save run in one unit of work", func(t *testing.T) {
		svc, m := newTransferService(t)
		runner := &recordingTxRunner{}
		svc.SetTxRunner(runner)

		fromSite := uuid.New()
		toSite := uuid.New()
		item := newTestItem(t, "RIC-01", "Rice")
		fromBin := newTestBin(t, fromSite, "Dry Store")
		toBin := newTestBin(t, toSite, "Receiving")

		transfer, actor := approvedTransfer(t, item.ID, item.Name, fromSite, toSite, fromBin.ID, toBin.ID, "5")
		source := stockFor(t, fromSite, fromBin.ID, item.ID, "20")
		notFound := shared.NewDomainError("NOT_FOUND", "bin stock not found")

		m.transfers.On("FindByID", mock.Anything, transfer.ID).Return(transfer, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, fromBin.ID, item.ID).Return(source, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, toBin.ID, item.ID).Return(nil, notFound)
		m.binStock.On("Save", mock.Anything, mock.AnythingOfType("*inventory.BinStock")).Return(nil)
		m.transfers.On("Save", mock.Anything, transfer).Return(nil)

		_, err := svc.Complete(ctx, transfer.ID, actor)
		require.NoError(t, err)

		assert.Equal(t, 1, runner.calls)
		assert.NoError(t, runner.err)
	})

	t.Run("a failing line surfaces from the unit of work so nothing commits", func(t *testing.T) {
		svc, m := newTransferService(t)
		runner := &recordingTxRunner{}
		svc.SetTxRunner(runner)

		fromSite := uuid.New()
		toSite := uuid.New()
		item := newTestItem(t, "RIC-01", "Rice")
		fromBin := newTestBin(t, fromSite, "Dry Store")
		toBin := newTestBin(t, toSite, "Receiving")

		transfer, actor := approvedTransfer(t, item.ID, item.Name, fromSite, toSite, fromBin.ID, toBin.ID, "5")
		source := stockFor(t, fromSite, fromBin.ID, item.ID, "20")
		notFound := shared.NewDomainError("NOT_FOUND", "bin stock not found")
		saveErr := shared.NewDomainError("UPSTREAM_FAILURE", "write failed")

		m.transfers.On("FindByID", mock.Anything, transfer.ID).Return(transfer, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, fromBin.ID, item.ID).Return(source, nil)
		m.binStock.On("FindByBinAndItem", mock.Anything, toBin.ID, item.ID).Return(nil, notFound)
		m.binStock.On("Save", mock.Anything, mock.AnythingOfType("*inventory.BinStock")).Return(saveErr)

		_, err := svc.Complete(ctx, transfer.ID, actor)
		require.Error(t, err)

		assert.Equal(t, 1, runner.calls)
		assert.Error(t, runner.err, "the failure propagates out of the unit of work")
		m.transfers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
