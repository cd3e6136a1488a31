package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InternalTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InternalTransfer), args.Error(1)
}

func (m *MockTransferRepository) FindByNumber(ctx context.Context, number string) (*inventory.InternalTransfer, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InternalTransfer), args.Error(1)
}

func (m *MockTransferRepository) FindAll(ctx context.Context, filter inventory.TransferFilter) (*shared.Paginated[*inventory.InternalTransfer], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.InternalTransfer]), args.Error(1)
}

func (m *MockTransferRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockTransferRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferRepository) Save(ctx context.Context, transfer *inventory.InternalTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransferRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[docflow.Status]int64), args.Error(1)
}

type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindByNumber(ctx context.Context, number string) (*inventory.StockAdjustment, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindAll(ctx context.Context, filter inventory.AdjustmentFilter) (*shared.Paginated[*inventory.StockAdjustment], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.StockAdjustment]), args.Error(1)
}

func (m *MockAdjustmentRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockAdjustmentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[docflow.Status]int64), args.Error(1)
}

type MockCountRepository struct {
	mock.Mock
}

func (m *MockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BinCount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BinCount), args.Error(1)
}

func (m *MockCountRepository) FindByNumber(ctx context.Context, number string) (*inventory.BinCount, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BinCount), args.Error(1)
}

func (m *MockCountRepository) FindAll(ctx context.Context, filter inventory.CountFilter) (*shared.Paginated[*inventory.BinCount], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.BinCount]), args.Error(1)
}

func (m *MockCountRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockCountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockCountRepository) Save(ctx context.Context, count *inventory.BinCount) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockCountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCountRepository) CountByStatus(ctx context.Context) (map[docflow.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[docflow.Status]int64), args.Error(1)
}

type MockBinRepository struct {
	mock.Mock
}

func (m *MockBinRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Bin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Bin), args.Error(1)
}

func (m *MockBinRepository) FindBySite(ctx context.Context, siteID uuid.UUID) ([]*inventory.Bin, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Bin), args.Error(1)
}

func (m *MockBinRepository) FindAll(ctx context.Context, filter inventory.BinFilter) (*shared.Paginated[*inventory.Bin], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.Bin]), args.Error(1)
}

func (m *MockBinRepository) ExistsByName(ctx context.Context, siteID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, siteID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBinRepository) Save(ctx context.Context, bin *inventory.Bin) error {
	args := m.Called(ctx, bin)
	return args.Error(0)
}

func (m *MockBinRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBinStockRepository struct {
	mock.Mock
}

func (m *MockBinStockRepository) FindByBinAndItem(ctx context.Context, binID, stockItemID uuid.UUID) (*inventory.BinStock, error) {
	args := m.Called(ctx, binID, stockItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BinStock), args.Error(1)
}

func (m *MockBinStockRepository) FindByBin(ctx context.Context, binID uuid.UUID) ([]*inventory.BinStock, error) {
	args := m.Called(ctx, binID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.BinStock), args.Error(1)
}

func (m *MockBinStockRepository) FindByItem(ctx context.Context, stockItemID uuid.UUID) ([]*inventory.BinStock, error) {
	args := m.Called(ctx, stockItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.BinStock), args.Error(1)
}

func (m *MockBinStockRepository) TotalByItem(ctx context.Context) ([]inventory.ItemStockLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ItemStockLevel), args.Error(1)
}

func (m *MockBinStockRepository) TotalForItem(ctx context.Context, stockItemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, stockItemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBinStockRepository) Save(ctx context.Context, stock *inventory.BinStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.StockItem, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.StockItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.StockItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindWithReorderPolicy(ctx context.Context) ([]catalog.StockItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *catalog.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockItemRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockItemRepository) ReplaceSuppliers(ctx context.Context, itemID uuid.UUID, supplierIDs []uuid.UUID) error {
	args := m.Called(ctx, itemID, supplierIDs)
	return args.Error(0)
}

type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Site), args.Error(1)
}

func (m *MockSiteRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*partner.Site, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Site), args.Error(1)
}

func (m *MockSiteRepository) FindAll(ctx context.Context, filter partner.SiteFilter) (*shared.Paginated[*partner.Site], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*partner.Site]), args.Error(1)
}

func (m *MockSiteRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSiteRepository) Save(ctx context.Context, site *partner.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingTxRunner runs the unit of work inline and remembers how it went
type recordingTxRunner struct {
	calls int
	err   error
}

func (r *recordingTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	r.err = fn(ctx)
	return r.err
}
