package dispatch

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/dispatch"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

type MockDispatchLogRepository struct {
	mock.Mock
}

func (m *MockDispatchLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*dispatch.DispatchLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.DispatchLog), args.Error(1)
}

func (m *MockDispatchLogRepository) FindByNumber(ctx context.Context, number string) (*dispatch.DispatchLog, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.DispatchLog), args.Error(1)
}

func (m *MockDispatchLogRepository) FindAll(ctx context.Context, filter dispatch.DispatchFilter) (*shared.Paginated[*dispatch.DispatchLog], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*dispatch.DispatchLog]), args.Error(1)
}

func (m *MockDispatchLogRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockDispatchLogRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchLogRepository) Save(ctx context.Context, log *dispatch.DispatchLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockDispatchLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDispatchLogRepository) CountByEvidenceStatus(ctx context.Context) (map[dispatch.EvidenceStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[dispatch.EvidenceStatus]int64), args.Error(1)
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

type MockEvidenceStorage struct {
	mock.Mock
}

func (m *MockEvidenceStorage) Put(ctx context.Context, key, contentType string, body io.Reader, sizeBytes int64) error {
	args := m.Called(ctx, key, contentType, body, sizeBytes)
	return args.Error(0)
}

func (m *MockEvidenceStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
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
