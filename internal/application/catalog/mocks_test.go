package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/caterflow/backend/internal/domain/catalog"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

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

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*partner.Supplier, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter partner.SupplierFilter) (*shared.Paginated[*partner.Supplier], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*partner.Supplier]), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
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
