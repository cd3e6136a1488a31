package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/domain/shared"
)

// stockMover applies document completion side effects to bin stock.
// Bin stock rows are created lazily on the first inbound movement;
// outbound movement against a missing row fails as insufficient stock.
type stockMover struct {
	binStockRepo inventory.BinStockRepository
}

func (m stockMover) increase(ctx context.Context, siteID, binID, itemID uuid.UUID, quantity decimal.Decimal) error {
	stock, err := m.load(ctx, siteID, binID, itemID)
	if err != nil {
		return err
	}
	if err := stock.Increase(quantity); err != nil {
		return err
	}
	return m.binStockRepo.Save(ctx, stock)
}

func (m stockMover) decrease(ctx context.Context, binID, itemID uuid.UUID, quantity decimal.Decimal) error {
	stock, err := m.binStockRepo.FindByBinAndItem(ctx, binID, itemID)
	if err != nil {
		if isNotFound(err) {
			return shared.NewDomainError("PRECONDITION_FAILED", "no stock of the item is held in the bin")
		}
		return err
	}
	if err := stock.Decrease(quantity); err != nil {
		return err
	}
	return m.binStockRepo.Save(ctx, stock)
}

func (m stockMover) set(ctx context.Context, siteID, binID, itemID uuid.UUID, quantity decimal.Decimal) error {
	stock, err := m.load(ctx, siteID, binID, itemID)
	if err != nil {
		return err
	}
	if err := stock.SetQuantity(quantity); err != nil {
		return err
	}
	return m.binStockRepo.Save(ctx, stock)
}

// onHand returns the current quantity, zero when no row exists yet
func (m stockMover) onHand(ctx context.Context, binID, itemID uuid.UUID) (decimal.Decimal, error) {
	stock, err := m.binStockRepo.FindByBinAndItem(ctx, binID, itemID)
	if err != nil {
		if isNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return stock.Quantity, nil
}

func (m stockMover) load(ctx context.Context, siteID, binID, itemID uuid.UUID) (*inventory.BinStock, error) {
	stock, err := m.binStockRepo.FindByBinAndItem(ctx, binID, itemID)
	if err == nil {
		return stock, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return inventory.NewBinStock(siteID, binID, itemID)
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}
