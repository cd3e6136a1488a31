package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBin(t *testing.T) {
	siteID := uuid.New()

	bin, err := NewBin(siteID, "Walk-in Fridge", "Cold storage")
	require.NoError(t, err)
	assert.Equal(t, siteID, bin.SiteID)
	assert.Equal(t, "Walk-in Fridge", bin.Name)
	assert.True(t, bin.Active)

	_, err = NewBin(uuid.Nil, "Walk-in Fridge", "")
	assert.Error(t, err)

	_, err = NewBin(siteID, "  ", "")
	assert.Error(t, err)
}

func TestBinStock_IncreaseDecrease(t *testing.T) {
	stock, err := NewBinStock(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, stock.IsEmpty())

	err = stock.Increase(decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(10)))

	err = stock.Decrease(decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(6)))

	// Cannot go negative
	err = stock.Decrease(decimal.NewFromInt(7))
	require.Error(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(6)))

	// Non-positive amounts rejected
	assert.Error(t, stock.Increase(decimal.Zero))
	assert.Error(t, stock.Decrease(decimal.NewFromInt(-1)))
}

func TestBinStock_SetQuantity(t *testing.T) {
	stock, err := NewBinStock(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	err = stock.SetQuantity(decimal.NewFromFloat(2.5))
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromFloat(2.5)))

	err = stock.SetQuantity(decimal.NewFromInt(-1))
	assert.Error(t, err)
}
