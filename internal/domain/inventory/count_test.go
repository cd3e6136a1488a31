package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/shared"
)

func newTestCount(t *testing.T) *BinCount {
	t.Helper()
	count, err := NewBinCount("CNT-00001", uuid.New(), uuid.New(), time.Now(), uuid.New())
	require.NoError(t, err)
	return count
}

func TestNewBinCount(t *testing.T) {
	count := newTestCount(t)
	assert.Equal(t, docflow.StatusDraft, count.Status)
	assert.False(t, count.CountDate.IsZero())

	_, err := NewBinCount("", uuid.New(), uuid.New(), time.Now(), uuid.New())
	assert.Error(t, err)

	_, err = NewBinCount("CNT-00002", uuid.New(), uuid.Nil, time.Now(), uuid.New())
	assert.Error(t, err)
}

func TestBinCount_LinesAndVariance(t *testing.T) {
	count := newTestCount(t)
	itemID := uuid.New()

	line, err := count.AddLine(itemID, "Rice 10kg", decimal.NewFromInt(12), decimal.NewFromInt(10), "")
	require.NoError(t, err)
	assert.True(t, line.Variance().Equal(decimal.NewFromInt(-2)))
	assert.True(t, line.HasVariance())

	// Duplicate item rejected
	_, err = count.AddLine(itemID, "Rice 10kg", decimal.NewFromInt(12), decimal.NewFromInt(11), "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

	// Exact match has no variance
	_, err = count.AddLine(uuid.New(), "Salt 1kg", decimal.NewFromInt(5), decimal.NewFromInt(5), "")
	require.NoError(t, err)

	assert.Len(t, count.VarianceLines(), 1)

	// Update the counted quantity
	require.NoError(t, count.UpdateLineCount(line.ID, decimal.NewFromInt(12), "recount"))
	assert.Empty(t, count.VarianceLines())
}

func TestBinCount_NegativeCountRejected(t *testing.T) {
	count := newTestCount(t)

	_, err := count.AddLine(uuid.New(), "Rice 10kg", decimal.NewFromInt(1), decimal.NewFromInt(-1), "")
	assert.Error(t, err)
}

func TestBinCount_FullChain(t *testing.T) {
	count := newTestCount(t)
	_, err := count.AddLine(uuid.New(), "Rice 10kg", decimal.NewFromInt(12), decimal.NewFromInt(10), "")
	require.NoError(t, err)
	actor := uuid.New()

	require.NoError(t, count.Submit(actor))
	assert.Equal(t, docflow.StatusPendingApproval, count.Status)

	require.NoError(t, count.Approve(actor))
	require.NoError(t, count.Complete(actor))
	assert.True(t, count.IsTerminal())

	// Locked after completion
	_, err = count.AddLine(uuid.New(), "Salt 1kg", decimal.NewFromInt(1), decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestBinCount_RejectKeepsLines(t *testing.T) {
	count := newTestCount(t)
	_, err := count.AddLine(uuid.New(), "Rice 10kg", decimal.NewFromInt(12), decimal.NewFromInt(10), "")
	require.NoError(t, err)
	actor := uuid.New()

	require.NoError(t, count.Submit(actor))
	require.NoError(t, count.Reject(actor, "recount required"))

	assert.Equal(t, docflow.StatusRejected, count.Status)
	assert.Len(t, count.Lines, 1)
	assert.Equal(t, "recount required", count.RejectionReason)
}
