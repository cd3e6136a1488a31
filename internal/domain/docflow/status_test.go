package docflow

import (
	"testing"

	"github.com/caterflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusDraft, false},
		{StatusPendingApproval, false},
		{StatusApproved, false},
		{StatusProcessed, true},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestCanTransition_LegalChain(t *testing.T) {
	for _, docType := range []DocumentType{DocTypeInternalTransfer, DocTypeStockAdjustment, DocTypeBinCount} {
		t.Run(string(docType), func(t *testing.T) {
			assert.NoError(t, CanTransition(docType, StatusDraft, StatusPendingApproval))
			assert.NoError(t, CanTransition(docType, StatusPendingApproval, StatusApproved))
			assert.NoError(t, CanTransition(docType, StatusApproved, StatusCompleted))
		})
	}

	// Purchase orders terminate in processed instead of completed
	assert.NoError(t, CanTransition(DocTypePurchaseOrder, StatusDraft, StatusPendingApproval))
	assert.NoError(t, CanTransition(DocTypePurchaseOrder, StatusPendingApproval, StatusApproved))
	assert.NoError(t, CanTransition(DocTypePurchaseOrder, StatusApproved, StatusProcessed))
	assert.Error(t, CanTransition(DocTypePurchaseOrder, StatusApproved, StatusCompleted))
}

func TestCanTransition_SkippingApprovalDenied(t *testing.T) {
	err := CanTransition(DocTypeInternalTransfer, StatusDraft, StatusCompleted)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)

	assert.Error(t, CanTransition(DocTypeInternalTransfer, StatusPendingApproval, StatusCompleted))
	assert.Error(t, CanTransition(DocTypePurchaseOrder, StatusDraft, StatusProcessed))
}

func TestCanTransition_TerminalStatesReadOnly(t *testing.T) {
	terminals := []Status{StatusCompleted, StatusProcessed, StatusCancelled, StatusRejected}
	targets := []Status{StatusDraft, StatusPendingApproval, StatusApproved, StatusCompleted}

	for _, from := range terminals {
		for _, to := range targets {
			assert.Error(t, CanTransition(DocTypeInternalTransfer, from, to),
				"expected %s -> %s to be denied", from, to)
		}
	}
}

func TestCanTransition_CancelAndRejectReachability(t *testing.T) {
	assert.NoError(t, CanTransition(DocTypePurchaseOrder, StatusDraft, StatusCancelled))
	assert.NoError(t, CanTransition(DocTypePurchaseOrder, StatusPendingApproval, StatusCancelled))
	assert.NoError(t, CanTransition(DocTypePurchaseOrder, StatusPendingApproval, StatusRejected))

	// Rejection requires a pending approval; approved and terminal states can't be rejected
	assert.Error(t, CanTransition(DocTypePurchaseOrder, StatusDraft, StatusRejected))
	assert.Error(t, CanTransition(DocTypePurchaseOrder, StatusApproved, StatusCancelled))
	assert.Error(t, CanTransition(DocTypePurchaseOrder, StatusApproved, StatusRejected))
}

func TestCanTransition_DispatchLogHasNoChain(t *testing.T) {
	// Dispatch logs are guarded by evidence status, not a draft chain
	err := CanTransition(DocTypeDispatchLog, StatusCompleted, StatusDraft)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
}

func TestCanEdit(t *testing.T) {
	assert.NoError(t, CanEdit(DocTypeInternalTransfer, StatusDraft))
	assert.NoError(t, CanEdit(DocTypeInternalTransfer, StatusPendingApproval))

	for _, locked := range []Status{StatusApproved, StatusCompleted, StatusCancelled, StatusRejected} {
		err := CanEdit(DocTypeInternalTransfer, locked)
		require.Error(t, err, "expected edit in %s to be denied", locked)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRECONDITION_FAILED", domainErr.Code)
	}
}

func TestCanDelete_DraftOnly(t *testing.T) {
	assert.NoError(t, CanDelete(DocTypePurchaseOrder, StatusDraft))

	for _, locked := range []Status{StatusPendingApproval, StatusApproved, StatusProcessed, StatusCancelled} {
		err := CanDelete(DocTypePurchaseOrder, locked)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRECONDITION_FAILED", domainErr.Code)
	}
}

func TestTerminalStatus(t *testing.T) {
	assert.Equal(t, StatusProcessed, TerminalStatus(DocTypePurchaseOrder))
	assert.Equal(t, StatusCompleted, TerminalStatus(DocTypeInternalTransfer))
	assert.Equal(t, StatusCompleted, TerminalStatus(DocTypeBinCount))
}
