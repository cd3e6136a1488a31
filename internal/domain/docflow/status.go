package docflow

import (
	"fmt"

	"github.com/caterflow/backend/internal/domain/shared"
)

// DocumentType identifies a numbered workflow document
type DocumentType string

const (
	DocTypePurchaseOrder    DocumentType = "purchase_order"
	DocTypeDispatchLog      DocumentType = "dispatch_log"
	DocTypeInternalTransfer DocumentType = "internal_transfer"
	DocTypeStockAdjustment  DocumentType = "stock_adjustment"
	DocTypeBinCount         DocumentType = "bin_count"
)

// Status represents a workflow document status
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusProcessed       Status = "processed"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusRejected        Status = "rejected"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for statuses after which a document is read-only
func (s Status) IsTerminal() bool {
	switch s {
	case StatusProcessed, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// rule describes what is allowed while a document sits in a given status
type rule struct {
	next      []Status
	editable  bool
	deletable bool
}

// Every numbered document shares the same chain shape; only the terminal
// name differs (processed for purchase orders, completed elsewhere).
// DispatchLog is absent on purpose: dispatches are guarded by their
// evidence status, not a draft/approval chain.
var machines = map[DocumentType]map[Status]rule{
	DocTypePurchaseOrder: {
		StatusDraft:           {next: []Status{StatusPendingApproval, StatusCancelled}, editable: true, deletable: true},
		StatusPendingApproval: {next: []Status{StatusApproved, StatusRejected, StatusCancelled}, editable: true},
		StatusApproved:        {next: []Status{StatusProcessed}},
	},
	DocTypeInternalTransfer: {
		StatusDraft:           {next: []Status{StatusPendingApproval, StatusCancelled}, editable: true, deletable: true},
		StatusPendingApproval: {next: []Status{StatusApproved, StatusRejected, StatusCancelled}, editable: true},
		StatusApproved:        {next: []Status{StatusCompleted}},
	},
	DocTypeStockAdjustment: {
		StatusDraft:           {next: []Status{StatusPendingApproval, StatusCancelled}, editable: true, deletable: true},
		StatusPendingApproval: {next: []Status{StatusApproved, StatusRejected, StatusCancelled}, editable: true},
		StatusApproved:        {next: []Status{StatusCompleted}},
	},
	DocTypeBinCount: {
		StatusDraft:           {next: []Status{StatusPendingApproval, StatusCancelled}, editable: true, deletable: true},
		StatusPendingApproval: {next: []Status{StatusApproved, StatusRejected, StatusCancelled}, editable: true},
		StatusApproved:        {next: []Status{StatusCompleted}},
	},
}

// TerminalStatus returns the success-terminal status for a document type
func TerminalStatus(docType DocumentType) Status {
	if docType == DocTypePurchaseOrder {
		return StatusProcessed
	}
	return StatusCompleted
}

// CanTransition reports whether a document of the given type may move from
// current to requested. It is a pure decision function; stamping and
// side effects happen in the aggregates after a positive decision.
func CanTransition(docType DocumentType, current, requested Status) error {
	machine, ok := machines[docType]
	if !ok {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("document type %s has no status transitions", docType))
	}
	r, ok := machine[current]
	if !ok {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("cannot change status of a %s document", current))
	}
	for _, next := range r.next {
		if next == requested {
			return nil
		}
	}
	return shared.NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("cannot move from %s to %s", current, requested))
}

// CanEdit reports whether field mutation is allowed in the current status
func CanEdit(docType DocumentType, current Status) error {
	machine, ok := machines[docType]
	if !ok {
		return shared.ErrPreconditionFailed
	}
	if r, ok := machine[current]; ok && r.editable {
		return nil
	}
	return shared.NewDomainError("PRECONDITION_FAILED",
		fmt.Sprintf("cannot edit a document in %s status", current))
}

// CanDelete reports whether deletion is allowed in the current status
func CanDelete(docType DocumentType, current Status) error {
	machine, ok := machines[docType]
	if !ok {
		return shared.ErrPreconditionFailed
	}
	if r, ok := machine[current]; ok && r.deletable {
		return nil
	}
	return shared.NewDomainError("PRECONDITION_FAILED",
		fmt.Sprintf("cannot delete a document in %s status", current))
}
