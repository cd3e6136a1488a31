package docflow

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowStamps records who moved a document along its status chain and
// when. Actor IDs come from the authenticated session, never from the
// request payload. The struct is embedded in every workflow aggregate so
// the columns are uniform across document tables.
type WorkflowStamps struct {
	SubmittedAt     *time.Time `gorm:"index"`
	SubmittedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
	CancelledBy     *uuid.UUID `gorm:"type:uuid"`
	CancelReason    string     `gorm:"type:varchar(500)"`
	CompletedAt     *time.Time
	CompletedBy     *uuid.UUID `gorm:"type:uuid"`
}

// StampSubmitted records submission actor and time
func (w *WorkflowStamps) StampSubmitted(actor uuid.UUID) {
	now := time.Now()
	w.SubmittedAt = &now
	w.SubmittedBy = &actor
}

// StampApproved records approval actor and time
func (w *WorkflowStamps) StampApproved(actor uuid.UUID) {
	now := time.Now()
	w.ApprovedAt = &now
	w.ApprovedBy = &actor
}

// StampRejected records rejection actor, time, and reason
func (w *WorkflowStamps) StampRejected(actor uuid.UUID, reason string) {
	now := time.Now()
	w.RejectedAt = &now
	w.RejectedBy = &actor
	w.RejectionReason = reason
}

// StampCancelled records cancellation actor, time, and reason
func (w *WorkflowStamps) StampCancelled(actor uuid.UUID, reason string) {
	now := time.Now()
	w.CancelledAt = &now
	w.CancelledBy = &actor
	w.CancelReason = reason
}

// StampCompleted records completion actor and time
func (w *WorkflowStamps) StampCompleted(actor uuid.UUID) {
	now := time.Now()
	w.CompletedAt = &now
	w.CompletedBy = &actor
}
