// Package audit writes an append-only trail of document actions.
// Entries are written fire-and-forget; a failed write is logged and
// never propagated to the caller.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type actorKey struct{}

// WithActor returns a context carrying the acting user's ID. Audit
// entries written for work done under this context are attributed to
// that user.
func WithActor(ctx context.Context, actorID uuid.UUID) context.Context {
	if actorID == uuid.Nil {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the acting user's ID carried by the context,
// or nil when the work was not tied to an authenticated user.
func ActorFromContext(ctx context.Context) *uuid.UUID {
	if actorID, ok := ctx.Value(actorKey{}).(uuid.UUID); ok {
		return &actorID
	}
	return nil
}

// Entry is one recorded action
type Entry struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	Action       string     `gorm:"type:varchar(50);not null;index"`
	Description  string     `gorm:"type:varchar(500)"`
	DocumentType string     `gorm:"type:varchar(50);index"`
	DocumentID   *uuid.UUID `gorm:"type:uuid;index"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index"`
	Success      bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_log"
}

// Sink receives audit entries
type Sink interface {
	Record(ctx context.Context, entry Entry)
}

// Recorder persists audit entries to the database asynchronously
type Recorder struct {
	db      *gorm.DB
	logger  *zap.Logger
	timeout time.Duration
}

// NewRecorder creates a Recorder writing to the given database
func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		db:      db,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Record writes the entry in a background goroutine. The caller's context
// is not reused so an aborted request still gets its trail entry.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.db.WithContext(writeCtx).Create(&entry).Error; err != nil {
			r.logger.Warn("failed to write audit entry",
				zap.String("action", entry.Action),
				zap.String("document_type", entry.DocumentType),
				zap.Error(err))
		}
	}()
}

// Ensure Recorder implements Sink
var _ Sink = (*Recorder)(nil)

// NopSink discards all entries. Useful in tests.
type NopSink struct{}

// Record discards the entry
func (NopSink) Record(ctx context.Context, entry Entry) {}

// Ensure NopSink implements Sink
var _ Sink = NopSink{}
