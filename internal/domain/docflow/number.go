package docflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caterflow/backend/internal/domain/shared"
)

// NumberGenerator produces the next human-readable sequence number for a
// document type. Implementations are expected to be safe against duplicate
// issuance (unique index plus re-check) rather than strictly gapless.
type NumberGenerator interface {
	Next(ctx context.Context, docType DocumentType, scopeDate time.Time) (string, error)
}

// Sequence describes the number format of one document type
type Sequence struct {
	Prefix string
	Width  int
	Daily  bool // daily sequences reset each calendar day and embed the date
}

var sequences = map[DocumentType]Sequence{
	DocTypePurchaseOrder:    {Prefix: "PO", Width: 5},
	DocTypeInternalTransfer: {Prefix: "TRF", Width: 5},
	DocTypeStockAdjustment:  {Prefix: "ADJ", Width: 5},
	DocTypeBinCount:         {Prefix: "CNT", Width: 5},
	DocTypeDispatchLog:      {Prefix: "DL", Width: 3, Daily: true},
}

// SequenceFor returns the number format for a document type
func SequenceFor(docType DocumentType) (Sequence, bool) {
	s, ok := sequences[docType]
	return s, ok
}

// ScopePrefix returns the full prefix a number of this sequence carries,
// e.g. "PO-" or "DL-2025-08-20-" for the given day.
func (s Sequence) ScopePrefix(day time.Time) string {
	if s.Daily {
		return fmt.Sprintf("%s-%s-", s.Prefix, day.Format("2006-01-02"))
	}
	return s.Prefix + "-"
}

// Format renders the number for ordinal n, e.g. Format(1) -> "PO-00001".
// Ordinals wider than the padding widen naturally.
func (s Sequence) Format(n int64, day time.Time) string {
	return fmt.Sprintf("%s%0*d", s.ScopePrefix(day), s.Width, n)
}

// ParseOrdinal extracts the trailing numeric segment of an existing number.
// Returns false when the number does not end in a parseable integer; the
// caller falls back to the sequence start in that case.
func (s Sequence) ParseOrdinal(number string) (int64, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextAfter returns the number following last within the same scope.
// An empty or unparsable last yields the sequence start value.
func (s Sequence) NextAfter(last string, day time.Time) string {
	var next int64 = 1
	if n, ok := s.ParseOrdinal(last); ok {
		next = n + 1
	}
	return s.Format(next, day)
}

// NumberStore is the slice of a document repository the generator reads.
// Every document repository satisfies it.
type NumberStore interface {
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

const numberIssueAttempts = 5

// NextNumber issues the next document number for docType scoped to day.
// The unique index on the number column is the real duplicate guard; the
// ExistsByNumber re-check only narrows the race window between concurrent
// creators. A store failure is returned as an error, never papered over
// with a fallback number.
func NextNumber(ctx context.Context, store NumberStore, docType DocumentType, day time.Time) (string, error) {
	seq, ok := SequenceFor(docType)
	if !ok {
		return "", shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("no number sequence defined for document type %q", docType))
	}

	last, err := store.LastNumber(ctx, seq.ScopePrefix(day))
	if err != nil {
		return "", shared.NewDomainError("UPSTREAM_FAILURE", "failed to read last document number: "+err.Error())
	}

	candidate := seq.NextAfter(last, day)
	for attempt := 0; attempt < numberIssueAttempts; attempt++ {
		taken, err := store.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", shared.NewDomainError("UPSTREAM_FAILURE", "failed to verify document number uniqueness: "+err.Error())
		}
		if !taken {
			return candidate, nil
		}
		candidate = seq.NextAfter(candidate, day)
	}
	return "", shared.NewDomainError("CONFLICT", fmt.Sprintf("could not issue a unique document number after %d attempts", numberIssueAttempts))
}
