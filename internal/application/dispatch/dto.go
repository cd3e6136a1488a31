package dispatch

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/dispatch"
)

// CreateDispatchRequest records food leaving a site for an event
type CreateDispatchRequest struct {
	SiteID       uuid.UUID           `json:"site" binding:"required"`
	DispatchDate time.Time           `json:"dispatch_date" time_format:"2006-01-02"`
	EventName    string              `json:"event_name"`
	PeopleFed    int                 `json:"people_fed"`
	Notes        string              `json:"notes"`
	Lines        []DispatchLineInput `json:"items"`
}

// DispatchLineInput is one requested dispatch line. Name and price are
// snapshotted from the catalog, not taken from the payload.
type DispatchLineInput struct {
	StockItemID uuid.UUID       `json:"stock_item" binding:"required"`
	BinID       uuid.UUID       `json:"bin" binding:"required"`
	Quantity    decimal.Decimal `json:"dispatched_quantity" binding:"required"`
}

// UpdateDispatchRequest updates dispatch header fields
type UpdateDispatchRequest struct {
	EventName *string `json:"event_name"`
	PeopleFed *int    `json:"people_fed"`
	Notes     *string `json:"notes"`
}

// DispatchListFilter holds list query parameters for dispatches
type DispatchListFilter struct {
	Page           int                      `form:"page"`
	PageSize       int                      `form:"page_size"`
	OrderBy        string                   `form:"order_by"`
	OrderDir       string                   `form:"order_dir"`
	Search         string                   `form:"search"`
	SiteID         *uuid.UUID               `form:"site"`
	EvidenceStatus *dispatch.EvidenceStatus `form:"evidence_status"`
	DateFrom       *time.Time               `form:"date_from" time_format:"2006-01-02"`
	DateTo         *time.Time               `form:"date_to" time_format:"2006-01-02"`
}

// DispatchLineResponse is one dispatch line
type DispatchLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item"`
	ItemName    string          `json:"item_name"`
	BinID       uuid.UUID       `json:"bin"`
	Quantity    decimal.Decimal `json:"dispatched_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"total_cost"`
}

// EvidenceResponse is one uploaded proof-of-delivery file
type EvidenceResponse struct {
	ID          uuid.UUID  `json:"id"`
	FileKey     string     `json:"file_key"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type,omitempty"`
	SizeBytes   int64      `json:"size_bytes"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	UploadedAt  time.Time  `json:"uploaded_at"`
}

// DispatchResponse is the full dispatch representation
type DispatchResponse struct {
	ID             uuid.UUID               `json:"id"`
	Number         string                  `json:"dispatch_number"`
	SiteID         uuid.UUID               `json:"site"`
	DispatchDate   time.Time               `json:"dispatch_date"`
	EventName      string                  `json:"event_name,omitempty"`
	PeopleFed      int                     `json:"people_fed"`
	Lines          []DispatchLineResponse  `json:"items"`
	Evidence       []EvidenceResponse      `json:"evidence"`
	GrandTotal     decimal.Decimal         `json:"total_cost"`
	CostPerPerson  decimal.Decimal         `json:"cost_per_person"`
	EvidenceStatus dispatch.EvidenceStatus `json:"evidence_status"`
	Notes          string                  `json:"notes,omitempty"`
	DispatchedBy   *uuid.UUID              `json:"dispatched_by,omitempty"`
	Version        int                     `json:"version"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// EvidenceStatusSummary is the per-evidence-status dispatch count
type EvidenceStatusSummary struct {
	Counts map[dispatch.EvidenceStatus]int64 `json:"counts"`
	Total  int64                             `json:"total"`
}

// ToDispatchResponse converts a dispatch aggregate
func ToDispatchResponse(log *dispatch.DispatchLog) DispatchResponse {
	lines := make([]DispatchLineResponse, len(log.Lines))
	for i, l := range log.Lines {
		lines[i] = DispatchLineResponse{
			ID:          l.ID,
			StockItemID: l.StockItemID,
			ItemName:    l.ItemName,
			BinID:       l.BinID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}

	evidence := make([]EvidenceResponse, len(log.Evidence))
	for i, e := range log.Evidence {
		evidence[i] = EvidenceResponse{
			ID:          e.ID,
			FileKey:     e.FileKey,
			FileName:    e.FileName,
			ContentType: e.ContentType,
			SizeBytes:   e.SizeBytes,
			UploadedBy:  e.UploadedBy,
			UploadedAt:  e.UploadedAt,
		}
	}

	return DispatchResponse{
		ID:             log.ID,
		Number:         log.Number,
		SiteID:         log.SiteID,
		DispatchDate:   log.DispatchDate,
		EventName:      log.EventName,
		PeopleFed:      log.PeopleFed,
		Lines:          lines,
		Evidence:       evidence,
		GrandTotal:     log.GrandTotal,
		CostPerPerson:  log.CostPerPerson,
		EvidenceStatus: log.EvidenceStatus,
		Notes:          log.Notes,
		DispatchedBy:   log.CreatedBy,
		Version:        log.Version,
		CreatedAt:      log.CreatedAt,
		UpdatedAt:      log.UpdatedAt,
	}
}

// ToDispatchResponses converts a slice of dispatch aggregates
func ToDispatchResponses(logs []*dispatch.DispatchLog) []DispatchResponse {
	responses := make([]DispatchResponse, len(logs))
	for i, log := range logs {
		responses[i] = ToDispatchResponse(log)
	}
	return responses
}
