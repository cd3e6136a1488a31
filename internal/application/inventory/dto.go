package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caterflow/backend/internal/domain/docflow"
	"github.com/caterflow/backend/internal/domain/inventory"
)

// CreateBinRequest creates a storage bin within a site
type CreateBinRequest struct {
	SiteID      uuid.UUID `json:"site" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
}

// UpdateBinRequest renames or re-describes a bin
type UpdateBinRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// BinListFilter holds list query parameters for bins
type BinListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Search   string     `form:"search"`
	SiteID   *uuid.UUID `form:"site"`
	Active   *bool      `form:"active"`
}

// BinResponse is the bin representation
type BinResponse struct {
	ID          uuid.UUID `json:"id"`
	SiteID      uuid.UUID `json:"site"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BinStockResponse is one item's on-hand quantity in a bin
type BinStockResponse struct {
	BinID       uuid.UUID       `json:"bin"`
	StockItemID uuid.UUID       `json:"stock_item"`
	SiteID      uuid.UUID       `json:"site"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateTransferRequest creates a stock transfer between sites
type CreateTransferRequest struct {
	FromSiteID uuid.UUID           `json:"from_site" binding:"required"`
	ToSiteID   uuid.UUID           `json:"to_site" binding:"required"`
	Notes      string              `json:"notes"`
	Lines      []TransferLineInput `json:"items"`
}

// TransferLineInput is one requested transfer line
type TransferLineInput struct {
	StockItemID uuid.UUID       `json:"stock_item" binding:"required"`
	FromBinID   uuid.UUID       `json:"from_bin" binding:"required"`
	ToBinID     uuid.UUID       `json:"to_bin" binding:"required"`
	Quantity    decimal.Decimal `json:"transferred_quantity" binding:"required"`
}

// UpdateTransferRequest updates transfer header fields
type UpdateTransferRequest struct {
	Notes *string `json:"notes"`
}

// UpdateTransferLineRequest changes the quantity of a transfer line
type UpdateTransferLineRequest struct {
	Quantity decimal.Decimal `json:"transferred_quantity" binding:"required"`
}

// TransferListFilter holds list query parameters for transfers
type TransferListFilter struct {
	Page       int             `form:"page"`
	PageSize   int             `form:"page_size"`
	OrderBy    string          `form:"order_by"`
	OrderDir   string          `form:"order_dir"`
	Search     string          `form:"search"`
	Status     *docflow.Status `form:"status"`
	FromSiteID *uuid.UUID      `form:"from_site"`
	ToSiteID   *uuid.UUID      `form:"to_site"`
	DateFrom   *time.Time      `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time      `form:"date_to" time_format:"2006-01-02"`
}

// TransferResponse is the full transfer representation
type TransferResponse struct {
	ID              uuid.UUID              `json:"id"`
	Number          string                 `json:"transfer_number"`
	FromSiteID      uuid.UUID              `json:"from_site"`
	ToSiteID        uuid.UUID              `json:"to_site"`
	Status          docflow.Status         `json:"status"`
	Notes           string                 `json:"notes,omitempty"`
	Lines           []TransferLineResponse `json:"items"`
	TotalQuantity   decimal.Decimal        `json:"total_quantity"`
	CreatedBy       *uuid.UUID             `json:"created_by,omitempty"`
	SubmittedAt     *time.Time             `json:"submitted_at,omitempty"`
	SubmittedBy     *uuid.UUID             `json:"submitted_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID             `json:"approved_by,omitempty"`
	RejectedAt      *time.Time             `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID             `json:"rejected_by,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CancelledBy     *uuid.UUID             `json:"cancelled_by,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	CompletedBy     *uuid.UUID             `json:"completed_by,omitempty"`
	Version         int                    `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// TransferLineResponse is one transfer line
type TransferLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item"`
	ItemName    string          `json:"item_name"`
	FromBinID   uuid.UUID       `json:"from_bin"`
	ToBinID     uuid.UUID       `json:"to_bin"`
	Quantity    decimal.Decimal `json:"transferred_quantity"`
}

// CreateAdjustmentRequest creates a stock adjustment
type CreateAdjustmentRequest struct {
	SiteID uuid.UUID                  `json:"site" binding:"required"`
	Reason inventory.AdjustmentReason `json:"adjustment_type" binding:"required"`
	Notes  string                     `json:"notes"`
	Lines  []AdjustmentLineInput      `json:"items"`
}

// AdjustmentLineInput is one requested adjustment line. The delta is
// signed; negative values remove stock.
type AdjustmentLineInput struct {
	StockItemID   uuid.UUID       `json:"stock_item" binding:"required"`
	BinID         uuid.UUID       `json:"bin" binding:"required"`
	QuantityDelta decimal.Decimal `json:"adjusted_quantity" binding:"required"`
	Note          string          `json:"note"`
}

// UpdateAdjustmentRequest updates adjustment header fields
type UpdateAdjustmentRequest struct {
	Notes *string `json:"notes"`
}

// AdjustmentListFilter holds list query parameters for adjustments
type AdjustmentListFilter struct {
	Page     int                         `form:"page"`
	PageSize int                         `form:"page_size"`
	OrderBy  string                      `form:"order_by"`
	OrderDir string                      `form:"order_dir"`
	Search   string                      `form:"search"`
	Status   *docflow.Status             `form:"status"`
	SiteID   *uuid.UUID                  `form:"site"`
	Reason   *inventory.AdjustmentReason `form:"adjustment_type"`
	DateFrom *time.Time                  `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time                  `form:"date_to" time_format:"2006-01-02"`
}

// AdjustmentResponse is the full adjustment representation
type AdjustmentResponse struct {
	ID              uuid.UUID                  `json:"id"`
	Number          string                     `json:"adjustment_number"`
	SiteID          uuid.UUID                  `json:"site"`
	Reason          inventory.AdjustmentReason `json:"adjustment_type"`
	Status          docflow.Status             `json:"status"`
	Notes           string                     `json:"notes,omitempty"`
	Lines           []AdjustmentLineResponse   `json:"items"`
	NetDelta        decimal.Decimal            `json:"net_delta"`
	CreatedBy       *uuid.UUID                 `json:"adjusted_by,omitempty"`
	SubmittedAt     *time.Time                 `json:"submitted_at,omitempty"`
	SubmittedBy     *uuid.UUID                 `json:"submitted_by,omitempty"`
	ApprovedAt      *time.Time                 `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID                 `json:"approved_by,omitempty"`
	RejectedAt      *time.Time                 `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID                 `json:"rejected_by,omitempty"`
	RejectionReason string                     `json:"rejection_reason,omitempty"`
	CancelledAt     *time.Time                 `json:"cancelled_at,omitempty"`
	CancelledBy     *uuid.UUID                 `json:"cancelled_by,omitempty"`
	CancelReason    string                     `json:"cancel_reason,omitempty"`
	CompletedAt     *time.Time                 `json:"completed_at,omitempty"`
	CompletedBy     *uuid.UUID                 `json:"completed_by,omitempty"`
	Version         int                        `json:"version"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// AdjustmentLineResponse is one adjustment line
type AdjustmentLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	StockItemID   uuid.UUID       `json:"stock_item"`
	ItemName      string          `json:"item_name"`
	BinID         uuid.UUID       `json:"bin"`
	QuantityDelta decimal.Decimal `json:"adjusted_quantity"`
	Note          string          `json:"note,omitempty"`
}

// CreateCountRequest creates a bin count
type CreateCountRequest struct {
	SiteID    uuid.UUID        `json:"site" binding:"required"`
	BinID     uuid.UUID        `json:"bin" binding:"required"`
	CountDate *time.Time       `json:"count_date"`
	Notes     string           `json:"notes"`
	Lines     []CountLineInput `json:"items"`
}

// CountLineInput is one counted item. The system quantity is snapshotted
// from bin stock when the line is added, never supplied by the client.
type CountLineInput struct {
	StockItemID     uuid.UUID       `json:"stock_item" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Note            string          `json:"note"`
}

// UpdateCountRequest updates count header fields
type UpdateCountRequest struct {
	Notes *string `json:"notes"`
}

// UpdateCountLineRequest re-records a counted quantity
type UpdateCountLineRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Note            string          `json:"note"`
}

// CountListFilter holds list query parameters for bin counts
type CountListFilter struct {
	Page     int             `form:"page"`
	PageSize int             `form:"page_size"`
	OrderBy  string          `form:"order_by"`
	OrderDir string          `form:"order_dir"`
	Search   string          `form:"search"`
	Status   *docflow.Status `form:"status"`
	SiteID   *uuid.UUID      `form:"site"`
	BinID    *uuid.UUID      `form:"bin"`
	DateFrom *time.Time      `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time      `form:"date_to" time_format:"2006-01-02"`
}

// CountResponse is the full bin count representation
type CountResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"count_number"`
	SiteID          uuid.UUID           `json:"site"`
	BinID           uuid.UUID           `json:"bin"`
	CountDate       time.Time           `json:"count_date"`
	Status          docflow.Status      `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	Lines           []CountLineResponse `json:"items"`
	CreatedBy       *uuid.UUID          `json:"counted_by,omitempty"`
	SubmittedAt     *time.Time          `json:"submitted_at,omitempty"`
	SubmittedBy     *uuid.UUID          `json:"submitted_by,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID          `json:"approved_by,omitempty"`
	RejectedAt      *time.Time          `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID          `json:"rejected_by,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy     *uuid.UUID          `json:"cancelled_by,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CompletedBy     *uuid.UUID          `json:"completed_by,omitempty"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CountLineResponse is one count line with its variance
type CountLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	StockItemID     uuid.UUID       `json:"stock_item"`
	ItemName        string          `json:"item_name"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Variance        decimal.Decimal `json:"variance"`
	Note            string          `json:"note,omitempty"`
}

// DocumentStatusSummary is the per-status document count for dashboards
type DocumentStatusSummary struct {
	Counts map[docflow.Status]int64 `json:"counts"`
	Total  int64                    `json:"total"`
}

// ToBinResponse converts a bin aggregate
func ToBinResponse(bin *inventory.Bin) BinResponse {
	return BinResponse{
		ID:          bin.ID,
		SiteID:      bin.SiteID,
		Name:        bin.Name,
		Description: bin.Description,
		Active:      bin.Active,
		CreatedAt:   bin.CreatedAt,
		UpdatedAt:   bin.UpdatedAt,
	}
}

// ToBinResponses converts a slice of bins
func ToBinResponses(bins []*inventory.Bin) []BinResponse {
	responses := make([]BinResponse, len(bins))
	for i, bin := range bins {
		responses[i] = ToBinResponse(bin)
	}
	return responses
}

// ToBinStockResponse converts one bin stock row
func ToBinStockResponse(stock *inventory.BinStock) BinStockResponse {
	return BinStockResponse{
		BinID:       stock.BinID,
		StockItemID: stock.StockItemID,
		SiteID:      stock.SiteID,
		Quantity:    stock.Quantity,
		UpdatedAt:   stock.UpdatedAt,
	}
}

// ToBinStockResponses converts a slice of bin stock rows
func ToBinStockResponses(stocks []*inventory.BinStock) []BinStockResponse {
	responses := make([]BinStockResponse, len(stocks))
	for i, stock := range stocks {
		responses[i] = ToBinStockResponse(stock)
	}
	return responses
}

// ToTransferResponse converts a transfer aggregate
func ToTransferResponse(transfer *inventory.InternalTransfer) TransferResponse {
	lines := make([]TransferLineResponse, len(transfer.Lines))
	for i := range transfer.Lines {
		line := &transfer.Lines[i]
		lines[i] = TransferLineResponse{
			ID:          line.ID,
			StockItemID: line.StockItemID,
			ItemName:    line.ItemName,
			FromBinID:   line.FromBinID,
			ToBinID:     line.ToBinID,
			Quantity:    line.Quantity,
		}
	}

	return TransferResponse{
		ID:              transfer.ID,
		Number:          transfer.Number,
		FromSiteID:      transfer.FromSiteID,
		ToSiteID:        transfer.ToSiteID,
		Status:          transfer.Status,
		Notes:           transfer.Notes,
		Lines:           lines,
		TotalQuantity:   transfer.TotalQuantity(),
		CreatedBy:       transfer.CreatedBy,
		SubmittedAt:     transfer.SubmittedAt,
		SubmittedBy:     transfer.SubmittedBy,
		ApprovedAt:      transfer.ApprovedAt,
		ApprovedBy:      transfer.ApprovedBy,
		RejectedAt:      transfer.RejectedAt,
		RejectedBy:      transfer.RejectedBy,
		RejectionReason: transfer.RejectionReason,
		CancelledAt:     transfer.CancelledAt,
		CancelledBy:     transfer.CancelledBy,
		CancelReason:    transfer.CancelReason,
		CompletedAt:     transfer.CompletedAt,
		CompletedBy:     transfer.CompletedBy,
		Version:         transfer.Version,
		CreatedAt:       transfer.CreatedAt,
		UpdatedAt:       transfer.UpdatedAt,
	}
}

// ToTransferResponses converts a slice of transfers
func ToTransferResponses(transfers []*inventory.InternalTransfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i, transfer := range transfers {
		responses[i] = ToTransferResponse(transfer)
	}
	return responses
}

// ToAdjustmentResponse converts an adjustment aggregate
func ToAdjustmentResponse(adjustment *inventory.StockAdjustment) AdjustmentResponse {
	lines := make([]AdjustmentLineResponse, len(adjustment.Lines))
	for i := range adjustment.Lines {
		line := &adjustment.Lines[i]
		lines[i] = AdjustmentLineResponse{
			ID:            line.ID,
			StockItemID:   line.StockItemID,
			ItemName:      line.ItemName,
			BinID:         line.BinID,
			QuantityDelta: line.QuantityDelta,
			Note:          line.Note,
		}
	}

	return AdjustmentResponse{
		ID:              adjustment.ID,
		Number:          adjustment.Number,
		SiteID:          adjustment.SiteID,
		Reason:          adjustment.Reason,
		Status:          adjustment.Status,
		Notes:           adjustment.Notes,
		Lines:           lines,
		NetDelta:        adjustment.NetDelta(),
		CreatedBy:       adjustment.CreatedBy,
		SubmittedAt:     adjustment.SubmittedAt,
		SubmittedBy:     adjustment.SubmittedBy,
		ApprovedAt:      adjustment.ApprovedAt,
		ApprovedBy:      adjustment.ApprovedBy,
		RejectedAt:      adjustment.RejectedAt,
		RejectedBy:      adjustment.RejectedBy,
		RejectionReason: adjustment.RejectionReason,
		CancelledAt:     adjustment.CancelledAt,
		CancelledBy:     adjustment.CancelledBy,
		CancelReason:    adjustment.CancelReason,
		CompletedAt:     adjustment.CompletedAt,
		CompletedBy:     adjustment.CompletedBy,
		Version:         adjustment.Version,
		CreatedAt:       adjustment.CreatedAt,
		UpdatedAt:       adjustment.UpdatedAt,
	}
}

// ToAdjustmentResponses converts a slice of adjustments
func ToAdjustmentResponses(adjustments []*inventory.StockAdjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, len(adjustments))
	for i, adjustment := range adjustments {
		responses[i] = ToAdjustmentResponse(adjustment)
	}
	return responses
}

// ToCountResponse converts a bin count aggregate
func ToCountResponse(count *inventory.BinCount) CountResponse {
	lines := make([]CountLineResponse, len(count.Lines))
	for i := range count.Lines {
		line := &count.Lines[i]
		lines[i] = CountLineResponse{
			ID:              line.ID,
			StockItemID:     line.StockItemID,
			ItemName:        line.ItemName,
			SystemQuantity:  line.SystemQuantity,
			CountedQuantity: line.CountedQuantity,
			Variance:        line.Variance(),
			Note:            line.Note,
		}
	}

	return CountResponse{
		ID:              count.ID,
		Number:          count.Number,
		SiteID:          count.SiteID,
		BinID:           count.BinID,
		CountDate:       count.CountDate,
		Status:          count.Status,
		Notes:           count.Notes,
		Lines:           lines,
		CreatedBy:       count.CreatedBy,
		SubmittedAt:     count.SubmittedAt,
		SubmittedBy:     count.SubmittedBy,
		ApprovedAt:      count.ApprovedAt,
		ApprovedBy:      count.ApprovedBy,
		RejectedAt:      count.RejectedAt,
		RejectedBy:      count.RejectedBy,
		RejectionReason: count.RejectionReason,
		CancelledAt:     count.CancelledAt,
		CancelledBy:     count.CancelledBy,
		CancelReason:    count.CancelReason,
		CompletedAt:     count.CompletedAt,
		CompletedBy:     count.CompletedBy,
		Version:         count.Version,
		CreatedAt:       count.CreatedAt,
		UpdatedAt:       count.UpdatedAt,
	}
}

// ToCountResponses converts a slice of bin counts
func ToCountResponses(counts []*inventory.BinCount) []CountResponse {
	responses := make([]CountResponse, len(counts))
	for i, count := range counts {
		responses[i] = ToCountResponse(count)
	}
	return responses
}
