package handler

import (
	"context"
	"fmt"

	inventoryapp "github.com/caterflow/backend/internal/application/inventory"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferHandler handles internal transfer endpoints
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// CreateTransferRequest is the wire form of a transfer creation.
// Reference fields accept plain IDs or reference objects.
type CreateTransferRequest struct {
	FromSite dto.Reference       `json:"from_site" binding:"required"`
	ToSite   dto.Reference       `json:"to_site" binding:"required"`
	Notes    string              `json:"notes"`
	Lines    []TransferLineInput `json:"items"`
}

// TransferLineInput is the wire form of one transfer line
type TransferLineInput struct {
	StockItem dto.Reference   `json:"stock_item" binding:"required"`
	FromBin   dto.Reference   `json:"from_bin" binding:"required"`
	ToBin     dto.Reference   `json:"to_bin" binding:"required"`
	Quantity  decimal.Decimal `json:"transferred_quantity" binding:"required"`
}

func (in TransferLineInput) toApp(field string) (inventoryapp.TransferLineInput, error) {
	itemID, err := refUUID(field+".stock_item", in.StockItem)
	if err != nil {
		return inventoryapp.TransferLineInput{}, err
	}
	fromBinID, err := refUUID(field+".from_bin", in.FromBin)
	if err != nil {
		return inventoryapp.TransferLineInput{}, err
	}
	toBinID, err := refUUID(field+".to_bin", in.ToBin)
	if err != nil {
		return inventoryapp.TransferLineInput{}, err
	}
	return inventoryapp.TransferLineInput{
		StockItemID: itemID,
		FromBinID:   fromBinID,
		ToBinID:     toBinID,
		Quantity:    in.Quantity,
	}, nil
}

// checkSiteAccess loads the transfer and verifies the caller may touch
// both endpoint sites. A transfer moves stock at the source and the
// destination, so access to only one side is not enough. A false return
// means an error response has already been written.
func (h *TransferHandler) checkSiteAccess(c *gin.Context, transferID uuid.UUID) bool {
	transfer, err := h.transferService.GetByID(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	return requireSiteAccess(c, &h.BaseHandler, transfer.FromSiteID, transfer.ToSiteID)
}

// Create creates a draft transfer
func (h *TransferHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fromSiteID, err := refUUID("from_site", req.FromSite)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	toSiteID, err := refUUID("to_site", req.ToSite)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, fromSiteID, toSiteID) {
		return
	}

	appReq := inventoryapp.CreateTransferRequest{
		FromSiteID: fromSiteID,
		ToSiteID:   toSiteID,
		Notes:      req.Notes,
		Lines:      make([]inventoryapp.TransferLineInput, 0, len(req.Lines)),
	}
	for i, line := range req.Lines {
		appLine, err := line.toApp(fmt.Sprintf("items[%d]", i))
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Lines = append(appReq.Lines, appLine)
	}

	transfer, err := h.transferService.Create(c.Request.Context(), actorID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// GetByID returns one transfer
func (h *TransferHandler) GetByID(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, transfer.FromSiteID, transfer.ToSiteID) {
		return
	}

	h.Success(c, transfer)
}

// List returns a paginated list of transfers
func (h *TransferHandler) List(c *gin.Context) {
	var filter inventoryapp.TransferListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.transferService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// StatusSummary returns the per-status transfer counts
func (h *TransferHandler) StatusSummary(c *gin.Context) {
	summary, err := h.transferService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update updates transfer header fields
func (h *TransferHandler) Update(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	var req inventoryapp.UpdateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.Update(c.Request.Context(), transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// AddLine adds one line to a draft transfer
func (h *TransferHandler) AddLine(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	var req TransferLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appLine, err := req.toApp("line")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.AddLine(c.Request.Context(), transferID, appLine)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// UpdateLine changes the quantity of a transfer line
func (h *TransferHandler) UpdateLine(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	var req inventoryapp.UpdateTransferLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.transferService.UpdateLine(c.Request.Context(), transferID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// RemoveLine removes one line from a draft transfer
func (h *TransferHandler) RemoveLine(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	transfer, err := h.transferService.RemoveLine(c.Request.Context(), transferID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Delete removes a draft transfer
func (h *TransferHandler) Delete(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	if err := h.transferService.Delete(c.Request.Context(), transferID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft transfer to pending approval
func (h *TransferHandler) Submit(c *gin.Context) {
	h.transition(c, h.transferService.Submit)
}

// Approve approves a pending transfer
func (h *TransferHandler) Approve(c *gin.Context) {
	h.transition(c, h.transferService.Approve)
}

// Complete executes an approved transfer, moving stock between bins
func (h *TransferHandler) Complete(c *gin.Context) {
	h.transition(c, h.transferService.Complete)
}

// Reject rejects a pending transfer with a mandatory reason
func (h *TransferHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, true, h.transferService.Reject)
}

// Cancel cancels a transfer before completion
func (h *TransferHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, false, h.transferService.Cancel)
}

func (h *TransferHandler) transition(c *gin.Context, apply func(ctx context.Context, transferID, actorID uuid.UUID) (*inventoryapp.TransferResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	transfer, err := apply(c.Request.Context(), transferID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

func (h *TransferHandler) transitionWithReason(c *gin.Context, reasonRequired bool, apply func(ctx context.Context, transferID, actorID uuid.UUID, reason string) (*inventoryapp.TransferResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}
	if !h.checkSiteAccess(c, transferID) {
		return
	}

	reason, ok := bindReason(c, &h.BaseHandler, reasonRequired)
	if !ok {
		return
	}

	transfer, err := apply(c.Request.Context(), transferID, actorID, reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}
