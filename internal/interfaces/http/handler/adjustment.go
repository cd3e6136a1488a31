package handler

import (
	"context"
	"fmt"

	inventoryapp "github.com/caterflow/backend/internal/application/inventory"
	"github.com/caterflow/backend/internal/domain/inventory"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentHandler handles stock adjustment endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustmentService *inventoryapp.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustmentService *inventoryapp.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{
		adjustmentService: adjustmentService,
	}
}

// CreateAdjustmentRequest is the wire form of an adjustment creation.
// Reference fields accept plain IDs or reference objects.
type CreateAdjustmentRequest struct {
	Site   dto.Reference              `json:"site" binding:"required"`
	Reason inventory.AdjustmentReason `json:"adjustment_type" binding:"required"`
	Notes  string                     `json:"notes"`
	Lines  []AdjustmentLineInput      `json:"items"`
}

// AdjustmentLineInput is the wire form of one adjustment line
type AdjustmentLineInput struct {
	StockItem     dto.Reference   `json:"stock_item" binding:"required"`
	Bin           dto.Reference   `json:"bin" binding:"required"`
	QuantityDelta decimal.Decimal `json:"adjusted_quantity" binding:"required"`
	Note          string          `json:"note"`
}

func (in AdjustmentLineInput) toApp(field string) (inventoryapp.AdjustmentLineInput, error) {
	itemID, err := refUUID(field+".stock_item", in.StockItem)
	if err != nil {
		return inventoryapp.AdjustmentLineInput{}, err
	}
	binID, err := refUUID(field+".bin", in.Bin)
	if err != nil {
		return inventoryapp.AdjustmentLineInput{}, err
	}
	return inventoryapp.AdjustmentLineInput{
		StockItemID:   itemID,
		BinID:         binID,
		QuantityDelta: in.QuantityDelta,
		Note:          in.Note,
	}, nil
}

// checkSiteAccess loads the adjustment and verifies the caller may touch
// its site. A false return means an error response has already been
// written.
func (h *AdjustmentHandler) checkSiteAccess(c *gin.Context, adjustmentID uuid.UUID) bool {
	adjustment, err := h.adjustmentService.GetByID(c.Request.Context(), adjustmentID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	return requireSiteAccess(c, &h.BaseHandler, adjustment.SiteID)
}

// Create creates a draft adjustment
func (h *AdjustmentHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	siteID, err := refUUID("site", req.Site)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, siteID) {
		return
	}

	appReq := inventoryapp.CreateAdjustmentRequest{
		SiteID: siteID,
		Reason: req.Reason,
		Notes:  req.Notes,
		Lines:  make([]inventoryapp.AdjustmentLineInput, 0, len(req.Lines)),
	}
	for i, line := range req.Lines {
		appLine, err := line.toApp(fmt.Sprintf("items[%d]", i))
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Lines = append(appReq.Lines, appLine)
	}

	adjustment, err := h.adjustmentService.Create(c.Request.Context(), actorID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// GetByID returns one adjustment
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	adjustment, err := h.adjustmentService.GetByID(c.Request.Context(), adjustmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, adjustment.SiteID) {
		return
	}

	h.Success(c, adjustment)
}

// List returns a paginated list of adjustments
func (h *AdjustmentHandler) List(c *gin.Context) {
	var filter inventoryapp.AdjustmentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.adjustmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// StatusSummary returns the per-status adjustment counts
func (h *AdjustmentHandler) StatusSummary(c *gin.Context) {
	summary, err := h.adjustmentService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update updates adjustment header fields
func (h *AdjustmentHandler) Update(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}
	if !h.checkSiteAccess(c, adjustmentID) {
		return
	}

	var req inventoryapp.UpdateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.adjustmentService.Update(c.Request.Context(), adjustmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// AddLine adds one line to a draft adjustment
func (h *AdjustmentHandler) AddLine(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}
	if !h.checkSiteAccess(c, adjustmentID) {
		return
	}

	var req AdjustmentLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appLine, err := req.toApp("line")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.adjustmentService.AddLine(c.Request.Context(), adjustmentID, appLine)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// RemoveLine removes one line from a draft adjustment
func (h *AdjustmentHandler) RemoveLine(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, adjustmentID) {
		return
	}

	adjustment, err := h.adjustmentService.RemoveLine(c.Request.Context(), adjustmentID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// Delete removes a draft adjustment
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}
	if !h.checkSiteAccess(c, adjustmentID) {
		return
	}

	if err := h.adjustmentService.Delete(c.Request.Context(), adjustmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft adjustment to pending approval
func (h *AdjustmentHandler) Submit(c *gin.Context) {
	h.transition(c, h.adjustmentService.Submit)
}

// Approve approves a pending adjustment
func (h *AdjustmentHandler) Approve(c *gin.Context) {
	h.transition(c, h.adjustmentService.Approve)
}

// Complete applies an approved adjustment to bin stock
func (h *AdjustmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.adjustmentService.Complete)
}

// Reject rejects a pending adjustment with a mandatory reason
func (h *AdjustmentHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, true, h.adjustmentService.Reject)
}

// Cancel cancels an adjustment before completion
func (h *AdjustmentHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, false, h.adjustmentService.Cancel)
}

func (h *AdjustmentHandler) transition(c *gin.Context, apply func(ctx context.Context, adjustmentID, actorID uuid.UUID) (*inventoryapp.AdjustmentResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}
	if !h.checkSiteAccess(c, adjustmentID) {
		return
	}

	adjustment, err := apply(c.Request.Context(), adjustmentID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

func (h *AdjustmentHandler) transitionWithReason(c *gin.Context, reasonRequired bool, apply func(ctx context.Context, adjustmentID, actorID uuid.UUID, reason string) (*inventoryapp.AdjustmentResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}
	if !h.checkSiteAccess(c, adjustmentID) {
		return
	}

	reason, ok := bindReason(c, &h.BaseHandler, reasonRequired)
	if !ok {
		return
	}

	adjustment, err := apply(c.Request.Context(), adjustmentID, actorID, reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}
