package handler

import (
	"context"
	"fmt"
	"time"

	inventoryapp "github.com/caterflow/backend/internal/application/inventory"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CountHandler handles bin count endpoints
type CountHandler struct {
	BaseHandler
	countService *inventoryapp.CountService
}

// NewCountHandler creates a new CountHandler
func NewCountHandler(countService *inventoryapp.CountService) *CountHandler {
	return &CountHandler{
		countService: countService,
	}
}

// CreateCountRequest is the wire form of a bin count creation.
// Reference fields accept plain IDs or reference objects.
type CreateCountRequest struct {
	Site      dto.Reference    `json:"site" binding:"required"`
	Bin       dto.Reference    `json:"bin" binding:"required"`
	CountDate *time.Time       `json:"count_date"`
	Notes     string           `json:"notes"`
	Lines     []CountLineInput `json:"items"`
}

// CountLineInput is the wire form of one counted item
type CountLineInput struct {
	StockItem       dto.Reference   `json:"stock_item" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Note            string          `json:"note"`
}

func (in CountLineInput) toApp(field string) (inventoryapp.CountLineInput, error) {
	itemID, err := refUUID(field+".stock_item", in.StockItem)
	if err != nil {
		return inventoryapp.CountLineInput{}, err
	}
	return inventoryapp.CountLineInput{
		StockItemID:     itemID,
		CountedQuantity: in.CountedQuantity,
		Note:            in.Note,
	}, nil
}

// checkSiteAccess loads the count and verifies the caller may touch its
// site. A false return means an error response has already been written.
func (h *CountHandler) checkSiteAccess(c *gin.Context, countID uuid.UUID) bool {
	count, err := h.countService.GetByID(c.Request.Context(), countID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	return requireSiteAccess(c, &h.BaseHandler, count.SiteID)
}

// Create creates a draft bin count
func (h *CountHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	siteID, err := refUUID("site", req.Site)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	binID, err := refUUID("bin", req.Bin)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, siteID) {
		return
	}

	appReq := inventoryapp.CreateCountRequest{
		SiteID:    siteID,
		BinID:     binID,
		CountDate: req.CountDate,
		Notes:     req.Notes,
		Lines:     make([]inventoryapp.CountLineInput, 0, len(req.Lines)),
	}
	for i, line := range req.Lines {
		appLine, err := line.toApp(fmt.Sprintf("items[%d]", i))
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Lines = append(appReq.Lines, appLine)
	}

	count, err := h.countService.Create(c.Request.Context(), actorID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, count)
}

// GetByID returns one bin count
func (h *CountHandler) GetByID(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}

	count, err := h.countService.GetByID(c.Request.Context(), countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, count.SiteID) {
		return
	}

	h.Success(c, count)
}

// List returns a paginated list of bin counts
func (h *CountHandler) List(c *gin.Context) {
	var filter inventoryapp.CountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.countService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// StatusSummary returns the per-status count totals
func (h *CountHandler) StatusSummary(c *gin.Context) {
	summary, err := h.countService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update updates count header fields
func (h *CountHandler) Update(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	var req inventoryapp.UpdateCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countService.Update(c.Request.Context(), countID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// AddLine adds one counted item to a draft count
func (h *CountHandler) AddLine(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	var req CountLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appLine, err := req.toApp("line")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countService.AddLine(c.Request.Context(), countID, appLine)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// UpdateLine re-records a counted quantity
func (h *CountHandler) UpdateLine(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	var req inventoryapp.UpdateCountLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countService.UpdateLine(c.Request.Context(), countID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// RemoveLine removes one line from a draft count
func (h *CountHandler) RemoveLine(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	count, err := h.countService.RemoveLine(c.Request.Context(), countID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// Delete removes a draft count
func (h *CountHandler) Delete(c *gin.Context) {
	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	if err := h.countService.Delete(c.Request.Context(), countID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft count to pending approval
func (h *CountHandler) Submit(c *gin.Context) {
	h.transition(c, h.countService.Submit)
}

// Approve approves a pending count
func (h *CountHandler) Approve(c *gin.Context) {
	h.transition(c, h.countService.Approve)
}

// Complete applies count variances to bin stock
func (h *CountHandler) Complete(c *gin.Context) {
	h.transition(c, h.countService.Complete)
}

// Reject rejects a pending count with a mandatory reason
func (h *CountHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, true, h.countService.Reject)
}

// Cancel cancels a count before completion
func (h *CountHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, false, h.countService.Cancel)
}

func (h *CountHandler) transition(c *gin.Context, apply func(ctx context.Context, countID, actorID uuid.UUID) (*inventoryapp.CountResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	count, err := apply(c.Request.Context(), countID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

func (h *CountHandler) transitionWithReason(c *gin.Context, reasonRequired bool, apply func(ctx context.Context, countID, actorID uuid.UUID, reason string) (*inventoryapp.CountResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid count ID format")
		return
	}
	if !h.checkSiteAccess(c, countID) {
		return
	}

	reason, ok := bindReason(c, &h.BaseHandler, reasonRequired)
	if !ok {
		return
	}

	count, err := apply(c.Request.Context(), countID, actorID, reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}
