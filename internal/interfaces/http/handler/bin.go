package handler

import (
	inventoryapp "github.com/caterflow/backend/internal/application/inventory"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BinHandler handles storage bin endpoints
type BinHandler struct {
	BaseHandler
	binService *inventoryapp.BinService
}

// NewBinHandler creates a new BinHandler
func NewBinHandler(binService *inventoryapp.BinService) *BinHandler {
	return &BinHandler{
		binService: binService,
	}
}

// CreateBinRequest is the wire form of a bin creation. The site field
// accepts a plain ID or a reference object.
type CreateBinRequest struct {
	Site        dto.Reference `json:"site" binding:"required"`
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
}

// checkSiteAccess loads the bin and verifies the caller may touch its
// site. A false return means an error response has already been written.
func (h *BinHandler) checkSiteAccess(c *gin.Context, binID uuid.UUID) bool {
	bin, err := h.binService.GetByID(c.Request.Context(), binID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	return requireSiteAccess(c, &h.BaseHandler, bin.SiteID)
}

// Create creates a new bin within a site
func (h *BinHandler) Create(c *gin.Context) {
	var req CreateBinRequest
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

	bin, err := h.binService.Create(c.Request.Context(), inventoryapp.CreateBinRequest{
		SiteID:      siteID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bin)
}

// GetByID returns one bin
func (h *BinHandler) GetByID(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}

	bin, err := h.binService.GetByID(c.Request.Context(), binID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, bin.SiteID) {
		return
	}

	h.Success(c, bin)
}

// List returns a paginated list of bins
func (h *BinHandler) List(c *gin.Context) {
	var filter inventoryapp.BinListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.binService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update renames or re-describes a bin
func (h *BinHandler) Update(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}
	if !h.checkSiteAccess(c, binID) {
		return
	}

	var req inventoryapp.UpdateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bin, err := h.binService.Update(c.Request.Context(), binID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bin)
}

// Activate reactivates an inactive bin
func (h *BinHandler) Activate(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}
	if !h.checkSiteAccess(c, binID) {
		return
	}

	bin, err := h.binService.Activate(c.Request.Context(), binID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bin)
}

// Deactivate deactivates an active bin
func (h *BinHandler) Deactivate(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}
	if !h.checkSiteAccess(c, binID) {
		return
	}

	bin, err := h.binService.Deactivate(c.Request.Context(), binID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bin)
}

// Delete removes an empty bin
func (h *BinHandler) Delete(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}
	if !h.checkSiteAccess(c, binID) {
		return
	}

	if err := h.binService.Delete(c.Request.Context(), binID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Stock returns every item's on-hand quantity in one bin
func (h *BinHandler) Stock(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}
	if !h.checkSiteAccess(c, binID) {
		return
	}

	stocks, err := h.binService.Stock(c.Request.Context(), binID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stocks)
}
