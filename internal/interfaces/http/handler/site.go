package handler

import (
	partnerapp "github.com/caterflow/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SiteHandler handles site endpoints
type SiteHandler struct {
	BaseHandler
	siteService *partnerapp.SiteService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(siteService *partnerapp.SiteService) *SiteHandler {
	return &SiteHandler{
		siteService: siteService,
	}
}

// Create creates a new site
func (h *SiteHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	site, err := h.siteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, site)
}

// GetByID returns one site
func (h *SiteHandler) GetByID(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	site, err := h.siteService.GetByID(c.Request.Context(), siteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, site)
}

// List returns a paginated list of sites
func (h *SiteHandler) List(c *gin.Context) {
	var filter partnerapp.SiteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.siteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update applies a partial update to a site
func (h *SiteHandler) Update(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	var req partnerapp.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	site, err := h.siteService.Update(c.Request.Context(), siteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, site)
}

// Activate reactivates an inactive site
func (h *SiteHandler) Activate(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	site, err := h.siteService.Activate(c.Request.Context(), siteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, site)
}

// Deactivate deactivates an active site
func (h *SiteHandler) Deactivate(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	site, err := h.siteService.Deactivate(c.Request.Context(), siteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, site)
}

// Delete soft-deletes a site
func (h *SiteHandler) Delete(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	if err := h.siteService.Delete(c.Request.Context(), siteID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
