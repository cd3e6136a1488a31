package handler

import (
	"fmt"
	"time"

	dispatchapp "github.com/caterflow/backend/internal/application/dispatch"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DispatchHandler handles dispatch log and evidence endpoints
type DispatchHandler struct {
	BaseHandler
	dispatchService *dispatchapp.DispatchService
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(dispatchService *dispatchapp.DispatchService) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: dispatchService,
	}
}

// CreateDispatchRequest is the wire form of a dispatch creation.
// Reference fields accept plain IDs or reference objects.
type CreateDispatchRequest struct {
	Site         dto.Reference       `json:"site" binding:"required"`
	DispatchDate time.Time           `json:"dispatch_date" time_format:"2006-01-02"`
	EventName    string              `json:"event_name"`
	PeopleFed    int                 `json:"people_fed"`
	Notes        string              `json:"notes"`
	Lines        []DispatchLineInput `json:"items"`
}

// DispatchLineInput is the wire form of one dispatch line
type DispatchLineInput struct {
	StockItem dto.Reference   `json:"stock_item" binding:"required"`
	Bin       dto.Reference   `json:"bin" binding:"required"`
	Quantity  decimal.Decimal `json:"dispatched_quantity" binding:"required,posdecimal"`
}

func (in DispatchLineInput) toApp(field string) (dispatchapp.DispatchLineInput, error) {
	itemID, err := refUUID(field+".stock_item", in.StockItem)
	if err != nil {
		return dispatchapp.DispatchLineInput{}, err
	}
	binID, err := refUUID(field+".bin", in.Bin)
	if err != nil {
		return dispatchapp.DispatchLineInput{}, err
	}
	return dispatchapp.DispatchLineInput{
		StockItemID: itemID,
		BinID:       binID,
		Quantity:    in.Quantity,
	}, nil
}

// checkSiteAccess loads the dispatch and verifies the caller may touch
// its site. A false return means an error response has already been
// written.
func (h *DispatchHandler) checkSiteAccess(c *gin.Context, dispatchID uuid.UUID) bool {
	log, err := h.dispatchService.GetByID(c.Request.Context(), dispatchID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	return requireSiteAccess(c, &h.BaseHandler, log.SiteID)
}

// Create records a new dispatch
func (h *DispatchHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateDispatchRequest
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

	appReq := dispatchapp.CreateDispatchRequest{
		SiteID:       siteID,
		DispatchDate: req.DispatchDate,
		EventName:    req.EventName,
		PeopleFed:    req.PeopleFed,
		Notes:        req.Notes,
		Lines:        make([]dispatchapp.DispatchLineInput, 0, len(req.Lines)),
	}
	for i, line := range req.Lines {
		appLine, err := line.toApp(fmt.Sprintf("items[%d]", i))
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.Lines = append(appReq.Lines, appLine)
	}

	log, err := h.dispatchService.Create(c.Request.Context(), actorID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, log)
}

// GetByID returns one dispatch
func (h *DispatchHandler) GetByID(c *gin.Context) {
	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}

	log, err := h.dispatchService.GetByID(c.Request.Context(), dispatchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !requireSiteAccess(c, &h.BaseHandler, log.SiteID) {
		return
	}

	h.Success(c, log)
}

// List returns a paginated list of dispatches
func (h *DispatchHandler) List(c *gin.Context) {
	var filter dispatchapp.DispatchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.dispatchService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// EvidenceSummary returns the per-evidence-status dispatch counts
func (h *DispatchHandler) EvidenceSummary(c *gin.Context) {
	summary, err := h.dispatchService.EvidenceSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update updates dispatch header fields
func (h *DispatchHandler) Update(c *gin.Context) {
	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}
	if !h.checkSiteAccess(c, dispatchID) {
		return
	}

	var req dispatchapp.UpdateDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	log, err := h.dispatchService.Update(c.Request.Context(), dispatchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// AddLine adds one line to a dispatch that is still collecting evidence
func (h *DispatchHandler) AddLine(c *gin.Context) {
	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}
	if !h.checkSiteAccess(c, dispatchID) {
		return
	}

	var req DispatchLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appLine, err := req.toApp("line")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	log, err := h.dispatchService.AddLine(c.Request.Context(), dispatchID, appLine)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// RemoveLine removes one line from a dispatch
func (h *DispatchHandler) RemoveLine(c *gin.Context) {
	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}
	if !h.checkSiteAccess(c, dispatchID) {
		return
	}

	log, err := h.dispatchService.RemoveLine(c.Request.Context(), dispatchID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// AttachEvidence stores one proof-of-delivery file. The request is
// multipart form data with the file under the "file" field.
func (h *DispatchHandler) AttachEvidence(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}
	if !h.checkSiteAccess(c, dispatchID) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Evidence file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read evidence file")
		return
	}
	defer file.Close()

	upload := dispatchapp.EvidenceUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	}

	log, err := h.dispatchService.AttachEvidence(c.Request.Context(), dispatchID, actorID, upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// CompleteEvidence marks evidence collection complete and deducts the
// dispatched quantities from bin stock
func (h *DispatchHandler) CompleteEvidence(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}
	if !h.checkSiteAccess(c, dispatchID) {
		return
	}

	log, err := h.dispatchService.CompleteEvidence(c.Request.Context(), dispatchID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// Delete removes a dispatch that has not completed evidence collection
func (h *DispatchHandler) Delete(c *gin.Context) {
	dispatchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid dispatch ID format")
		return
	}
	if !h.checkSiteAccess(c, dispatchID) {
		return
	}

	if err := h.dispatchService.Delete(c.Request.Context(), dispatchID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
