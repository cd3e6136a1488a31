package handler

import (
	"fmt"

	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/caterflow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// refUUID resolves a required reference field to a UUID
func refUUID(field string, ref dto.Reference) (uuid.UUID, error) {
	id, err := ref.UUID()
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s reference", field)
	}
	return id, nil
}

// refUUIDPtr resolves an optional reference field, returning nil when absent
func refUUIDPtr(field string, ref dto.Reference) (*uuid.UUID, error) {
	id, err := ref.UUIDPtr()
	if err != nil {
		return nil, fmt.Errorf("invalid %s reference", field)
	}
	return id, nil
}

// requireSiteAccess verifies the authenticated user may touch documents
// scoped to every given site. A false return means a 403 response has
// already been written.
func requireSiteAccess(c *gin.Context, h *BaseHandler, siteIDs ...uuid.UUID) bool {
	for _, siteID := range siteIDs {
		if !middleware.CanAccessSite(c, siteID) {
			h.Forbidden(c, "Access denied: document belongs to another site")
			return false
		}
	}
	return true
}

// RejectDocumentRequest carries the mandatory rejection reason
type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelDocumentRequest carries the optional cancellation reason
type CancelDocumentRequest struct {
	Reason string `json:"reason"`
}

// bindReason binds the reason payload of a reject or cancel transition.
// A false return means an error response has already been written.
func bindReason(c *gin.Context, h *BaseHandler, required bool) (string, bool) {
	if required {
		var req RejectDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return "", false
		}
		return req.Reason, true
	}
	if c.Request.ContentLength > 0 {
		var req CancelDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return "", false
		}
		return req.Reason, true
	}
	return "", true
}

// refUUIDs resolves a list of references
func refUUIDs(field string, refs []dto.Reference) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(refs))
	for i, ref := range refs {
		id, err := ref.UUID()
		if err != nil {
			return nil, fmt.Errorf("invalid %s reference at index %d", field, i)
		}
		ids[i] = id
	}
	return ids, nil
}
