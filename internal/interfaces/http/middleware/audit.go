package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caterflow/backend/internal/infrastructure/audit"
)

// AuditFailures records rejected mutating requests in the audit trail.
// Successful mutations are covered by domain events, so only error
// responses produce an entry here. Reads are never recorded.
func AuditFailures(sink audit.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		sink.Record(c.Request.Context(), audit.Entry{
			Action:      "RequestRejected",
			Description: fmt.Sprintf("%s %s returned %d", c.Request.Method, path, status),
			ActorID:     audit.ActorFromContext(c.Request.Context()),
			Success:     false,
		})
	}
}
