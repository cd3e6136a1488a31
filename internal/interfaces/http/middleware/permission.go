package middleware

import (
	"net/http"

	"github.com/caterflow/backend/internal/domain/identity"
	"github.com/caterflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for role middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context)
}

// CurrentRole returns the authenticated user's role from JWT claims
func CurrentRole(c *gin.Context) identity.Role {
	return identity.Role(GetJWTRole(c))
}

// RequireRole creates middleware that requires one of the listed roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(PermissionConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg PermissionConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, "No authentication claims found")
			return
		}

		role := identity.Role(claims.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		handlePermissionDenied(c, cfg, "User role not allowed")
	}
}

// RequireApprover allows only roles that can approve, reject, and finalize
// workflow documents
func RequireApprover() gin.HandlerFunc {
	return requireRoleCheck(func(r identity.Role) bool { return r.CanApprove() })
}

// RequireAdmin allows only roles that can manage users
func RequireAdmin() gin.HandlerFunc {
	return requireRoleCheck(func(r identity.Role) bool { return r.CanManageUsers() })
}

// RequireCatalogManager allows only roles that can edit reference data
// (stock items, suppliers, sites, bins)
func RequireCatalogManager() gin.HandlerFunc {
	return requireRoleCheck(func(r identity.Role) bool { return r.CanManageCatalog() })
}

func requireRoleCheck(check func(identity.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, PermissionConfig{}, "No authentication claims found")
			return
		}
		if !check(identity.Role(claims.Role)) {
			handlePermissionDenied(c, PermissionConfig{}, "User role not allowed")
			return
		}
		c.Next()
	}
}

// RequireSiteAccess creates middleware that checks the site ID in the given
// path parameter against the user's site restrictions. Users with no site
// restrictions may access every site.
func RequireSiteAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, PermissionConfig{}, "No authentication claims found")
			return
		}

		siteID, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeInvalidInput, "Invalid site ID"))
			return
		}

		if !claims.CanAccessSite(siteID) {
			handlePermissionDenied(c, PermissionConfig{}, "User not assigned to site")
			return
		}

		c.Next()
	}
}

// CanAccessSite is a helper for handlers that resolve the site after loading
// the document rather than from the path
func CanAccessSite(c *gin.Context, siteID uuid.UUID) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.CanAccessSite(siteID)
}

// handlePermissionDenied handles access denied scenarios
func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		role := ""
		if claims != nil {
			userID = claims.UserID
			role = claims.Role
		}

		cfg.Logger.Warn("Access denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("role", role),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied: insufficient permissions"))
}
