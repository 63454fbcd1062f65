package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// StaffRoles operate stores and sales
var StaffRoles = []identity.Role{identity.RoleAdmin, identity.RoleSeller}

// AdminRoles manage catalog, stock and users. Superadmin passes every gate implicitly.
var AdminRoles = []identity.Role{identity.RoleAdmin}

// RequireRoles admits authenticated callers whose role is in the allow list.
// It must run after JWTAuth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", logger.RequestID(c.Request.Context())))
			return
		}

		role := identity.Role(claims.Role)
		if !identity.RoleAllowed(role, roles...) {
			logger.FromContext(c.Request.Context()).Warn("Role check denied",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
				zap.Any("required_any", roles),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Insufficient role for this operation", logger.RequestID(c.Request.Context())))
			return
		}

		c.Next()
	}
}

// RequireStaff admits every staff role
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(StaffRoles...)
}

// RequireAdmin admits superadmin and admin
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(AdminRoles...)
}
