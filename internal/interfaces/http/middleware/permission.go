package middleware

import (
	"net/http"
	"slices"

	"github.com/cecagem/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole allows the request through only when the token's role claim is
// one of roles. It must run after the JWT middleware.
func RequireRole(log *zap.Logger, roles ...string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if !slices.Contains(roles, claims.Role) {
			log.Warn("Permission denied",
				zap.String("user_id", claims.Subject),
				zap.String("role", claims.Role),
				zap.Strings("required_roles", roles),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied: insufficient role", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
