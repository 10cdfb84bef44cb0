package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
)

// RequirePermission gates a route group on a permission code. It must run
// after AuthMiddleware so the user id is present in the context.
func RequirePermission(authSvc portssvc.AuthSvc, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("Permission check without authenticated user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
			return
		}

		allowed, err := authSvc.HasPermission(c.Request.Context(), userID, code)
		if err != nil {
			logger.Error("Permission check failed", slog.String("permission", code), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Fail("Failed to check permission"))
			return
		}
		if !allowed {
			logger.Warn("Permission denied", slog.String("permission", code))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("Permission denied"))
			return
		}

		c.Next()
	}
}
