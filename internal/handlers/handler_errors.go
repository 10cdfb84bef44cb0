package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/dto"
	"github.com/techvision/crm-finance/internal/middleware"
)

// respondError maps service errors to HTTP statuses inside the uniform
// envelope. Unrecognized errors become opaque 500s so internals never leak.
func respondError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Fail(err.Error()))
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.Fail(err.Error()))
	case errors.Is(err, apperrors.ErrImmutableBase),
		errors.Is(err, apperrors.ErrRateUnavailable),
		errors.Is(err, apperrors.ErrNoApplicableRule):
		c.JSON(http.StatusUnprocessableEntity, dto.Fail(err.Error()))
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail(fallbackMsg))
	}
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return false
	}
	return true
}

// operatorID returns the authenticated user id or aborts with 401.
func operatorID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User id not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return 0, false
	}
	return userID, true
}
