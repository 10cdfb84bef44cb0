package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techvision/crm-finance/internal/core/domain"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
	"github.com/techvision/crm-finance/internal/middleware"
)

// exchangeRateHandler serves the rate audit log and the manual feed sync.
type exchangeRateHandler struct {
	currencyService portssvc.CurrencySvcFacade
	rateSyncService portssvc.RateSyncSvc
}

// registerExchangeRateRoutes registers exchange-rate routes.
func registerExchangeRateRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade, rateSyncService portssvc.RateSyncSvc, authService portssvc.AuthSvc) {
	h := &exchangeRateHandler{currencyService: currencyService, rateSyncService: rateSyncService}

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/history", middleware.RequirePermission(authService, domain.PermFinanceView), h.listHistory)
		rates.POST("/sync", middleware.RequirePermission(authService, domain.PermFinanceEdit), h.syncRates)
	}
}

// listHistory godoc
// @Summary List rate change history
// @Description Returns the append-only rate audit log, newest first
// @Tags exchange-rates
// @Produce json
// @Param currency query string false "Filter by currency code"
// @Param limit query int false "Max entries (default 30, max 200)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExchangeRateHistoryResponse}
// @Security BearerAuth
// @Router /exchange-rates/history [get]
func (h *exchangeRateHandler) listHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.currencyService.ListHistory(c.Request.Context(), c.Query("currency"), limit)
	if err != nil {
		respondError(c, err, "Failed to list rate history")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListExchangeRateHistoryResponse(entries)))
}

// syncRates godoc
// @Summary Sync floating rates from the external feed
// @Description Refreshes every active non-base currency the feed quotes
// @Tags exchange-rates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RateSyncResponse}
// @Failure 502 {object} dto.APIResponse "Feed unreachable"
// @Security BearerAuth
// @Router /exchange-rates/sync [post]
func (h *exchangeRateHandler) syncRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	opID, ok := operatorID(c)
	if !ok {
		return
	}

	updated, err := h.rateSyncService.SyncFloatingRates(c.Request.Context(), opID)
	if err != nil {
		logger.Error("Rate feed sync failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, dto.Fail("Rate feed sync failed"))
		return
	}

	logger.Info("Rate feed sync completed", slog.Int("updated", updated))
	c.JSON(http.StatusOK, dto.OK(dto.RateSyncResponse{
		UpdatedCount: updated,
		SyncedAt:     time.Now(),
	}))
}
