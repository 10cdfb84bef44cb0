package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techvision/crm-finance/internal/core/domain"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
	"github.com/techvision/crm-finance/internal/middleware"
)

// settlementHandler serves monthly commission settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvc
}

// registerSettlementRoutes registers settlement routes.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvc, authService portssvc.AuthSvc) {
	h := &settlementHandler{settlementService: settlementService}

	settlements := rg.Group("/settlements")
	{
		view := middleware.RequirePermission(authService, domain.PermFinanceView)
		settlements.GET("", view, h.listSettlements)
		settlements.GET("/:id", view, h.getSettlement)

		edit := middleware.RequirePermission(authService, domain.PermFinanceEdit)
		settlements.POST("", edit, h.createSettlement)
		settlements.POST("/:id/finalize", edit, h.finalizeSettlement)
	}
}

func settlementIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid settlement id"))
		return 0, false
	}
	return id, true
}

// createSettlement godoc
// @Summary Create a draft settlement
// @Description Computes commissions for the receipts and stores a draft
// @Tags settlements
// @Accept json
// @Produce json
// @Param settlement body dto.CreateSettlementRequest true "Month, user and receipts"
// @Success 201 {object} dto.APIResponse{data=dto.SettlementResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 409 {object} dto.APIResponse "Settlement already exists for month"
// @Failure 422 {object} dto.APIResponse "No applicable rule or rate unavailable"
// @Security BearerAuth
// @Router /settlements [post]
func (h *settlementHandler) createSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateSettlementRequest
	if !bindJSON(c, &req) {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	settlement, err := h.settlementService.CreateDraft(c.Request.Context(), req, opID)
	if err != nil {
		respondError(c, err, "Failed to create settlement")
		return
	}

	logger.Info("Settlement draft created", slog.Int64("settlement_id", settlement.ID), slog.String("month", settlement.MonthKey))
	c.JSON(http.StatusCreated, dto.OK(dto.ToSettlementResponse(settlement)))
}

// getSettlement godoc
// @Summary Get a settlement with its items
// @Tags settlements
// @Produce json
// @Param id path int true "Settlement id"
// @Success 200 {object} dto.APIResponse{data=dto.SettlementResponse}
// @Failure 404 {object} dto.APIResponse "Settlement not found"
// @Security BearerAuth
// @Router /settlements/{id} [get]
func (h *settlementHandler) getSettlement(c *gin.Context) {
	id, ok := settlementIDParam(c)
	if !ok {
		return
	}

	settlement, err := h.settlementService.GetSettlement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve settlement")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToSettlementResponse(settlement)))
}

// listSettlements godoc
// @Summary List settlements
// @Description Lists settlement headers, optionally filtered by month
// @Tags settlements
// @Produce json
// @Param month query string false "Month key (YYYY-MM)"
// @Success 200 {object} dto.APIResponse{data=[]dto.SettlementResponse}
// @Security BearerAuth
// @Router /settlements [get]
func (h *settlementHandler) listSettlements(c *gin.Context) {
	settlements, err := h.settlementService.ListSettlements(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err, "Failed to list settlements")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListSettlementResponse(settlements)))
}

// finalizeSettlement godoc
// @Summary Finalize a draft settlement
// @Description Locks the settlement; items become immutable
// @Tags settlements
// @Produce json
// @Param id path int true "Settlement id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Settlement is not a draft"
// @Failure 404 {object} dto.APIResponse "Settlement not found"
// @Security BearerAuth
// @Router /settlements/{id}/finalize [post]
func (h *settlementHandler) finalizeSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, ok := settlementIDParam(c)
	if !ok {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	if err := h.settlementService.Finalize(c.Request.Context(), id, opID); err != nil {
		respondError(c, err, "Failed to finalize settlement")
		return
	}

	logger.Info("Settlement finalized", slog.Int64("settlement_id", id))
	c.JSON(http.StatusOK, dto.OK(nil))
}
