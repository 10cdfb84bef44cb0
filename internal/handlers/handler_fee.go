package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techvision/crm-finance/internal/core/domain"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
	"github.com/techvision/crm-finance/internal/middleware"
)

// feeHandler serves payment-method fee calculation and configuration.
type feeHandler struct {
	feeService portssvc.PaymentFeeSvc
}

// RegisterFeeRoutes registers payment fee routes. Exported so handler tests
// can mount the routes on their own router.
func RegisterFeeRoutes(rg *gin.RouterGroup, feeService portssvc.PaymentFeeSvc, authService portssvc.AuthSvc) {
	h := &feeHandler{feeService: feeService}

	rg.POST("/payment-fees/calculate", middleware.RequirePermission(authService, domain.PermFinanceView), h.calculateFee)

	methods := rg.Group("/payment-methods")
	{
		methods.GET("", middleware.RequirePermission(authService, domain.PermFinanceView), h.listMethods)
		methods.PUT("/:code/fee", middleware.RequirePermission(authService, domain.PermFinanceEdit), h.upsertFeeRule)
	}
}

// calculateFee godoc
// @Summary Calculate the payment fee for an amount
// @Description Applies the method's configured surcharge; unknown methods are fee-free
// @Tags payment-fees
// @Accept json
// @Produce json
// @Param request body dto.CalculateFeeRequest true "Amount and payment method"
// @Success 200 {object} dto.APIResponse{data=dto.FeeBreakdownResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Security BearerAuth
// @Router /payment-fees/calculate [post]
func (h *feeHandler) calculateFee(c *gin.Context) {
	var req dto.CalculateFeeRequest
	if !bindJSON(c, &req) {
		return
	}

	breakdown, err := h.feeService.Calculate(c.Request.Context(), req.Amount, req.Method)
	if err != nil {
		respondError(c, err, "Failed to calculate fee")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToFeeBreakdownResponse(breakdown)))
}

// listMethods godoc
// @Summary List payment methods
// @Description Retrieves enabled payment methods with their fee configuration
// @Tags payment-fees
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PaymentMethodResponse}
// @Security BearerAuth
// @Router /payment-methods [get]
func (h *feeHandler) listMethods(c *gin.Context) {
	methods, err := h.feeService.ListMethods(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list payment methods")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListPaymentMethodResponse(methods)))
}

// upsertFeeRule godoc
// @Summary Configure the fee of a payment method
// @Description Creates or updates the surcharge rule of a method
// @Tags payment-fees
// @Accept json
// @Produce json
// @Param code path string true "Payment method code"
// @Param rule body dto.UpsertFeeRuleRequest true "Fee configuration"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Security BearerAuth
// @Router /payment-methods/{code}/fee [put]
func (h *feeHandler) upsertFeeRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	var req dto.UpsertFeeRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	if err := h.feeService.UpsertFeeRule(c.Request.Context(), code, req, opID); err != nil {
		respondError(c, err, "Failed to save fee rule")
		return
	}

	logger.Info("Fee rule saved", slog.String("method", code))
	c.JSON(http.StatusOK, dto.OK(nil))
}
