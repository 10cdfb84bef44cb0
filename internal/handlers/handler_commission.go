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

// commissionHandler serves commission computation and rule administration.
type commissionHandler struct {
	commissionService portssvc.CommissionSvcFacade
}

// registerCommissionRoutes registers commission routes.
func registerCommissionRoutes(rg *gin.RouterGroup, commissionService portssvc.CommissionSvcFacade, authService portssvc.AuthSvc) {
	h := &commissionHandler{commissionService: commissionService}

	rg.POST("/commissions/compute", middleware.RequirePermission(authService, domain.PermFinanceView), h.computeCommission)

	rules := rg.Group("/commission-rules")
	{
		rules.GET("", middleware.RequirePermission(authService, domain.PermFinanceView), h.listRules)

		edit := middleware.RequirePermission(authService, domain.PermFinanceEdit)
		rules.POST("", edit, h.createRule)
		rules.PUT("/:id", edit, h.updateRule)
		rules.PATCH("/:id/active", edit, h.toggleRule)
		rules.DELETE("/:id", edit, h.deleteRule)
	}
}

func ruleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid rule id"))
		return 0, false
	}
	return id, true
}

// computeCommission godoc
// @Summary Compute a commission for a scope
// @Description Selects the most specific active rule and applies it, converting into the rule currency
// @Tags commissions
// @Accept json
// @Produce json
// @Param request body dto.ComputeCommissionRequest true "Amount, currency and scope"
// @Success 200 {object} dto.APIResponse{data=dto.CommissionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 422 {object} dto.APIResponse "No applicable rule or rate unavailable"
// @Security BearerAuth
// @Router /commissions/compute [post]
func (h *commissionHandler) computeCommission(c *gin.Context) {
	var req dto.ComputeCommissionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.commissionService.ComputeCommission(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to compute commission")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToCommissionResponse(*result)))
}

// listRules godoc
// @Summary List commission rule sets
// @Description Retrieves every rule set with tiers and scope
// @Tags commissions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.RuleResponse}
// @Security BearerAuth
// @Router /commission-rules [get]
func (h *commissionHandler) listRules(c *gin.Context) {
	rules, err := h.commissionService.ListRules(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list commission rules")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListRuleResponse(rules)))
}

// createRule godoc
// @Summary Create a commission rule set
// @Description Creates a rule set with its tiers and scope bindings
// @Tags commissions
// @Accept json
// @Produce json
// @Param rule body dto.SaveRuleRequest true "Rule definition"
// @Success 201 {object} dto.APIResponse{data=dto.RuleResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Security BearerAuth
// @Router /commission-rules [post]
func (h *commissionHandler) createRule(c *gin.Context) {
	h.saveRule(c, 0, http.StatusCreated)
}

// updateRule godoc
// @Summary Replace a commission rule set
// @Description Replaces a rule set together with its tiers and scope
// @Tags commissions
// @Accept json
// @Produce json
// @Param id path int true "Rule id"
// @Param rule body dto.SaveRuleRequest true "Rule definition"
// @Success 200 {object} dto.APIResponse{data=dto.RuleResponse}
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Security BearerAuth
// @Router /commission-rules/{id} [put]
func (h *commissionHandler) updateRule(c *gin.Context) {
	id, ok := ruleIDParam(c)
	if !ok {
		return
	}
	h.saveRule(c, id, http.StatusOK)
}

func (h *commissionHandler) saveRule(c *gin.Context, ruleID int64, successStatus int) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	rule, err := h.commissionService.SaveRule(c.Request.Context(), req, ruleID, opID)
	if err != nil {
		respondError(c, err, "Failed to save commission rule")
		return
	}

	logger.Info("Commission rule saved", slog.Int64("rule_id", rule.ID))
	c.JSON(successStatus, dto.OK(dto.ToRuleResponse(rule)))
}

// toggleRule godoc
// @Summary Activate or deactivate a rule set
// @Description Flips the active flag; finalized settlements are untouched
// @Tags commissions
// @Accept json
// @Produce json
// @Param id path int true "Rule id"
// @Param request body dto.ToggleRuleRequest true "Active flag"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Security BearerAuth
// @Router /commission-rules/{id}/active [patch]
func (h *commissionHandler) toggleRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, ok := ruleIDParam(c)
	if !ok {
		return
	}
	var req dto.ToggleRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	if err := h.commissionService.ToggleRule(c.Request.Context(), id, *req.IsActive, opID); err != nil {
		respondError(c, err, "Failed to toggle commission rule")
		return
	}

	logger.Info("Commission rule toggled", slog.Int64("rule_id", id), slog.Bool("active", *req.IsActive))
	c.JSON(http.StatusOK, dto.OK(nil))
}

// deleteRule godoc
// @Summary Delete an unreferenced rule set
// @Description Referenced rule sets return 409 and must be deactivated instead
// @Tags commissions
// @Produce json
// @Param id path int true "Rule id"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Failure 409 {object} dto.APIResponse "Rule referenced by settlements"
// @Security BearerAuth
// @Router /commission-rules/{id} [delete]
func (h *commissionHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, ok := ruleIDParam(c)
	if !ok {
		return
	}

	if err := h.commissionService.DeleteRule(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete commission rule")
		return
	}

	logger.Info("Commission rule deleted", slog.Int64("rule_id", id))
	c.JSON(http.StatusOK, dto.OK(nil))
}
