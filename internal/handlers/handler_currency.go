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

// currencyHandler handles HTTP requests related to the currency registry.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs}
}

// registerCurrencyRoutes registers routes related to currencies. Reads need
// finance:view, writes need finance:edit.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade, authService portssvc.AuthSvc) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies", middleware.RequirePermission(authService, domain.PermFinanceView))
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
		currencies.POST("/convert", h.convert)
	}

	edits := rg.Group("/currencies", middleware.RequirePermission(authService, domain.PermFinanceEdit))
	{
		edits.POST("", h.createCurrency)
		edits.PUT("/:code/fixed-rate", h.setFixedRate)
	}
}

// listCurrencies godoc
// @Summary List active currencies
// @Description Retrieves active currencies ordered by sort order
// @Tags currencies
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CurrencyResponse}
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListCurrencyResponse(currencies)))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves one currency with its current rates
// @Tags currencies
// @Produce json
// @Param code path string true "Currency Code (3 letters)"
// @Success 200 {object} dto.APIResponse{data=dto.CurrencyResponse}
// @Failure 404 {object} dto.APIResponse "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	currency, err := h.currencyService.GetCurrency(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToCurrencyResponse(currency)))
}

// createCurrency godoc
// @Summary Register a new currency
// @Description Adds a non-base currency; rates arrive later via feed sync or pinning
// @Tags currencies
// @Accept json
// @Produce json
// @Param currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.APIResponse{data=dto.CurrencyResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 409 {object} dto.APIResponse "Currency already exists"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCurrencyRequest
	if !bindJSON(c, &req) {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	created, err := h.currencyService.CreateCurrency(c.Request.Context(), req, opID)
	if err != nil {
		respondError(c, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created", slog.String("code", created.Code))
	c.JSON(http.StatusCreated, dto.OK(dto.ToCurrencyResponse(created)))
}

// setFixedRate godoc
// @Summary Pin the fixed settlement rate of a currency
// @Description Sets the administrator rate and appends an audit entry
// @Tags currencies
// @Accept json
// @Produce json
// @Param code path string true "Currency Code (3 letters)"
// @Param rate body dto.SetFixedRateRequest true "Fixed rate in base units per unit"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 409 {object} dto.APIResponse "Concurrent modification"
// @Failure 422 {object} dto.APIResponse "Base currency is immutable"
// @Security BearerAuth
// @Router /currencies/{code}/fixed-rate [put]
func (h *currencyHandler) setFixedRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	var req dto.SetFixedRateRequest
	if !bindJSON(c, &req) {
		return
	}
	opID, ok := operatorID(c)
	if !ok {
		return
	}

	if err := h.currencyService.SetFixedRate(c.Request.Context(), code, req.FixedRate, opID); err != nil {
		respondError(c, err, "Failed to set fixed rate")
		return
	}

	logger.Info("Fixed rate pinned", slog.String("code", code), slog.String("rate", req.FixedRate.String()))
	c.JSON(http.StatusOK, dto.OK(nil))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts via the base currency using current rates
// @Tags currencies
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion request"
// @Success 200 {object} dto.APIResponse{data=dto.ConvertResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 422 {object} dto.APIResponse "Rate unavailable"
// @Security BearerAuth
// @Router /currencies/convert [post]
func (h *currencyHandler) convert(c *gin.Context) {
	var req dto.ConvertRequest
	if !bindJSON(c, &req) {
		return
	}

	rateType := domain.RateTypeFloating
	if req.RateType != "" {
		rateType = domain.RateType(req.RateType)
	}

	table, err := h.currencyService.LoadRateTable(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load rates")
		return
	}
	converted, err := table.Convert(req.Amount, req.From, req.To, rateType)
	if err != nil {
		respondError(c, err, "Failed to convert")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ConvertResponse{
		Amount:   converted,
		Currency: req.To,
		RateType: string(rateType),
	}))
}
