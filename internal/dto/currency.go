package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to register a new currency.
type CreateCurrencyRequest struct {
	Code      string `json:"code" binding:"required,uppercase,len=3"`
	Name      string `json:"name" binding:"required"`
	Symbol    string `json:"symbol" binding:"required"`
	SortOrder int    `json:"sortOrder"`
	Precision *int32 `json:"precision" binding:"omitempty,min=0,max=6"`
}

// SetFixedRateRequest pins the settlement rate of a currency.
type SetFixedRateRequest struct {
	FixedRate decimal.Decimal `json:"fixedRate" binding:"required"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	IsBase       bool             `json:"isBase"`
	FloatingRate *decimal.Decimal `json:"floatingRate"`
	FixedRate    *decimal.Decimal `json:"fixedRate"`
	Active       bool             `json:"active"`
	SortOrder    int              `json:"sortOrder"`
	Precision    int32            `json:"precision"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to a CurrencyResponse DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:         c.Code,
		Name:         c.Name,
		Symbol:       c.Symbol,
		IsBase:       c.IsBase,
		FloatingRate: c.FloatingRate,
		FixedRate:    c.FixedRate,
		Active:       c.Active,
		SortOrder:    c.SortOrder,
		Precision:    c.Precision,
		UpdatedAt:    c.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of currencies to response DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}

// ConvertRequest asks for a one-off currency conversion.
type ConvertRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	From     string          `json:"from" binding:"required,uppercase,len=3"`
	To       string          `json:"to" binding:"required,uppercase,len=3"`
	RateType string          `json:"rateType" binding:"omitempty,oneof=floating fixed"`
}

// ConvertResponse carries the converted amount.
type ConvertResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	RateType string          `json:"rateType"`
}
