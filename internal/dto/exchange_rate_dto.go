package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// ExchangeRateHistoryResponse defines one audit log row of a rate change.
type ExchangeRateHistoryResponse struct {
	ID           int64           `json:"id"`
	CurrencyCode string          `json:"currencyCode"`
	RateType     string          `json:"rateType"`
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    int64           `json:"createdBy"` // 0 = rate feed
}

// ToExchangeRateHistoryResponse converts an audit entry to its DTO.
func ToExchangeRateHistoryResponse(e domain.ExchangeRateHistoryEntry) ExchangeRateHistoryResponse {
	return ExchangeRateHistoryResponse{
		ID:           e.ID,
		CurrencyCode: e.CurrencyCode,
		RateType:     string(e.RateType),
		Rate:         e.Rate,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}

// ToListExchangeRateHistoryResponse converts a history slice to DTOs.
func ToListExchangeRateHistoryResponse(entries []domain.ExchangeRateHistoryEntry) []ExchangeRateHistoryResponse {
	res := make([]ExchangeRateHistoryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToExchangeRateHistoryResponse(e)
	}
	return res
}

// RateSyncResponse reports the outcome of a floating-rate feed sync.
type RateSyncResponse struct {
	UpdatedCount int       `json:"updatedCount"`
	SyncedAt     time.Time `json:"syncedAt"`
}
