package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one row of the currencies table. Rate columns are nullable:
// a currency may exist before its first feed sync or fixed-rate pin.
type Currency struct {
	Code         string              `json:"code" db:"code"`
	Name         string              `json:"name" db:"name"`
	Symbol       string              `json:"symbol" db:"symbol"`
	IsBase       bool                `json:"isBase" db:"is_base"`
	FloatingRate decimal.NullDecimal `json:"floatingRate" db:"floating_rate"`
	FixedRate    decimal.NullDecimal `json:"fixedRate" db:"fixed_rate"`
	Active       bool                `json:"active" db:"active"`
	SortOrder    int                 `json:"sortOrder" db:"sort_order"`
	Precision    int32               `json:"precision" db:"precision"`
	Version      int64               `json:"version" db:"version"`
	AuditFields
}

// ExchangeRateHistory is one row of the append-only rate audit table.
type ExchangeRateHistory struct {
	ID           int64           `json:"id" db:"id"`
	CurrencyCode string          `json:"currencyCode" db:"currency_code"`
	RateType     string          `json:"rateType" db:"rate_type"`
	Rate         decimal.Decimal `json:"rate" db:"rate"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	CreatedBy    int64           `json:"createdBy" db:"created_by"`
}
