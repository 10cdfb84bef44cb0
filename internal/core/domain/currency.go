package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
)

// RateType selects which of the two stored exchange rates applies.
type RateType string

const (
	// RateTypeFloating is the periodically refreshed market rate.
	RateTypeFloating RateType = "floating"
	// RateTypeFixed is the administrator-pinned settlement rate.
	RateTypeFixed RateType = "fixed"
)

// ParseRateType validates a wire-level rate type string.
func ParseRateType(s string) (RateType, error) {
	switch RateType(s) {
	case RateTypeFloating, RateTypeFixed:
		return RateType(s), nil
	}
	return "", fmt.Errorf("%w: unknown rate type %q", apperrors.ErrValidation, s)
}

// Currency represents a supported currency. Rates are expressed in base
// currency units per one unit of this currency; the base currency itself has
// an implicit rate of 1 and its stored rate fields are ignored.
type Currency struct {
	Code         string           `json:"code"` // ISO 4217, e.g. "USD"
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	IsBase       bool             `json:"isBase"`
	FloatingRate *decimal.Decimal `json:"floatingRate"` // nil until first feed sync
	FixedRate    *decimal.Decimal `json:"fixedRate"`    // nil until pinned
	Active       bool             `json:"active"`
	SortOrder    int              `json:"sortOrder"`
	Precision    int32            `json:"precision"` // minor-unit digits, e.g. 2
	Version      int64            `json:"version"`   // optimistic concurrency token
	AuditFields
}

// ExchangeRateHistoryEntry is an immutable audit record of a single rate
// change. Entries are append-only and never mutated or deleted.
type ExchangeRateHistoryEntry struct {
	ID           int64           `json:"id"`
	CurrencyCode string          `json:"currencyCode"`
	RateType     RateType        `json:"rateType"`
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    int64           `json:"createdBy"` // 0 = rate feed
}

// rateEntry is one currency's snapshot inside a RateTable.
type rateEntry struct {
	floating  *decimal.Decimal
	fixed     *decimal.Decimal
	precision int32
}

// RateTable is an immutable snapshot of the currency registry used for pure
// rate resolution and conversion. A table is loaded once per calculation so
// concurrent registry updates cannot skew a computation halfway through.
type RateTable struct {
	baseCode string
	entries  map[string]rateEntry
}

// NewRateTable builds a snapshot from the given currencies. The base currency
// is identified by its IsBase flag.
func NewRateTable(currencies []Currency) RateTable {
	t := RateTable{entries: make(map[string]rateEntry, len(currencies))}
	for _, c := range currencies {
		if c.IsBase {
			t.baseCode = c.Code
		}
		t.entries[c.Code] = rateEntry{
			floating:  c.FloatingRate,
			fixed:     c.FixedRate,
			precision: c.Precision,
		}
	}
	return t
}

// BaseCode returns the base currency code of the snapshot.
func (t RateTable) BaseCode() string {
	return t.baseCode
}

// Resolve returns the applicable rate for a currency. The base currency
// always resolves to 1 regardless of its stored fields. A missing rate field
// yields ErrRateUnavailable; it is never silently defaulted.
func (t RateTable) Resolve(code string, mode RateType) (decimal.Decimal, error) {
	if code == t.baseCode && t.baseCode != "" {
		return decimal.NewFromInt(1), nil
	}
	entry, ok := t.entries[code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("currency %s: %w", code, apperrors.ErrNotFound)
	}
	var rate *decimal.Decimal
	switch mode {
	case RateTypeFloating:
		rate = entry.floating
	case RateTypeFixed:
		rate = entry.fixed
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unknown rate type %q", apperrors.ErrValidation, mode)
	}
	if rate == nil {
		return decimal.Decimal{}, fmt.Errorf("%s rate for %s: %w", mode, code, apperrors.ErrRateUnavailable)
	}
	return *rate, nil
}

// Convert converts an amount between two currencies through the base
// currency, rounding half-up to the target currency's minor-unit precision.
func (t RateTable) Convert(amount decimal.Decimal, fromCode, toCode string, mode RateType) (decimal.Decimal, error) {
	if fromCode == toCode {
		return amount, nil
	}
	fromRate, err := t.Resolve(fromCode, mode)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toRate, err := t.Resolve(toCode, mode)
	if err != nil {
		return decimal.Decimal{}, err
	}
	precision := int32(2)
	if entry, ok := t.entries[toCode]; ok && entry.precision > 0 {
		precision = entry.precision
	}
	// DivRound carries extra digits so the final rounding is the only one.
	converted := amount.Mul(fromRate).DivRound(toRate, precision+4)
	return converted.Round(precision), nil
}
