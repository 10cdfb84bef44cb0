package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/models"
)

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		Code:         d.Code,
		Name:         d.Name,
		Symbol:       d.Symbol,
		IsBase:       d.IsBase,
		FloatingRate: toNullDecimal(d.FloatingRate),
		FixedRate:    toNullDecimal(d.FixedRate),
		Active:       d.Active,
		SortOrder:    d.SortOrder,
		Precision:    d.Precision,
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		Code:         m.Code,
		Name:         m.Name,
		Symbol:       m.Symbol,
		IsBase:       m.IsBase,
		FloatingRate: fromNullDecimal(m.FloatingRate),
		FixedRate:    fromNullDecimal(m.FixedRate),
		Active:       m.Active,
		SortOrder:    m.SortOrder,
		Precision:    m.Precision,
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}

// ToDomainExchangeRateHistory converts a model history row to its domain entry
func ToDomainExchangeRateHistory(m models.ExchangeRateHistory) domain.ExchangeRateHistoryEntry {
	return domain.ExchangeRateHistoryEntry{
		ID:           m.ID,
		CurrencyCode: m.CurrencyCode,
		RateType:     domain.RateType(m.RateType),
		Rate:         m.Rate,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToDomainExchangeRateHistorySlice converts model history rows to domain entries
func ToDomainExchangeRateHistorySlice(ms []models.ExchangeRateHistory) []domain.ExchangeRateHistoryEntry {
	ds := make([]domain.ExchangeRateHistoryEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRateHistory(m)
	}
	return ds
}
