package mapping

import (
	"database/sql"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/models"
)

// ToDomainFeeRule converts a payment-method dictionary row to its domain rule.
func ToDomainFeeRule(m models.SystemDictItem) domain.PaymentMethodFeeRule {
	d := domain.PaymentMethodFeeRule{
		MethodCode: m.DictKey,
		Label:      m.DictLabel,
		FeeValue:   fromNullDecimal(m.FeeValue),
		Enabled:    m.Enabled,
		SortOrder:  m.SortOrder,
	}
	if m.FeeType.Valid && m.FeeType.String != "" {
		feeType := domain.FeeType(m.FeeType.String)
		d.FeeType = &feeType
	}
	return d
}

// ToDomainFeeRuleSlice converts payment-method rows to domain rules.
func ToDomainFeeRuleSlice(ms []models.SystemDictItem) []domain.PaymentMethodFeeRule {
	ds := make([]domain.PaymentMethodFeeRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFeeRule(m)
	}
	return ds
}

// ToModelFeeRule converts a domain fee rule to its dictionary row.
func ToModelFeeRule(d domain.PaymentMethodFeeRule) models.SystemDictItem {
	m := models.SystemDictItem{
		DictType:  models.DictTypePaymentMethod,
		DictKey:   d.MethodCode,
		DictLabel: d.Label,
		FeeValue:  toNullDecimal(d.FeeValue),
		Enabled:   d.Enabled,
		SortOrder: d.SortOrder,
	}
	if d.FeeType != nil {
		m.FeeType = sql.NullString{String: string(*d.FeeType), Valid: true}
	}
	return m
}
