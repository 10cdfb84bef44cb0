package dto

import (
	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// CalculateFeeRequest asks for a payment fee preview.
type CalculateFeeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
}

// FeeBreakdownResponse is the result of a payment fee calculation.
type FeeBreakdownResponse struct {
	OriginalAmount decimal.Decimal  `json:"originalAmount"`
	FeeType        *string          `json:"feeType"` // null when no fee applies
	FeeValue       *decimal.Decimal `json:"feeValue"`
	FeeAmount      decimal.Decimal  `json:"feeAmount"`
	TotalAmount    decimal.Decimal  `json:"totalAmount"`
}

// ToFeeBreakdownResponse converts a domain fee breakdown to its DTO.
func ToFeeBreakdownResponse(b domain.FeeBreakdown) FeeBreakdownResponse {
	res := FeeBreakdownResponse{
		OriginalAmount: b.OriginalAmount,
		FeeValue:       b.FeeValue,
		FeeAmount:      b.FeeAmount,
		TotalAmount:    b.TotalAmount,
	}
	if b.FeeType != nil {
		s := string(*b.FeeType)
		res.FeeType = &s
	}
	return res
}

// PaymentMethodResponse describes a payment method and its fee configuration.
type PaymentMethodResponse struct {
	MethodCode string           `json:"methodCode"`
	Label      string           `json:"label"`
	FeeType    *string          `json:"feeType"`
	FeeValue   *decimal.Decimal `json:"feeValue"`
	Enabled    bool             `json:"enabled"`
	SortOrder  int              `json:"sortOrder"`
}

// ToPaymentMethodResponse converts a fee rule to its DTO.
func ToPaymentMethodResponse(r domain.PaymentMethodFeeRule) PaymentMethodResponse {
	res := PaymentMethodResponse{
		MethodCode: r.MethodCode,
		Label:      r.Label,
		FeeValue:   r.FeeValue,
		Enabled:    r.Enabled,
		SortOrder:  r.SortOrder,
	}
	if r.FeeType != nil {
		s := string(*r.FeeType)
		res.FeeType = &s
	}
	return res
}

// ToListPaymentMethodResponse converts a slice of fee rules to DTOs.
func ToListPaymentMethodResponse(rules []domain.PaymentMethodFeeRule) []PaymentMethodResponse {
	res := make([]PaymentMethodResponse, len(rules))
	for i, r := range rules {
		res[i] = ToPaymentMethodResponse(r)
	}
	return res
}

// UpsertFeeRuleRequest configures the surcharge of one payment method.
type UpsertFeeRuleRequest struct {
	Label    string           `json:"label" binding:"required,max=100"`
	FeeType  *string          `json:"feeType" binding:"omitempty,oneof=percentage flat"`
	FeeValue *decimal.Decimal `json:"feeValue"`
	Enabled  bool             `json:"enabled"`
}
