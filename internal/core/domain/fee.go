package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
)

// FeeType is the closed set of payment surcharge kinds.
type FeeType string

const (
	// FeeTypePercentage charges a fraction of the paid amount (fee value is a
	// decimal fraction, e.g. 0.006 for 0.6%).
	FeeTypePercentage FeeType = "percentage"
	// FeeTypeFlat charges a fixed surcharge regardless of the amount.
	FeeTypeFlat FeeType = "flat"
)

// ParseFeeType validates a wire-level fee type string.
func ParseFeeType(s string) (FeeType, error) {
	switch FeeType(s) {
	case FeeTypePercentage, FeeTypeFlat:
		return FeeType(s), nil
	}
	return "", fmt.Errorf("%w: unknown fee type %q", apperrors.ErrValidation, s)
}

// PaymentMethodFeeRule is the surcharge configuration of one payment method.
// Rows live in the system dictionary under dict_type "payment_method"; a
// method without fee configuration has nil FeeType/FeeValue.
type PaymentMethodFeeRule struct {
	MethodCode string           `json:"methodCode"`
	Label      string           `json:"label"`
	FeeType    *FeeType         `json:"feeType"`
	FeeValue   *decimal.Decimal `json:"feeValue"`
	Enabled    bool             `json:"enabled"`
	SortOrder  int              `json:"sortOrder"`
}

// FeeBreakdown is the result of a payment fee calculation. Fees are additive
// surcharges borne by the payer: TotalAmount = OriginalAmount + FeeAmount.
type FeeBreakdown struct {
	OriginalAmount decimal.Decimal  `json:"originalAmount"`
	FeeType        *FeeType         `json:"feeType"` // nil when no fee applies
	FeeValue       *decimal.Decimal `json:"feeValue"`
	FeeAmount      decimal.Decimal  `json:"feeAmount"`
	TotalAmount    decimal.Decimal  `json:"totalAmount"`
}

// CalculateFee applies a fee rule to an amount. An absent or non-positive fee
// value yields a zero fee; percentage fees round half-up to two decimals.
func (r PaymentMethodFeeRule) CalculateFee(amount decimal.Decimal) FeeBreakdown {
	result := FeeBreakdown{
		OriginalAmount: amount,
		FeeAmount:      decimal.Zero,
		TotalAmount:    amount,
	}
	if r.FeeType == nil || r.FeeValue == nil || !r.FeeValue.IsPositive() {
		return result
	}
	result.FeeType = r.FeeType
	result.FeeValue = r.FeeValue
	switch *r.FeeType {
	case FeeTypeFlat:
		result.FeeAmount = r.FeeValue.Round(2)
	case FeeTypePercentage:
		result.FeeAmount = amount.Mul(*r.FeeValue).Round(2)
	}
	result.TotalAmount = amount.Add(result.FeeAmount).Round(2)
	return result
}

// ZeroFeeBreakdown is the all-zero short-circuit result for non-positive
// input amounts.
func ZeroFeeBreakdown() FeeBreakdown {
	return FeeBreakdown{
		OriginalAmount: decimal.Zero,
		FeeAmount:      decimal.Zero,
		TotalAmount:    decimal.Zero,
	}
}

// NoFeeBreakdown is the fee-free result for payment methods without a
// configured fee rule. Unknown methods are deliberately not rejected.
func NoFeeBreakdown(amount decimal.Decimal) FeeBreakdown {
	return FeeBreakdown{
		OriginalAmount: amount,
		FeeAmount:      decimal.Zero,
		TotalAmount:    amount,
	}
}
