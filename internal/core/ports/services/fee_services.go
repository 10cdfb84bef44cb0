package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/dto"
)

// PaymentFeeSvc calculates payment-method surcharges.
type PaymentFeeSvc interface {
	// Calculate applies the method's fee rule to the amount. Non-positive
	// amounts short-circuit to an all-zero result; unknown methods are
	// fee-free, not an error.
	Calculate(ctx context.Context, amount decimal.Decimal, methodCode string) (domain.FeeBreakdown, error)

	// ListMethods retrieves enabled payment methods with fee configuration.
	ListMethods(ctx context.Context) ([]domain.PaymentMethodFeeRule, error)

	// UpsertFeeRule creates or updates the fee configuration of a method.
	UpsertFeeRule(ctx context.Context, methodCode string, req dto.UpsertFeeRuleRequest, operatorID int64) error
}
