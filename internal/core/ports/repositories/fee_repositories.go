package repositories

import (
	"context"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// FeeRuleReader reads payment-method fee configuration from the system
// dictionary.
type FeeRuleReader interface {
	// FindFeeRule retrieves the enabled fee rule for a payment method code.
	// Unknown or disabled methods return apperrors.ErrNotFound.
	FindFeeRule(ctx context.Context, methodCode string) (*domain.PaymentMethodFeeRule, error)

	// ListPaymentMethods retrieves all enabled methods with their fee
	// configuration, ordered by sort_order.
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethodFeeRule, error)
}

// FeeRuleWriter updates payment-method fee configuration.
type FeeRuleWriter interface {
	// UpsertFeeRule creates or updates the fee configuration of a method.
	UpsertFeeRule(ctx context.Context, rule domain.PaymentMethodFeeRule, operatorID int64) error
}

// FeeRuleRepositoryFacade combines fee rule repository interfaces.
type FeeRuleRepositoryFacade interface {
	FeeRuleReader
	FeeRuleWriter
}
