package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	"github.com/techvision/crm-finance/internal/dto"
)

// PaymentFeeService calculates payment-method surcharges from the fee rules
// stored in the system dictionary.
type PaymentFeeService struct {
	feeRepo portsrepo.FeeRuleRepositoryFacade
}

// NewPaymentFeeService creates a new PaymentFeeService.
func NewPaymentFeeService(feeRepo portsrepo.FeeRuleRepositoryFacade) *PaymentFeeService {
	return &PaymentFeeService{feeRepo: feeRepo}
}

// Calculate applies the method's fee rule to the amount. A non-positive
// amount short-circuits to an all-zero result without touching the store.
// Unknown or disabled methods are treated as fee-free rather than rejected so
// checkout flows keep working when a new method appears before its fee
// configuration does.
func (s *PaymentFeeService) Calculate(ctx context.Context, amount decimal.Decimal, methodCode string) (domain.FeeBreakdown, error) {
	if !amount.IsPositive() {
		return domain.ZeroFeeBreakdown(), nil
	}
	rule, err := s.feeRepo.FindFeeRule(ctx, strings.TrimSpace(methodCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NoFeeBreakdown(amount), nil
		}
		return domain.FeeBreakdown{}, fmt.Errorf("failed to look up fee rule for %q: %w", methodCode, err)
	}
	return rule.CalculateFee(amount), nil
}

// ListMethods retrieves enabled payment methods with their fee configuration.
func (s *PaymentFeeService) ListMethods(ctx context.Context) ([]domain.PaymentMethodFeeRule, error) {
	methods, err := s.feeRepo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	if methods == nil {
		return []domain.PaymentMethodFeeRule{}, nil
	}
	return methods, nil
}

// UpsertFeeRule creates or updates the fee configuration of a method.
func (s *PaymentFeeService) UpsertFeeRule(ctx context.Context, methodCode string, req dto.UpsertFeeRuleRequest, operatorID int64) error {
	methodCode = strings.TrimSpace(methodCode)
	if methodCode == "" {
		return fmt.Errorf("%w: payment method code is required", apperrors.ErrValidation)
	}

	rule := domain.PaymentMethodFeeRule{
		MethodCode: methodCode,
		Label:      req.Label,
		FeeValue:   req.FeeValue,
		Enabled:    req.Enabled,
	}
	if req.FeeType != nil {
		feeType, err := domain.ParseFeeType(*req.FeeType)
		if err != nil {
			return err
		}
		rule.FeeType = &feeType
		if req.FeeValue == nil {
			return fmt.Errorf("%w: fee value is required when a fee type is set", apperrors.ErrValidation)
		}
		if req.FeeValue.IsNegative() {
			return fmt.Errorf("%w: fee value must not be negative", apperrors.ErrValidation)
		}
		if feeType == domain.FeeTypePercentage && req.FeeValue.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: percentage fee value is a fraction between 0 and 1", apperrors.ErrValidation)
		}
	}

	if err := s.feeRepo.UpsertFeeRule(ctx, rule, operatorID); err != nil {
		return fmt.Errorf("failed to save fee rule for %q: %w", methodCode, err)
	}
	return nil
}
