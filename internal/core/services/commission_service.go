package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
)

// CommissionService selects and applies commission rule sets.
type CommissionService struct {
	ruleRepo    portsrepo.CommissionRuleRepositoryFacade
	refChecker  portsrepo.SettlementWriter
	currencySvc portssvc.CurrencyReaderSvc
}

// NewCommissionService creates a new CommissionService.
func NewCommissionService(
	ruleRepo portsrepo.CommissionRuleRepositoryFacade,
	refChecker portsrepo.SettlementWriter,
	currencySvc portssvc.CurrencyReaderSvc,
) *CommissionService {
	return &CommissionService{
		ruleRepo:    ruleRepo,
		refChecker:  refChecker,
		currencySvc: currencySvc,
	}
}

// ComputeCommission picks the most specific active rule for the scope,
// converts the amount into the rule currency and applies the rule's rate.
func (s *CommissionService) ComputeCommission(ctx context.Context, req dto.ComputeCommissionRequest) (*domain.CommissionResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	rules, err := s.ruleRepo.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active commission rules: %w", err)
	}
	rule, err := domain.SelectRule(rules, req.DepartmentID, req.UserID)
	if err != nil {
		return nil, err
	}

	table, err := s.currencySvc.LoadRateTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate table: %w", err)
	}
	base, err := table.Convert(req.Amount, req.Currency, rule.Currency, rule.RateMode)
	if err != nil {
		return nil, err
	}

	rate := rule.RateFor(base)
	return &domain.CommissionResult{
		RuleID:             rule.ID,
		RateApplied:        rate,
		BaseAmount:         base,
		CommissionAmount:   base.Mul(rate).Round(2),
		CommissionCurrency: rule.Currency,
	}, nil
}

// SaveRule creates (ruleID 0) or replaces a rule set and its tiers.
func (s *CommissionService) SaveRule(ctx context.Context, req dto.SaveRuleRequest, ruleID int64, operatorID int64) (*domain.CommissionRuleSet, error) {
	rule := req.ToDomainRule(ruleID)
	rule.CreatedBy = operatorID
	rule.LastUpdatedBy = operatorID
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.currencySvc.GetCurrency(ctx, rule.Currency); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown rule currency %q", apperrors.ErrValidation, rule.Currency)
		}
		return nil, err
	}

	if ruleID != 0 {
		if _, err := s.ruleRepo.FindRuleByID(ctx, ruleID); err != nil {
			return nil, fmt.Errorf("failed to find commission rule %d: %w", ruleID, err)
		}
	}

	id, err := s.ruleRepo.SaveRule(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to save commission rule: %w", err)
	}
	saved, err := s.ruleRepo.FindRuleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload commission rule %d: %w", id, err)
	}
	return saved, nil
}

// ListRules retrieves every rule set, active or not.
func (s *CommissionService) ListRules(ctx context.Context) ([]domain.CommissionRuleSet, error) {
	rules, err := s.ruleRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rules: %w", err)
	}
	if rules == nil {
		return []domain.CommissionRuleSet{}, nil
	}
	return rules, nil
}

// ToggleRule flips the active flag. Deactivation only affects future
// computations; settled amounts are never rewritten.
func (s *CommissionService) ToggleRule(ctx context.Context, ruleID int64, active bool, operatorID int64) error {
	if _, err := s.ruleRepo.FindRuleByID(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to find commission rule %d: %w", ruleID, err)
	}
	if err := s.ruleRepo.SetRuleActive(ctx, ruleID, active, operatorID); err != nil {
		return fmt.Errorf("failed to toggle commission rule %d: %w", ruleID, err)
	}
	return nil
}

// DeleteRule removes a rule set that no settlement references. Referenced
// rule sets must be deactivated instead.
func (s *CommissionService) DeleteRule(ctx context.Context, ruleID int64) error {
	if _, err := s.ruleRepo.FindRuleByID(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to find commission rule %d: %w", ruleID, err)
	}
	referenced, err := s.refChecker.RuleIsReferenced(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("failed to check settlement references for rule %d: %w", ruleID, err)
	}
	if referenced {
		return fmt.Errorf("%w: rule %d is referenced by settlements, deactivate it instead", apperrors.ErrConflict, ruleID)
	}
	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete commission rule %d: %w", ruleID, err)
	}
	return nil
}
