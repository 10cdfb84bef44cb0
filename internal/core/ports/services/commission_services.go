package services

import (
	"context"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/dto"
)

// CommissionComputeSvc performs commission calculations.
type CommissionComputeSvc interface {
	// ComputeCommission selects the applicable active rule for the scope and
	// applies it to the amount, converting into the rule currency first.
	// Returns apperrors.ErrNoApplicableRule when no active rule matches.
	ComputeCommission(ctx context.Context, req dto.ComputeCommissionRequest) (*domain.CommissionResult, error)
}

// CommissionRuleSvc manages the commission rule configuration.
type CommissionRuleSvc interface {
	// SaveRule creates (id 0) or updates a rule set.
	SaveRule(ctx context.Context, req dto.SaveRuleRequest, ruleID int64, operatorID int64) (*domain.CommissionRuleSet, error)

	// ListRules retrieves all rule sets.
	ListRules(ctx context.Context) ([]domain.CommissionRuleSet, error)

	// ToggleRule activates or deactivates a rule set. Deactivation never
	// rewrites finalized settlement items.
	ToggleRule(ctx context.Context, ruleID int64, active bool, operatorID int64) error

	// DeleteRule removes an unreferenced rule set; referenced rule sets
	// return apperrors.ErrConflict and must be deactivated instead.
	DeleteRule(ctx context.Context, ruleID int64) error
}

// CommissionSvcFacade combines commission service interfaces.
type CommissionSvcFacade interface {
	CommissionComputeSvc
	CommissionRuleSvc
}
