package repositories

import (
	"context"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// CommissionRuleReader defines read operations for commission rule sets.
type CommissionRuleReader interface {
	// FindRuleByID retrieves a rule set with its tiers and scope.
	FindRuleByID(ctx context.Context, ruleID int64) (*domain.CommissionRuleSet, error)

	// ListActiveRules retrieves all active rule sets with tiers and scope.
	ListActiveRules(ctx context.Context) ([]domain.CommissionRuleSet, error)

	// ListRules retrieves all rule sets regardless of active flag.
	ListRules(ctx context.Context) ([]domain.CommissionRuleSet, error)
}

// CommissionRuleWriter defines write operations for commission rule sets.
type CommissionRuleWriter interface {
	// SaveRule inserts or updates a rule set together with its tiers and
	// scope rows atomically, returning the rule id.
	SaveRule(ctx context.Context, rule domain.CommissionRuleSet) (int64, error)

	// SetRuleActive toggles the active flag.
	SetRuleActive(ctx context.Context, ruleID int64, active bool, operatorID int64) error

	// DeleteRule removes a rule set. Returns apperrors.ErrConflict when
	// settlements still reference it.
	DeleteRule(ctx context.Context, ruleID int64) error
}

// CommissionRuleRepositoryFacade combines rule repository interfaces.
type CommissionRuleRepositoryFacade interface {
	CommissionRuleReader
	CommissionRuleWriter
}
