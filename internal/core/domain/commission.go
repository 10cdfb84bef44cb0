package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
)

// RuleType is the closed set of commission rule kinds.
type RuleType string

const (
	// RuleTypeFixed applies a single rate to the whole settlement base.
	RuleTypeFixed RuleType = "fixed"
	// RuleTypeTiered picks the rate from a tier table keyed on the base amount.
	RuleTypeTiered RuleType = "tiered"
)

// ParseRuleType validates a wire-level rule type string.
func ParseRuleType(s string) (RuleType, error) {
	switch RuleType(s) {
	case RuleTypeFixed, RuleTypeTiered:
		return RuleType(s), nil
	}
	return "", fmt.Errorf("%w: unknown rule type %q", apperrors.ErrValidation, s)
}

// RuleTier is one half-open interval [From, To) of a tiered rule. A nil To
// means the tier is unbounded above. The tier rate applies to the full base
// amount, not marginally.
type RuleTier struct {
	ID        int64            `json:"id"`
	From      decimal.Decimal  `json:"tierFrom"`
	To        *decimal.Decimal `json:"tierTo"` // nil = unbounded
	Rate      decimal.Decimal  `json:"rate"`   // 0..1
	SortOrder int              `json:"sortOrder"`
}

// RuleScope restricts a rule to specific departments and/or users. An empty
// scope means the rule is global.
type RuleScope struct {
	DepartmentIDs []int64 `json:"departmentIDs"`
	UserIDs       []int64 `json:"userIDs"`
}

// IsGlobal reports whether the scope places no restriction at all.
func (s RuleScope) IsGlobal() bool {
	return len(s.DepartmentIDs) == 0 && len(s.UserIDs) == 0
}

// ContainsUser reports whether the scope names the given user.
func (s RuleScope) ContainsUser(userID int64) bool {
	for _, id := range s.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ContainsDepartment reports whether the scope names the given department.
func (s RuleScope) ContainsDepartment(departmentID int64) bool {
	for _, id := range s.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

// CommissionRuleSet is one configured commission rule. Rule sets are
// deactivated rather than deleted once settlements reference them.
type CommissionRuleSet struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	RuleType  RuleType         `json:"ruleType"`
	FixedRate *decimal.Decimal `json:"fixedRate"` // set iff RuleType == fixed, 0..1
	Currency  string           `json:"currency"`  // commission is computed in this currency
	RateMode  RateType         `json:"rateMode"`  // conversion mode; floating unless pinned
	Tiers     []RuleTier       `json:"tiers"`     // set iff RuleType == tiered
	Scope     RuleScope        `json:"scope"`
	IsActive  bool             `json:"isActive"`
	AuditFields
}

// TierRateFor returns the rate of the tier containing base. A base amount
// outside every tier yields a zero rate.
func (r CommissionRuleSet) TierRateFor(base decimal.Decimal) decimal.Decimal {
	for _, t := range r.Tiers {
		if base.LessThan(t.From) {
			continue
		}
		if t.To == nil || base.LessThan(*t.To) {
			return t.Rate
		}
	}
	return decimal.Zero
}

// RateFor returns the applicable rate for the given base amount.
func (r CommissionRuleSet) RateFor(base decimal.Decimal) decimal.Decimal {
	if r.RuleType == RuleTypeFixed {
		if r.FixedRate == nil {
			return decimal.Zero
		}
		return *r.FixedRate
	}
	return r.TierRateFor(base)
}

// Validate checks rule invariants before persistence.
func (r CommissionRuleSet) Validate() error {
	if r.Name == "" || len([]rune(r.Name)) > 80 {
		return fmt.Errorf("%w: rule name is required and must be at most 80 characters", apperrors.ErrValidation)
	}
	one := decimal.NewFromInt(1)
	switch r.RuleType {
	case RuleTypeFixed:
		if r.FixedRate == nil {
			return fmt.Errorf("%w: fixed rule requires a fixed rate", apperrors.ErrValidation)
		}
		if r.FixedRate.IsNegative() || r.FixedRate.GreaterThan(one) {
			return fmt.Errorf("%w: fixed rate must be between 0 and 1", apperrors.ErrValidation)
		}
	case RuleTypeTiered:
		if len(r.Tiers) == 0 {
			return fmt.Errorf("%w: tiered rule requires at least one tier", apperrors.ErrValidation)
		}
		for _, t := range r.Tiers {
			if t.From.IsNegative() {
				return fmt.Errorf("%w: tier lower bound must not be negative", apperrors.ErrValidation)
			}
			if t.To != nil && !t.To.GreaterThan(t.From) {
				return fmt.Errorf("%w: tier upper bound must exceed its lower bound", apperrors.ErrValidation)
			}
			if t.Rate.IsNegative() || t.Rate.GreaterThan(one) {
				return fmt.Errorf("%w: tier rate must be between 0 and 1", apperrors.ErrValidation)
			}
		}
	default:
		return fmt.Errorf("%w: unknown rule type %q", apperrors.ErrValidation, r.RuleType)
	}
	return nil
}

// SelectRule picks the applicable rule for a scope context using
// most-specific-wins ordering: user-scoped beats department-scoped beats
// global. Ties within a specificity level go to the highest rule id (the most
// recently created). Inactive rules must be filtered out by the caller.
func SelectRule(rules []CommissionRuleSet, departmentID, userID int64) (*CommissionRuleSet, error) {
	var best *CommissionRuleSet
	bestRank := -1
	for i := range rules {
		r := &rules[i]
		rank := -1
		switch {
		case userID > 0 && r.Scope.ContainsUser(userID):
			rank = 2
		case departmentID > 0 && r.Scope.ContainsDepartment(departmentID) && len(r.Scope.UserIDs) == 0:
			rank = 1
		case r.Scope.IsGlobal():
			rank = 0
		}
		if rank < 0 {
			continue
		}
		if rank > bestRank || (rank == bestRank && r.ID > best.ID) {
			best = r
			bestRank = rank
		}
	}
	if best == nil {
		return nil, apperrors.ErrNoApplicableRule
	}
	return best, nil
}

// CommissionResult is the outcome of one commission computation.
type CommissionResult struct {
	RuleID             int64           `json:"ruleID"`
	RateApplied        decimal.Decimal `json:"rateApplied"`
	BaseAmount         decimal.Decimal `json:"baseAmount"` // in commission currency
	CommissionAmount   decimal.Decimal `json:"commissionAmount"`
	CommissionCurrency string          `json:"commissionCurrency"`
}
