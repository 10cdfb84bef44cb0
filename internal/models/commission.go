package models

import (
	"github.com/shopspring/decimal"
)

// CommissionRuleSet is one row of commission_rule_sets. Tiers and scope rows
// live in their own tables and are loaded together with the rule.
type CommissionRuleSet struct {
	ID        int64               `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	RuleType  string              `json:"ruleType" db:"rule_type"`
	FixedRate decimal.NullDecimal `json:"fixedRate" db:"fixed_rate"`
	Currency  string              `json:"currency" db:"currency"`
	RateMode  string              `json:"rateMode" db:"rate_mode"`
	IsActive  bool                `json:"isActive" db:"is_active"`
	AuditFields
}

// CommissionRuleTier is one row of commission_rule_tiers. A NULL tier_to
// means the tier is unbounded above.
type CommissionRuleTier struct {
	ID        int64               `json:"id" db:"id"`
	RuleSetID int64               `json:"ruleSetID" db:"rule_set_id"`
	TierFrom  decimal.Decimal     `json:"tierFrom" db:"tier_from"`
	TierTo    decimal.NullDecimal `json:"tierTo" db:"tier_to"`
	Rate      decimal.Decimal     `json:"rate" db:"rate"`
	SortOrder int                 `json:"sortOrder" db:"sort_order"`
}

// CommissionRuleScope is one row of commission_rule_scopes binding a rule to
// a department or a user. Exactly one of the two ids is set per row.
type CommissionRuleScope struct {
	ID           int64 `json:"id" db:"id"`
	RuleSetID    int64 `json:"ruleSetID" db:"rule_set_id"`
	DepartmentID int64 `json:"departmentID" db:"department_id"`
	UserID       int64 `json:"userID" db:"user_id"`
}
