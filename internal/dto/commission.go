package dto

import (
	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// RuleTierRequest is one tier row of a tiered rule.
type RuleTierRequest struct {
	TierFrom  decimal.Decimal  `json:"tierFrom"`
	TierTo    *decimal.Decimal `json:"tierTo"` // null = unbounded
	Rate      decimal.Decimal  `json:"rate"`
	SortOrder int              `json:"sortOrder"`
}

// SaveRuleRequest creates or replaces a commission rule set.
type SaveRuleRequest struct {
	Name          string            `json:"name" binding:"required,max=80"`
	RuleType      string            `json:"ruleType" binding:"required,oneof=fixed tiered"`
	FixedRate     *decimal.Decimal  `json:"fixedRate"`
	Currency      string            `json:"currency" binding:"required,uppercase,len=3"`
	RateMode      string            `json:"rateMode" binding:"omitempty,oneof=floating fixed"`
	Tiers         []RuleTierRequest `json:"tiers"`
	DepartmentIDs []int64           `json:"departmentIDs"`
	UserIDs       []int64           `json:"userIDs"`
}

// ToDomainRule converts a save request into a domain rule set.
func (r SaveRuleRequest) ToDomainRule(id int64) domain.CommissionRuleSet {
	rateMode := domain.RateTypeFloating
	if r.RateMode != "" {
		rateMode = domain.RateType(r.RateMode)
	}
	tiers := make([]domain.RuleTier, len(r.Tiers))
	for i, t := range r.Tiers {
		order := t.SortOrder
		if order == 0 {
			order = i + 1
		}
		tiers[i] = domain.RuleTier{
			From:      t.TierFrom,
			To:        t.TierTo,
			Rate:      t.Rate,
			SortOrder: order,
		}
	}
	return domain.CommissionRuleSet{
		ID:        id,
		Name:      r.Name,
		RuleType:  domain.RuleType(r.RuleType),
		FixedRate: r.FixedRate,
		Currency:  r.Currency,
		RateMode:  rateMode,
		Tiers:     tiers,
		Scope: domain.RuleScope{
			DepartmentIDs: r.DepartmentIDs,
			UserIDs:       r.UserIDs,
		},
		IsActive: true,
	}
}

// RuleTierResponse is one tier row in a rule response.
type RuleTierResponse struct {
	TierFrom  decimal.Decimal  `json:"tierFrom"`
	TierTo    *decimal.Decimal `json:"tierTo"`
	Rate      decimal.Decimal  `json:"rate"`
	SortOrder int              `json:"sortOrder"`
}

// RuleResponse describes a commission rule set.
type RuleResponse struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	RuleType      string             `json:"ruleType"`
	FixedRate     *decimal.Decimal   `json:"fixedRate"`
	Currency      string             `json:"currency"`
	RateMode      string             `json:"rateMode"`
	Tiers         []RuleTierResponse `json:"tiers"`
	DepartmentIDs []int64            `json:"departmentIDs"`
	UserIDs       []int64            `json:"userIDs"`
	IsActive      bool               `json:"isActive"`
}

// ToRuleResponse converts a domain rule set to its DTO.
func ToRuleResponse(r *domain.CommissionRuleSet) RuleResponse {
	tiers := make([]RuleTierResponse, len(r.Tiers))
	for i, t := range r.Tiers {
		tiers[i] = RuleTierResponse{
			TierFrom:  t.From,
			TierTo:    t.To,
			Rate:      t.Rate,
			SortOrder: t.SortOrder,
		}
	}
	return RuleResponse{
		ID:            r.ID,
		Name:          r.Name,
		RuleType:      string(r.RuleType),
		FixedRate:     r.FixedRate,
		Currency:      r.Currency,
		RateMode:      string(r.RateMode),
		Tiers:         tiers,
		DepartmentIDs: r.Scope.DepartmentIDs,
		UserIDs:       r.Scope.UserIDs,
		IsActive:      r.IsActive,
	}
}

// ToListRuleResponse converts a slice of rule sets to DTOs.
func ToListRuleResponse(rules []domain.CommissionRuleSet) []RuleResponse {
	res := make([]RuleResponse, len(rules))
	for i := range rules {
		res[i] = ToRuleResponse(&rules[i])
	}
	return res
}

// ToggleRuleRequest flips a rule's active flag.
type ToggleRuleRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ComputeCommissionRequest asks for a single commission computation.
type ComputeCommissionRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Currency     string          `json:"currency" binding:"required,uppercase,len=3"`
	DepartmentID int64           `json:"departmentID"`
	UserID       int64           `json:"userID"`
}

// CommissionResponse is the outcome of a commission computation.
type CommissionResponse struct {
	RuleID             int64           `json:"ruleID"`
	RateApplied        decimal.Decimal `json:"rateApplied"`
	BaseAmount         decimal.Decimal `json:"baseAmount"`
	CommissionAmount   decimal.Decimal `json:"commissionAmount"`
	CommissionCurrency string          `json:"commissionCurrency"`
}

// ToCommissionResponse converts a domain result to its DTO.
func ToCommissionResponse(r domain.CommissionResult) CommissionResponse {
	return CommissionResponse{
		RuleID:             r.RuleID,
		RateApplied:        r.RateApplied,
		BaseAmount:         r.BaseAmount,
		CommissionAmount:   r.CommissionAmount,
		CommissionCurrency: r.CommissionCurrency,
	}
}
