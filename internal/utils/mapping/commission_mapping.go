package mapping

import (
	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/models"
)

// ToModelRuleSet converts a domain rule set to its row model. Tiers and
// scope rows are mapped separately.
func ToModelRuleSet(d domain.CommissionRuleSet) models.CommissionRuleSet {
	return models.CommissionRuleSet{
		ID:          d.ID,
		Name:        d.Name,
		RuleType:    string(d.RuleType),
		FixedRate:   toNullDecimal(d.FixedRate),
		Currency:    d.Currency,
		RateMode:    string(d.RateMode),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToModelRuleTiers converts a rule's tiers to row models.
func ToModelRuleTiers(ruleSetID int64, tiers []domain.RuleTier) []models.CommissionRuleTier {
	ms := make([]models.CommissionRuleTier, len(tiers))
	for i, t := range tiers {
		ms[i] = models.CommissionRuleTier{
			RuleSetID: ruleSetID,
			TierFrom:  t.From,
			TierTo:    toNullDecimal(t.To),
			Rate:      t.Rate,
			SortOrder: t.SortOrder,
		}
	}
	return ms
}

// ToDomainRuleSet assembles a domain rule set from its row models.
func ToDomainRuleSet(m models.CommissionRuleSet, tiers []models.CommissionRuleTier, scopes []models.CommissionRuleScope) domain.CommissionRuleSet {
	d := domain.CommissionRuleSet{
		ID:          m.ID,
		Name:        m.Name,
		RuleType:    domain.RuleType(m.RuleType),
		FixedRate:   fromNullDecimal(m.FixedRate),
		Currency:    m.Currency,
		RateMode:    domain.RateType(m.RateMode),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	d.Tiers = make([]domain.RuleTier, len(tiers))
	for i, t := range tiers {
		d.Tiers[i] = domain.RuleTier{
			From:      t.TierFrom,
			To:        fromNullDecimal(t.TierTo),
			Rate:      t.Rate,
			SortOrder: t.SortOrder,
		}
	}
	for _, s := range scopes {
		if s.UserID != 0 {
			d.Scope.UserIDs = append(d.Scope.UserIDs, s.UserID)
		}
		if s.DepartmentID != 0 {
			d.Scope.DepartmentIDs = append(d.Scope.DepartmentIDs, s.DepartmentID)
		}
	}
	return d
}
