package mapping

import (
	"database/sql"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/models"
)

// ToModelSettlement converts a domain settlement header to its row model.
func ToModelSettlement(d domain.CommissionSettlement) models.CommissionSettlement {
	m := models.CommissionSettlement{
		ID:               d.ID,
		Number:           d.Number,
		MonthKey:         d.MonthKey,
		UserID:           d.UserID,
		DepartmentID:     d.DepartmentID,
		RuleSetID:        d.RuleSetID,
		Status:           string(d.Status),
		Currency:         d.Currency,
		TotalAmount:      d.TotalAmount,
		CommissionAmount: d.CommissionAmount,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	if d.FinalizedAt != nil {
		m.FinalizedAt = sql.NullTime{Time: *d.FinalizedAt, Valid: true}
	}
	return m
}

// ToDomainSettlement assembles a domain settlement from its rows.
func ToDomainSettlement(m models.CommissionSettlement, items []models.SettlementItem) domain.CommissionSettlement {
	d := domain.CommissionSettlement{
		ID:               m.ID,
		Number:           m.Number,
		MonthKey:         m.MonthKey,
		UserID:           m.UserID,
		DepartmentID:     m.DepartmentID,
		RuleSetID:        m.RuleSetID,
		Status:           domain.SettlementStatus(m.Status),
		Currency:         m.Currency,
		TotalAmount:      m.TotalAmount,
		CommissionAmount: m.CommissionAmount,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	if m.FinalizedAt.Valid {
		t := m.FinalizedAt.Time
		d.FinalizedAt = &t
	}
	d.Items = make([]domain.SettlementItem, len(items))
	for i, it := range items {
		d.Items[i] = domain.SettlementItem{
			ID:              it.ID,
			SettlementID:    it.SettlementID,
			ReceiptRef:      it.ReceiptRef,
			SourceAmount:    it.SourceAmount,
			SourceCurrency:  it.SourceCurrency,
			ConvertedAmount: it.ConvertedAmount,
			RateApplied:     it.RateApplied,
			Commission:      it.Commission,
			CreatedAt:       it.CreatedAt,
		}
	}
	return d
}

// ToModelSettlementItems converts domain items to row models.
func ToModelSettlementItems(settlementID int64, items []domain.SettlementItem) []models.SettlementItem {
	ms := make([]models.SettlementItem, len(items))
	for i, it := range items {
		ms[i] = models.SettlementItem{
			SettlementID:    settlementID,
			ReceiptRef:      it.ReceiptRef,
			SourceAmount:    it.SourceAmount,
			SourceCurrency:  it.SourceCurrency,
			ConvertedAmount: it.ConvertedAmount,
			RateApplied:     it.RateApplied,
			Commission:      it.Commission,
		}
	}
	return ms
}
