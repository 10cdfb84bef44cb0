package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// SettlementItemRequest is one receipt to settle.
type SettlementItemRequest struct {
	ReceiptRef string          `json:"receiptRef" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"required,uppercase,len=3"`
}

// CreateSettlementRequest computes and stores a draft settlement for a user
// and month from the given receipts.
type CreateSettlementRequest struct {
	MonthKey     string                  `json:"monthKey" binding:"required"`
	UserID       int64                   `json:"userID" binding:"required"`
	DepartmentID int64                   `json:"departmentID"`
	Items        []SettlementItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SettlementItemResponse is one computed settlement line.
type SettlementItemResponse struct {
	ID              int64           `json:"id"`
	ReceiptRef      string          `json:"receiptRef"`
	SourceAmount    decimal.Decimal `json:"sourceAmount"`
	SourceCurrency  string          `json:"sourceCurrency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	RateApplied     decimal.Decimal `json:"rateApplied"`
	Commission      decimal.Decimal `json:"commission"`
}

// SettlementResponse describes a commission settlement.
type SettlementResponse struct {
	ID               int64                    `json:"id"`
	Number           string                   `json:"number"`
	MonthKey         string                   `json:"monthKey"`
	UserID           int64                    `json:"userID"`
	RuleSetID        int64                    `json:"ruleSetID"`
	Status           string                   `json:"status"`
	Currency         string                   `json:"currency"`
	TotalAmount      decimal.Decimal          `json:"totalAmount"`
	CommissionAmount decimal.Decimal          `json:"commissionAmount"`
	FinalizedAt      *time.Time               `json:"finalizedAt"`
	Items            []SettlementItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
}

// ToSettlementResponse converts a domain settlement to its DTO.
func ToSettlementResponse(s *domain.CommissionSettlement) SettlementResponse {
	items := make([]SettlementItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SettlementItemResponse{
			ID:              it.ID,
			ReceiptRef:      it.ReceiptRef,
			SourceAmount:    it.SourceAmount,
			SourceCurrency:  it.SourceCurrency,
			ConvertedAmount: it.ConvertedAmount,
			RateApplied:     it.RateApplied,
			Commission:      it.Commission,
		}
	}
	return SettlementResponse{
		ID:               s.ID,
		Number:           s.Number,
		MonthKey:         s.MonthKey,
		UserID:           s.UserID,
		RuleSetID:        s.RuleSetID,
		Status:           string(s.Status),
		Currency:         s.Currency,
		TotalAmount:      s.TotalAmount,
		CommissionAmount: s.CommissionAmount,
		FinalizedAt:      s.FinalizedAt,
		Items:            items,
		CreatedAt:        s.CreatedAt,
	}
}

// ToListSettlementResponse converts a settlement slice to DTOs.
func ToListSettlementResponse(settlements []domain.CommissionSettlement) []SettlementResponse {
	res := make([]SettlementResponse, len(settlements))
	for i := range settlements {
		res[i] = ToSettlementResponse(&settlements[i])
	}
	return res
}
