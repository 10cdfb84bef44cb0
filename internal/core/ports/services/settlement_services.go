package services

import (
	"context"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/dto"
)

// SettlementSvc manages commission settlements. Finalized settlements and
// their items are immutable; later rule edits never rewrite them.
type SettlementSvc interface {
	// CreateDraft computes commissions for the given receipts through the
	// rule engine and stores the result as a draft settlement.
	CreateDraft(ctx context.Context, req dto.CreateSettlementRequest, operatorID int64) (*domain.CommissionSettlement, error)

	// Finalize locks a draft settlement.
	Finalize(ctx context.Context, settlementID int64, operatorID int64) error

	// GetSettlement retrieves a settlement with its items.
	GetSettlement(ctx context.Context, settlementID int64) (*domain.CommissionSettlement, error)

	// ListSettlements retrieves settlements for a month (empty = all).
	ListSettlements(ctx context.Context, monthKey string) ([]domain.CommissionSettlement, error)
}
