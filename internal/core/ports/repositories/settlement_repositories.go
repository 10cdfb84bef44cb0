package repositories

import (
	"context"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// SettlementReader defines read operations for commission settlements.
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement with its items.
	FindSettlementByID(ctx context.Context, settlementID int64) (*domain.CommissionSettlement, error)

	// ListSettlements retrieves settlements for a month, without items. An
	// empty monthKey lists all months.
	ListSettlements(ctx context.Context, monthKey string) ([]domain.CommissionSettlement, error)
}

// SettlementWriter defines write operations for commission settlements.
type SettlementWriter interface {
	// CreateSettlement persists a draft settlement and its items atomically,
	// returning the settlement id. A duplicate (month, user) pair returns
	// apperrors.ErrDuplicate.
	CreateSettlement(ctx context.Context, settlement domain.CommissionSettlement) (int64, error)

	// FinalizeSettlement transitions a draft to finalized. Finalizing a
	// non-draft settlement returns apperrors.ErrValidation.
	FinalizeSettlement(ctx context.Context, settlementID int64, operatorID int64) error

	// RuleIsReferenced reports whether any settlement references a rule set.
	RuleIsReferenced(ctx context.Context, ruleID int64) (bool, error)
}

// SettlementRepositoryFacade combines settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
