package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
)

// SettlementStatus is the lifecycle state of a commission settlement.
type SettlementStatus string

const (
	// SettlementStatusDraft allows item appends and recomputation.
	SettlementStatusDraft SettlementStatus = "draft"
	// SettlementStatusFinalized locks the settlement; items become immutable.
	SettlementStatusFinalized SettlementStatus = "finalized"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidateMonthKey checks the YYYY-MM settlement period format.
func ValidateMonthKey(monthKey string) error {
	if !monthKeyPattern.MatchString(monthKey) {
		return fmt.Errorf("%w: month must be in YYYY-MM format", apperrors.ErrValidation)
	}
	return nil
}

// CommissionSettlement aggregates the computed commissions of one user for
// one month. Once finalized, the settlement and its items never change, even
// if the referenced rule set is later edited or deactivated.
type CommissionSettlement struct {
	ID               int64            `json:"id"`
	Number           string           `json:"number"` // external reference, uuid
	MonthKey         string           `json:"monthKey"`
	UserID           int64            `json:"userID"`
	DepartmentID     int64            `json:"departmentID"`
	RuleSetID        int64            `json:"ruleSetID"`
	Status           SettlementStatus `json:"status"`
	Currency         string           `json:"currency"` // rule currency at computation time
	TotalAmount      decimal.Decimal  `json:"totalAmount"`
	CommissionAmount decimal.Decimal  `json:"commissionAmount"`
	FinalizedAt      *time.Time       `json:"finalizedAt"`
	Items            []SettlementItem `json:"items,omitempty"`
	AuditFields
}

// SettlementItem is one computed line of a settlement. Items are append-only
// while the settlement is a draft and frozen afterwards.
type SettlementItem struct {
	ID              int64           `json:"id"`
	SettlementID    int64           `json:"settlementID"`
	ReceiptRef      string          `json:"receiptRef"` // external receipt/contract reference
	SourceAmount    decimal.Decimal `json:"sourceAmount"`
	SourceCurrency  string          `json:"sourceCurrency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"` // in settlement currency
	RateApplied     decimal.Decimal `json:"rateApplied"`
	Commission      decimal.Decimal `json:"commission"`
	CreatedAt       time.Time       `json:"createdAt"`
}
