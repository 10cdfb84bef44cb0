package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// CommissionSettlement is one row of commission_settlements. A unique index
// on (month_key, user_id) enforces one settlement per user per month.
type CommissionSettlement struct {
	ID               int64           `json:"id" db:"id"`
	Number           string          `json:"number" db:"number"`
	MonthKey         string          `json:"monthKey" db:"month_key"`
	UserID           int64           `json:"userID" db:"user_id"`
	DepartmentID     int64           `json:"departmentID" db:"department_id"`
	RuleSetID        int64           `json:"ruleSetID" db:"rule_set_id"`
	Status           string          `json:"status" db:"status"`
	Currency         string          `json:"currency" db:"currency"`
	TotalAmount      decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CommissionAmount decimal.Decimal `json:"commissionAmount" db:"commission_amount"`
	FinalizedAt      sql.NullTime    `json:"finalizedAt" db:"finalized_at"`
	AuditFields
}

// SettlementItem is one row of commission_settlement_items.
type SettlementItem struct {
	ID              int64           `json:"id" db:"id"`
	SettlementID    int64           `json:"settlementID" db:"settlement_id"`
	ReceiptRef      string          `json:"receiptRef" db:"receipt_ref"`
	SourceAmount    decimal.Decimal `json:"sourceAmount" db:"source_amount"`
	SourceCurrency  string          `json:"sourceCurrency" db:"source_currency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount" db:"converted_amount"`
	RateApplied     decimal.Decimal `json:"rateApplied" db:"rate_applied"`
	Commission      decimal.Decimal `json:"commission" db:"commission"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}
