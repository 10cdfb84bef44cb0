package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// DictTypePaymentMethod groups payment-method rows in the system dictionary.
const DictTypePaymentMethod = "payment_method"

// SystemDictItem is one row of the generic system_dict table. Payment-method
// rows carry an optional fee configuration in the extra columns.
type SystemDictItem struct {
	ID        int64               `json:"id" db:"id"`
	DictType  string              `json:"dictType" db:"dict_type"`
	DictKey   string              `json:"dictKey" db:"dict_key"`
	DictLabel string              `json:"dictLabel" db:"dict_label"`
	FeeType   sql.NullString      `json:"feeType" db:"fee_type"`
	FeeValue  decimal.NullDecimal `json:"feeValue" db:"fee_value"`
	Enabled   bool                `json:"enabled" db:"enabled"`
	SortOrder int                 `json:"sortOrder" db:"sort_order"`
	AuditFields
}
