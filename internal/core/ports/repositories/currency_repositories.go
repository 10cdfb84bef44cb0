package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// CurrencyReader defines read operations for the currency registry.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListActiveCurrencies retrieves active currencies ordered by sort_order.
	ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for the currency registry.
type CurrencyWriter interface {
	// SaveCurrency persists a new currency definition.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// UpdateRate sets one rate field and appends the matching audit history
	// entry in a single transaction. expectedVersion guards against lost
	// updates; a mismatch returns apperrors.ErrConflict and writes nothing.
	UpdateRate(ctx context.Context, code string, rateType domain.RateType, rate decimal.Decimal, operatorID int64, expectedVersion int64) error
}

// ExchangeRateHistoryReader reads the append-only rate audit log.
type ExchangeRateHistoryReader interface {
	// ListHistory returns audit entries newest first. An empty code means all
	// currencies.
	ListHistory(ctx context.Context, code string, limit int) ([]domain.ExchangeRateHistoryEntry, error)
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
	ExchangeRateHistoryReader
}

// CurrencyRepositoryWithTx extends CurrencyRepositoryFacade with transaction
// capabilities.
type CurrencyRepositoryWithTx interface {
	CurrencyRepositoryFacade
	TransactionManager
}
