package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/core/domain"
	"github.com/techvision/crm-finance/internal/dto"
)

// CurrencyReaderSvc defines read operations on the currency registry.
type CurrencyReaderSvc interface {
	// GetCurrency retrieves a specific currency by its code.
	GetCurrency(ctx context.Context, code string) (*domain.Currency, error)

	// ListActive retrieves active currencies ordered by sort_order.
	ListActive(ctx context.Context) ([]domain.Currency, error)

	// LoadRateTable builds an immutable rate snapshot for pure calculations.
	LoadRateTable(ctx context.Context) (domain.RateTable, error)

	// ListHistory returns rate audit entries, newest first.
	ListHistory(ctx context.Context, code string, limit int) ([]domain.ExchangeRateHistoryEntry, error)
}

// CurrencyWriterSvc defines mutating operations on the currency registry.
// Every successful rate mutation appends exactly one audit history entry.
type CurrencyWriterSvc interface {
	// CreateCurrency registers a new non-base currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, operatorID int64) (*domain.Currency, error)

	// SetFixedRate pins the settlement rate of a currency.
	SetFixedRate(ctx context.Context, code string, rate decimal.Decimal, operatorID int64) error

	// RecordFloatingRate stores a market rate quote; operatorID 0 marks the
	// rate feed as the author.
	RecordFloatingRate(ctx context.Context, code string, rate decimal.Decimal, operatorID int64) error
}

// CurrencySvcFacade combines all currency registry service interfaces.
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// RateSyncSvc pulls floating rates from the external feed into the registry.
type RateSyncSvc interface {
	// SyncFloatingRates refreshes every active non-base currency that the
	// feed quotes, returning the number of updated currencies.
	SyncFloatingRates(ctx context.Context, operatorID int64) (int, error)
}
