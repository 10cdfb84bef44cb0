package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	"github.com/techvision/crm-finance/internal/dto"
)

const defaultPrecision = int32(2)

// CurrencyService implements the currency registry: currency definitions,
// fixed/floating rates relative to the base currency, and the append-only
// rate audit log.
type CurrencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

// GetCurrency retrieves a currency by its 3-letter code.
func (s *CurrencyService) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", code, err)
	}
	return currency, nil
}

// ListActive retrieves active currencies ordered by sort_order.
func (s *CurrencyService) ListActive(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListActiveCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// LoadRateTable builds the rate snapshot used by the resolver, the commission
// engine and the settlement service.
func (s *CurrencyService) LoadRateTable(ctx context.Context) (domain.RateTable, error) {
	currencies, err := s.currencyRepo.ListActiveCurrencies(ctx)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("failed to load rate table: %w", err)
	}
	return domain.NewRateTable(currencies), nil
}

// ListHistory returns rate audit entries, newest first.
func (s *CurrencyService) ListHistory(ctx context.Context, code string, limit int) ([]domain.ExchangeRateHistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 30
	}
	entries, err := s.currencyRepo.ListHistory(ctx, strings.ToUpper(strings.TrimSpace(code)), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	if entries == nil {
		return []domain.ExchangeRateHistoryEntry{}, nil
	}
	return entries, nil
}

// CreateCurrency registers a new non-base currency. The base currency is
// seeded by migration and can never be created through the API.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, operatorID int64) (*domain.Currency, error) {
	now := time.Now()
	precision := defaultPrecision
	if req.Precision != nil {
		precision = *req.Precision
	}
	currency := domain.Currency{
		Code:      req.Code,
		Name:      req.Name,
		Symbol:    req.Symbol,
		Active:    true,
		SortOrder: req.SortOrder,
		Precision: precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency %s: %w", req.Code, err)
	}
	return &currency, nil
}

// SetFixedRate pins the administrator settlement rate of a currency and
// appends the matching audit entry; both writes commit atomically in the
// repository. Stale concurrent edits surface as apperrors.ErrConflict and are
// not retried here.
func (s *CurrencyService) SetFixedRate(ctx context.Context, code string, rate decimal.Decimal, operatorID int64) error {
	return s.recordRate(ctx, code, domain.RateTypeFixed, rate, operatorID)
}

// RecordFloatingRate stores a market rate quote, typically on behalf of the
// rate feed (operatorID 0).
func (s *CurrencyService) RecordFloatingRate(ctx context.Context, code string, rate decimal.Decimal, operatorID int64) error {
	return s.recordRate(ctx, code, domain.RateTypeFloating, rate, operatorID)
}

func (s *CurrencyService) recordRate(ctx context.Context, code string, rateType domain.RateType, rate decimal.Decimal, operatorID int64) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	currency, err := s.GetCurrency(ctx, code)
	if err != nil {
		return err
	}
	if currency.IsBase {
		return fmt.Errorf("cannot set %s rate on %s: %w", rateType, currency.Code, apperrors.ErrImmutableBase)
	}
	if err := s.currencyRepo.UpdateRate(ctx, currency.Code, rateType, rate, operatorID, currency.Version); err != nil {
		return fmt.Errorf("failed to record %s rate for %s: %w", rateType, currency.Code, err)
	}
	return nil
}
