package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	"github.com/techvision/crm-finance/internal/models"
	"github.com/techvision/crm-finance/internal/utils/mapping"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

const currencyColumns = `code, name, symbol, is_base, floating_rate, fixed_rate, active, sort_order, precision, version, created_at, created_by, last_updated_at, last_updated_by`

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var c models.Currency
	err := row.Scan(
		&c.Code,
		&c.Name,
		&c.Symbol,
		&c.IsBase,
		&c.FloatingRate,
		&c.FixedRate,
		&c.Active,
		&c.SortOrder,
		&c.Precision,
		&c.Version,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

// SaveCurrency inserts a new currency definition. The base currency is
// seeded by migration, so inserts always carry is_base = false.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (code, name, symbol, is_base, active, sort_order, precision, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6, 0, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.Code,
		m.Name,
		m.Symbol,
		m.Active,
		m.SortOrder,
		m.Precision,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("currency %s already exists: %w", m.Code, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save currency %s: %w", m.Code, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = $1;`

	m, err := scanCurrency(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", code, err)
	}

	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// ListActiveCurrencies retrieves active currencies ordered by sort_order.
func (r *PgxCurrencyRepository) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE active ORDER BY sort_order, code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(ms), nil
}

// UpdateRate sets one rate column and appends the audit history entry in a
// single transaction. The version predicate rejects stale writers: when the
// row moved on since the caller read it, zero rows match and nothing is
// written.
func (r *PgxCurrencyRepository) UpdateRate(ctx context.Context, code string, rateType domain.RateType, rate decimal.Decimal, operatorID int64, expectedVersion int64) error {
	column := "floating_rate"
	if rateType == domain.RateTypeFixed {
		column = "fixed_rate"
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now()
	updateQuery := `
		UPDATE currencies
		SET ` + column + ` = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE code = $4 AND version = $5 AND NOT is_base;
	`
	tag, err := tx.Exec(ctx, updateQuery, rate, now, operatorID, code, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update %s rate for %s: %w", rateType, code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("currency %s changed concurrently: %w", code, apperrors.ErrConflict)
	}

	historyQuery := `
		INSERT INTO exchange_rate_history (currency_code, rate_type, rate, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := tx.Exec(ctx, historyQuery, code, string(rateType), rate, now, operatorID); err != nil {
		return fmt.Errorf("failed to append rate history for %s: %w", code, err)
	}

	return r.Commit(ctx, tx)
}

// ListHistory returns rate audit entries newest first. An empty code means
// all currencies.
func (r *PgxCurrencyRepository) ListHistory(ctx context.Context, code string, limit int) ([]domain.ExchangeRateHistoryEntry, error) {
	query := `
		SELECT id, currency_code, rate_type, rate, created_at, created_by
		FROM exchange_rate_history
		WHERE ($1 = '' OR currency_code = $1)
		ORDER BY id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, code, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRateHistory, error) {
		var h models.ExchangeRateHistory
		err := row.Scan(&h.ID, &h.CurrencyCode, &h.RateType, &h.Rate, &h.CreatedAt, &h.CreatedBy)
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rate history: %w", err)
	}

	return mapping.ToDomainExchangeRateHistorySlice(ms), nil
}
