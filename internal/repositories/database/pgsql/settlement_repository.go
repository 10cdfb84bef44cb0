package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	"github.com/techvision/crm-finance/internal/models"
	"github.com/techvision/crm-finance/internal/utils/mapping"
)

type PgxSettlementRepository struct {
	BaseRepository
}

// newPgxSettlementRepository creates a repository for commission settlements.
func newPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

const settlementColumns = `id, number, month_key, user_id, department_id, rule_set_id, status, currency, total_amount, commission_amount, finalized_at, created_at, created_by, last_updated_at, last_updated_by`

func scanSettlement(row pgx.Row) (models.CommissionSettlement, error) {
	var m models.CommissionSettlement
	err := row.Scan(
		&m.ID,
		&m.Number,
		&m.MonthKey,
		&m.UserID,
		&m.DepartmentID,
		&m.RuleSetID,
		&m.Status,
		&m.Currency,
		&m.TotalAmount,
		&m.CommissionAmount,
		&m.FinalizedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindSettlementByID retrieves a settlement with its items.
func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID int64) (*domain.CommissionSettlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM commission_settlements WHERE id = $1;`

	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, settlementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement %d: %w", settlementID, err)
	}

	itemQuery := `
		SELECT id, settlement_id, receipt_ref, source_amount, source_currency, converted_amount, rate_applied, commission, created_at
		FROM commission_settlement_items
		WHERE settlement_id = $1
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of settlement %d: %w", settlementID, err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SettlementItem, error) {
		var it models.SettlementItem
		err := row.Scan(&it.ID, &it.SettlementID, &it.ReceiptRef, &it.SourceAmount, &it.SourceCurrency, &it.ConvertedAmount, &it.RateApplied, &it.Commission, &it.CreatedAt)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items of settlement %d: %w", settlementID, err)
	}

	d := mapping.ToDomainSettlement(m, items)
	return &d, nil
}

// ListSettlements retrieves settlement headers for a month, newest first. An
// empty monthKey lists all months.
func (r *PgxSettlementRepository) ListSettlements(ctx context.Context, monthKey string) ([]domain.CommissionSettlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM commission_settlements
		WHERE ($1 = '' OR month_key = $1)
		ORDER BY id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CommissionSettlement, error) {
		return scanSettlement(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlements: %w", err)
	}

	ds := make([]domain.CommissionSettlement, len(ms))
	for i, m := range ms {
		ds[i] = mapping.ToDomainSettlement(m, nil)
	}
	return ds, nil
}

// CreateSettlement persists a draft settlement and its items atomically.
func (r *PgxSettlementRepository) CreateSettlement(ctx context.Context, settlement domain.CommissionSettlement) (int64, error) {
	m := mapping.ToModelSettlement(settlement)
	now := time.Now()

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		INSERT INTO commission_settlements (number, month_key, user_id, department_id, rule_set_id, status, currency, total_amount, commission_amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $10, $11)
		RETURNING id;
	`
	var settlementID int64
	if err := tx.QueryRow(ctx, headerQuery,
		m.Number, m.MonthKey, m.UserID, m.DepartmentID, m.RuleSetID, m.Status, m.Currency, m.TotalAmount, m.CommissionAmount, now, m.CreatedBy,
	).Scan(&settlementID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("settlement for user %d in %s already exists: %w", m.UserID, m.MonthKey, apperrors.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert settlement: %w", err)
	}

	itemQuery := `
		INSERT INTO commission_settlement_items (settlement_id, receipt_ref, source_amount, source_currency, converted_amount, rate_applied, commission, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, it := range mapping.ToModelSettlementItems(settlementID, settlement.Items) {
		if _, err := tx.Exec(ctx, itemQuery,
			settlementID, it.ReceiptRef, it.SourceAmount, it.SourceCurrency, it.ConvertedAmount, it.RateApplied, it.Commission, now,
		); err != nil {
			return 0, fmt.Errorf("failed to insert settlement item %s: %w", it.ReceiptRef, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return settlementID, nil
}

// FinalizeSettlement transitions a draft to finalized. The status predicate
// makes the transition idempotent under races: only one writer flips it.
func (r *PgxSettlementRepository) FinalizeSettlement(ctx context.Context, settlementID int64, operatorID int64) error {
	query := `
		UPDATE commission_settlements
		SET status = $1, finalized_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE id = $4 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query,
		string(domain.SettlementStatusFinalized), time.Now(), operatorID, settlementID, string(domain.SettlementStatusDraft),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize settlement %d: %w", settlementID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: settlement %d is not a draft", apperrors.ErrValidation, settlementID)
	}
	return nil
}

// RuleIsReferenced reports whether any settlement references a rule set.
func (r *PgxSettlementRepository) RuleIsReferenced(ctx context.Context, ruleID int64) (bool, error) {
	var referenced bool
	query := `SELECT EXISTS (SELECT 1 FROM commission_settlements WHERE rule_set_id = $1);`
	if err := r.Pool.QueryRow(ctx, query, ruleID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check references of rule %d: %w", ruleID, err)
	}
	return referenced, nil
}
