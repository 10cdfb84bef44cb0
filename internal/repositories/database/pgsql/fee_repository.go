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

type PgxFeeRuleRepository struct {
	BaseRepository
}

// newPgxFeeRuleRepository creates a repository over the payment-method rows
// of the system dictionary.
func newPgxFeeRuleRepository(pool *pgxpool.Pool) portsrepo.FeeRuleRepositoryFacade {
	return &PgxFeeRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FeeRuleRepositoryFacade = (*PgxFeeRuleRepository)(nil)

const dictColumns = `id, dict_type, dict_key, dict_label, fee_type, fee_value, enabled, sort_order, created_at, created_by, last_updated_at, last_updated_by`

func scanDictItem(row pgx.Row) (models.SystemDictItem, error) {
	var m models.SystemDictItem
	err := row.Scan(
		&m.ID,
		&m.DictType,
		&m.DictKey,
		&m.DictLabel,
		&m.FeeType,
		&m.FeeValue,
		&m.Enabled,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindFeeRule retrieves the enabled fee rule for a payment method code.
func (r *PgxFeeRuleRepository) FindFeeRule(ctx context.Context, methodCode string) (*domain.PaymentMethodFeeRule, error) {
	query := `SELECT ` + dictColumns + ` FROM system_dict WHERE dict_type = $1 AND dict_key = $2 AND enabled;`

	m, err := scanDictItem(r.Pool.QueryRow(ctx, query, models.DictTypePaymentMethod, methodCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee rule for %s: %w", methodCode, err)
	}

	d := mapping.ToDomainFeeRule(m)
	return &d, nil
}

// ListPaymentMethods retrieves enabled methods ordered by sort_order.
func (r *PgxFeeRuleRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethodFeeRule, error) {
	query := `SELECT ` + dictColumns + ` FROM system_dict WHERE dict_type = $1 AND enabled ORDER BY sort_order, dict_key;`

	rows, err := r.Pool.Query(ctx, query, models.DictTypePaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SystemDictItem, error) {
		return scanDictItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment methods: %w", err)
	}

	return mapping.ToDomainFeeRuleSlice(ms), nil
}

// UpsertFeeRule creates or updates the fee configuration of a method.
func (r *PgxFeeRuleRepository) UpsertFeeRule(ctx context.Context, rule domain.PaymentMethodFeeRule, operatorID int64) error {
	m := mapping.ToModelFeeRule(rule)
	now := time.Now()

	query := `
		INSERT INTO system_dict (dict_type, dict_key, dict_label, fee_type, fee_value, enabled, sort_order, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $8, $9)
		ON CONFLICT (dict_type, dict_key) DO UPDATE SET
			dict_label = EXCLUDED.dict_label,
			fee_type = EXCLUDED.fee_type,
			fee_value = EXCLUDED.fee_value,
			enabled = EXCLUDED.enabled,
			sort_order = EXCLUDED.sort_order,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DictType,
		m.DictKey,
		m.DictLabel,
		m.FeeType,
		m.FeeValue,
		m.Enabled,
		m.SortOrder,
		now,
		operatorID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fee rule for %s: %w", m.DictKey, err)
	}
	return nil
}
