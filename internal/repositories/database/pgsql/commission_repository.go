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

type PgxCommissionRuleRepository struct {
	BaseRepository
}

// newPgxCommissionRuleRepository creates a repository for commission rule
// sets, their tiers and their scope bindings.
func newPgxCommissionRuleRepository(pool *pgxpool.Pool) portsrepo.CommissionRuleRepositoryFacade {
	return &PgxCommissionRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CommissionRuleRepositoryFacade = (*PgxCommissionRuleRepository)(nil)

const ruleSetColumns = `id, name, rule_type, fixed_rate, currency, rate_mode, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanRuleSet(row pgx.Row) (models.CommissionRuleSet, error) {
	var m models.CommissionRuleSet
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.RuleType,
		&m.FixedRate,
		&m.Currency,
		&m.RateMode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindRuleByID retrieves a rule set with its tiers and scope.
func (r *PgxCommissionRuleRepository) FindRuleByID(ctx context.Context, ruleID int64) (*domain.CommissionRuleSet, error) {
	query := `SELECT ` + ruleSetColumns + ` FROM commission_rule_sets WHERE id = $1;`

	m, err := scanRuleSet(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find commission rule %d: %w", ruleID, err)
	}

	tiers, scopes, err := r.loadRuleChildren(ctx, []int64{ruleID})
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainRuleSet(m, tiers[ruleID], scopes[ruleID])
	return &d, nil
}

// ListActiveRules retrieves all active rule sets with tiers and scope.
func (r *PgxCommissionRuleRepository) ListActiveRules(ctx context.Context) ([]domain.CommissionRuleSet, error) {
	return r.listRules(ctx, true)
}

// ListRules retrieves all rule sets regardless of active flag.
func (r *PgxCommissionRuleRepository) ListRules(ctx context.Context) ([]domain.CommissionRuleSet, error) {
	return r.listRules(ctx, false)
}

func (r *PgxCommissionRuleRepository) listRules(ctx context.Context, activeOnly bool) ([]domain.CommissionRuleSet, error) {
	query := `SELECT ` + ruleSetColumns + ` FROM commission_rule_sets WHERE ($1 = FALSE OR is_active) ORDER BY id;`

	rows, err := r.Pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query commission rules: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CommissionRuleSet, error) {
		return scanRuleSet(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan commission rules: %w", err)
	}
	if len(ms) == 0 {
		return []domain.CommissionRuleSet{}, nil
	}

	ruleIDs := make([]int64, len(ms))
	for i, m := range ms {
		ruleIDs[i] = m.ID
	}
	tiers, scopes, err := r.loadRuleChildren(ctx, ruleIDs)
	if err != nil {
		return nil, err
	}

	ds := make([]domain.CommissionRuleSet, len(ms))
	for i, m := range ms {
		ds[i] = mapping.ToDomainRuleSet(m, tiers[m.ID], scopes[m.ID])
	}
	return ds, nil
}

// loadRuleChildren fetches tiers and scope rows for the given rules, grouped
// by rule set id.
func (r *PgxCommissionRuleRepository) loadRuleChildren(ctx context.Context, ruleIDs []int64) (map[int64][]models.CommissionRuleTier, map[int64][]models.CommissionRuleScope, error) {
	tierQuery := `
		SELECT id, rule_set_id, tier_from, tier_to, rate, sort_order
		FROM commission_rule_tiers
		WHERE rule_set_id = ANY($1)
		ORDER BY rule_set_id, sort_order;
	`
	rows, err := r.Pool.Query(ctx, tierQuery, ruleIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rule tiers: %w", err)
	}
	defer rows.Close()

	tiers := make(map[int64][]models.CommissionRuleTier)
	for rows.Next() {
		var t models.CommissionRuleTier
		if err := rows.Scan(&t.ID, &t.RuleSetID, &t.TierFrom, &t.TierTo, &t.Rate, &t.SortOrder); err != nil {
			return nil, nil, fmt.Errorf("failed to scan rule tier: %w", err)
		}
		tiers[t.RuleSetID] = append(tiers[t.RuleSetID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read rule tiers: %w", err)
	}

	scopeQuery := `
		SELECT id, rule_set_id, COALESCE(department_id, 0), COALESCE(user_id, 0)
		FROM commission_rule_scopes
		WHERE rule_set_id = ANY($1)
		ORDER BY rule_set_id, id;
	`
	scopeRows, err := r.Pool.Query(ctx, scopeQuery, ruleIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rule scopes: %w", err)
	}
	defer scopeRows.Close()

	scopes := make(map[int64][]models.CommissionRuleScope)
	for scopeRows.Next() {
		var s models.CommissionRuleScope
		if err := scopeRows.Scan(&s.ID, &s.RuleSetID, &s.DepartmentID, &s.UserID); err != nil {
			return nil, nil, fmt.Errorf("failed to scan rule scope: %w", err)
		}
		scopes[s.RuleSetID] = append(scopes[s.RuleSetID], s)
	}
	if err := scopeRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read rule scopes: %w", err)
	}

	return tiers, scopes, nil
}

// SaveRule inserts or replaces a rule set with its tiers and scope rows in a
// single transaction.
func (r *PgxCommissionRuleRepository) SaveRule(ctx context.Context, rule domain.CommissionRuleSet) (int64, error) {
	m := mapping.ToModelRuleSet(rule)
	now := time.Now()

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	ruleID := m.ID
	if ruleID == 0 {
		insertQuery := `
			INSERT INTO commission_rule_sets (name, rule_type, fixed_rate, currency, rate_mode, is_active, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $7, $8)
			RETURNING id;
		`
		if err := tx.QueryRow(ctx, insertQuery,
			m.Name, m.RuleType, m.FixedRate, m.Currency, m.RateMode, m.IsActive, now, m.CreatedBy,
		).Scan(&ruleID); err != nil {
			return 0, fmt.Errorf("failed to insert commission rule: %w", err)
		}
	} else {
		updateQuery := `
			UPDATE commission_rule_sets
			SET name = $1, rule_type = $2, fixed_rate = $3, currency = $4, rate_mode = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
			WHERE id = $9;
		`
		tag, err := tx.Exec(ctx, updateQuery,
			m.Name, m.RuleType, m.FixedRate, m.Currency, m.RateMode, m.IsActive, now, m.LastUpdatedBy, ruleID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update commission rule %d: %w", ruleID, err)
		}
		if tag.RowsAffected() == 0 {
			return 0, apperrors.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM commission_rule_tiers WHERE rule_set_id = $1;`, ruleID); err != nil {
			return 0, fmt.Errorf("failed to clear tiers of rule %d: %w", ruleID, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM commission_rule_scopes WHERE rule_set_id = $1;`, ruleID); err != nil {
			return 0, fmt.Errorf("failed to clear scopes of rule %d: %w", ruleID, err)
		}
	}

	tierQuery := `
		INSERT INTO commission_rule_tiers (rule_set_id, tier_from, tier_to, rate, sort_order)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, t := range mapping.ToModelRuleTiers(ruleID, rule.Tiers) {
		if _, err := tx.Exec(ctx, tierQuery, ruleID, t.TierFrom, t.TierTo, t.Rate, t.SortOrder); err != nil {
			return 0, fmt.Errorf("failed to insert tier of rule %d: %w", ruleID, err)
		}
	}

	deptQuery := `INSERT INTO commission_rule_scopes (rule_set_id, department_id) VALUES ($1, $2);`
	for _, deptID := range rule.Scope.DepartmentIDs {
		if _, err := tx.Exec(ctx, deptQuery, ruleID, deptID); err != nil {
			return 0, fmt.Errorf("failed to insert department scope of rule %d: %w", ruleID, err)
		}
	}
	userQuery := `INSERT INTO commission_rule_scopes (rule_set_id, user_id) VALUES ($1, $2);`
	for _, userID := range rule.Scope.UserIDs {
		if _, err := tx.Exec(ctx, userQuery, ruleID, userID); err != nil {
			return 0, fmt.Errorf("failed to insert user scope of rule %d: %w", ruleID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return ruleID, nil
}

// SetRuleActive toggles the active flag.
func (r *PgxCommissionRuleRepository) SetRuleActive(ctx context.Context, ruleID int64, active bool, operatorID int64) error {
	query := `
		UPDATE commission_rule_sets
		SET is_active = $1, last_updated_at = $2, last_updated_by = $3
		WHERE id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, active, time.Now(), operatorID, ruleID)
	if err != nil {
		return fmt.Errorf("failed to toggle commission rule %d: %w", ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRule removes a rule set and its children. A foreign key from
// settlements surfaces as ErrConflict.
func (r *PgxCommissionRuleRepository) DeleteRule(ctx context.Context, ruleID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM commission_rule_tiers WHERE rule_set_id = $1;`, ruleID); err != nil {
		return fmt.Errorf("failed to delete tiers of rule %d: %w", ruleID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM commission_rule_scopes WHERE rule_set_id = $1;`, ruleID); err != nil {
		return fmt.Errorf("failed to delete scopes of rule %d: %w", ruleID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM commission_rule_sets WHERE id = $1;`, ruleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("rule %d is still referenced: %w", ruleID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to delete commission rule %d: %w", ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
