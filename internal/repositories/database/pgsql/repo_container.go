package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx repository against the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:   newPgxCurrencyRepository(dbPool),
		FeeRuleRepo:    newPgxFeeRuleRepository(dbPool),
		RuleRepo:       newPgxCommissionRuleRepository(dbPool),
		SettlementRepo: newPgxSettlementRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
	}
}
