package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	CurrencyRepo   CurrencyRepositoryWithTx
	FeeRuleRepo    FeeRuleRepositoryFacade
	RuleRepo       CommissionRuleRepositoryFacade
	SettlementRepo SettlementRepositoryFacade
	UserRepo       UserReader
}
