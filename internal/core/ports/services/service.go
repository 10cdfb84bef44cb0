package services

// ServiceContainer holds instances of all the application services.
type ServiceContainer struct {
	Currency   CurrencySvcFacade
	RateSync   RateSyncSvc
	PaymentFee PaymentFeeSvc
	Commission CommissionSvcFacade
	Settlement SettlementSvc
	Auth       AuthSvc
}
