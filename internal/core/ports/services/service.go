package services

// ServiceContainer aggregates the service facades handed to the HTTP layer.
type ServiceContainer struct {
	ReceiptSvc    ReceiptSvcFacade
	ProcessingSvc ProcessingSvcFacade
	MatcherSvc    MatcherSvc
	UserSvc       UserSvcFacade
}
