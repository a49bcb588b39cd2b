package repositories

// RepositoryProvider bundles the repository facades handed to the service layer.
type RepositoryProvider struct {
	ReceiptRepo    ReceiptRepositoryFacade
	ObligationRepo ObligationRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	CategoryRepo   CategoryRepositoryFacade
	UserRepo       UserRepositoryFacade
}
