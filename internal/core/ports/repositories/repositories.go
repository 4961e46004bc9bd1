package repositories

// RepositoryProvider bundles the pool-bound repositories and the unit of work of one driver.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionStore
	LoanRepo        LoanRepositoryFacade
	ApplicationRepo ApplicationRepositoryFacade
	FeeRepo         FeeRepositoryFacade
	UnitOfWork      UnitOfWork
}
