package pgsql

import (
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txRepositories binds every repository to one open transaction.
type txRepositories struct {
	accounts     *PgxAccountRepository
	transactions *PgxTransactionRepository
	loans        *PgxLoanRepository
	applications *PgxApplicationRepository
	fees         *PgxFeeRepository
	references   *PgxReferenceRegistry
}

func newTxRepositories(db DBTX) *txRepositories {
	return &txRepositories{
		accounts:     newPgxAccountRepository(db),
		transactions: newPgxTransactionRepository(db),
		loans:        newPgxLoanRepository(db),
		applications: newPgxApplicationRepository(db),
		fees:         newPgxFeeRepository(db),
		references:   newPgxReferenceRegistry(db),
	}
}

var _ portsrepo.LedgerTx = (*txRepositories)(nil)

func (t *txRepositories) Accounts() portsrepo.AccountRepositoryFacade         { return t.accounts }
func (t *txRepositories) Transactions() portsrepo.TransactionStore            { return t.transactions }
func (t *txRepositories) Loans() portsrepo.LoanRepositoryFacade               { return t.loans }
func (t *txRepositories) Applications() portsrepo.ApplicationRepositoryFacade { return t.applications }
func (t *txRepositories) Fees() portsrepo.FeeRepositoryFacade                 { return t.fees }
func (t *txRepositories) References() portsrepo.ReferenceRegistry             { return t.references }

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	pooled := newTxRepositories(dbPool)

	return &portsrepo.RepositoryProvider{
		AccountRepo:     pooled.accounts,
		TransactionRepo: pooled.transactions,
		LoanRepo:        pooled.loans,
		ApplicationRepo: pooled.applications,
		FeeRepo:         pooled.fees,
		UnitOfWork:      NewUnitOfWork(dbPool),
	}
}
