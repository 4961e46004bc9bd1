package repositories

import (
	"context"
)

// LedgerTx exposes the repositories bound to a single unit of work.
// Everything read or written through it commits or rolls back together.
type LedgerTx interface {
	Accounts() AccountRepositoryFacade
	Transactions() TransactionStore
	Loans() LoanRepositoryFacade
	Applications() ApplicationRepositoryFacade
	Fees() FeeRepositoryFacade
	References() ReferenceRegistry
}

// UnitOfWork runs fn inside a database transaction.
// If fn returns an error the transaction is rolled back and the error is returned unchanged.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
