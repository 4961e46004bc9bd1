package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// LoanRepositoryFacade defines persistence for loans.
type LoanRepositoryFacade interface {
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindLoanByIDForUpdate locks the loan row until the unit of work ends.
	FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error)

	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoan persists remaining balance, status and disbursement account.
	UpdateLoan(ctx context.Context, loan domain.Loan) error
}
