package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplicationSvcFacade covers the account-opening and loan application workflow.
type ApplicationSvcFacade interface {
	SubmitAccountApplication(ctx context.Context, customerID string, accountType domain.AccountType, interestRate *decimal.Decimal) (*domain.Application, error)
	SubmitLoanApplication(ctx context.Context, customerID string, principal decimal.Decimal, termMonths int) (*domain.Application, error)
	GetApplication(ctx context.Context, applicationNumber string) (*domain.Application, error)

	// ApproveApplication opens the account or creates the loan the application asked for.
	ApproveApplication(ctx context.Context, applicationNumber string) (*domain.Application, error)
	RejectApplication(ctx context.Context, applicationNumber string, reason string) (*domain.Application, error)

	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
}
