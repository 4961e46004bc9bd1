package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerWriterSvc defines the ledger operations, the only sanctioned way to move money.
type LedgerWriterSvc interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.LedgerResult, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.LedgerResult, error)
	Transfer(ctx context.Context, senderID, receiverID string, amount, fee decimal.Decimal, description string) (*domain.TransferResult, error)
	ChargeFee(ctx context.Context, accountID string, amount decimal.Decimal, feeType domain.FeeType) (*domain.LedgerResult, error)
	PayLoan(ctx context.Context, loanID, accountID string, amount decimal.Decimal) (*domain.LoanLedgerResult, error)
	DisburseLoan(ctx context.Context, loanID, accountID string) (*domain.LoanLedgerResult, error)
	ApplyMonthlyInterest(ctx context.Context, accountID string) (*domain.InterestResult, error)
}

// BalanceReaderSvc derives balances from transaction history.
type BalanceReaderSvc interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	BalanceReaderSvc
}
