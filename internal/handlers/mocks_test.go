package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func ledgerResult(args mock.Arguments) (*domain.LedgerResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerResult), args.Error(1)
}

func loanLedgerResult(args mock.Arguments) (*domain.LoanLedgerResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanLedgerResult), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.LedgerResult, error) {
	return ledgerResult(m.Called(ctx, accountID, amount, description))
}
func (m *MockLedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.LedgerResult, error) {
	return ledgerResult(m.Called(ctx, accountID, amount, description))
}
func (m *MockLedgerService) ChargeFee(ctx context.Context, accountID string, amount decimal.Decimal, feeType domain.FeeType) (*domain.LedgerResult, error) {
	return ledgerResult(m.Called(ctx, accountID, amount, feeType))
}
func (m *MockLedgerService) Transfer(ctx context.Context, senderID, receiverID string, amount, fee decimal.Decimal, description string) (*domain.TransferResult, error) {
	args := m.Called(ctx, senderID, receiverID, amount, fee, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}
func (m *MockLedgerService) PayLoan(ctx context.Context, loanID, accountID string, amount decimal.Decimal) (*domain.LoanLedgerResult, error) {
	return loanLedgerResult(m.Called(ctx, loanID, accountID, amount))
}
func (m *MockLedgerService) DisburseLoan(ctx context.Context, loanID, accountID string) (*domain.LoanLedgerResult, error) {
	return loanLedgerResult(m.Called(ctx, loanID, accountID))
}
func (m *MockLedgerService) ApplyMonthlyInterest(ctx context.Context, accountID string) (*domain.InterestResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestResult), args.Error(1)
}
func (m *MockLedgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func accountResult(args mock.Arguments) (*domain.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, accountID))
}
func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, accountNumber))
}
func (m *MockAccountService) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}
func (m *MockAccountService) GetTransactionsByRef(ctx context.Context, ref string) ([]domain.Transaction, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockAccountService) ListFees(ctx context.Context, accountID string) ([]domain.FeeRecord, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeRecord), args.Error(1)
}
func (m *MockAccountService) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, accountID))
}
func (m *MockAccountService) UnlockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, accountID))
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, accountID))
}

// --- Mock ApplicationService ---
type MockApplicationService struct {
	mock.Mock
}

var _ portssvc.ApplicationSvcFacade = (*MockApplicationService)(nil)

func applicationResult(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) SubmitAccountApplication(ctx context.Context, customerID string, accountType domain.AccountType, interestRate *decimal.Decimal) (*domain.Application, error) {
	return applicationResult(m.Called(ctx, customerID, accountType, interestRate))
}
func (m *MockApplicationService) SubmitLoanApplication(ctx context.Context, customerID string, principal decimal.Decimal, termMonths int) (*domain.Application, error) {
	return applicationResult(m.Called(ctx, customerID, principal, termMonths))
}
func (m *MockApplicationService) GetApplication(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return applicationResult(m.Called(ctx, applicationNumber))
}
func (m *MockApplicationService) ApproveApplication(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return applicationResult(m.Called(ctx, applicationNumber))
}
func (m *MockApplicationService) RejectApplication(ctx context.Context, applicationNumber string, reason string) (*domain.Application, error) {
	return applicationResult(m.Called(ctx, applicationNumber, reason))
}
func (m *MockApplicationService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) Statement(ctx context.Context, accountID string, from, to time.Time) (*domain.Statement, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}
