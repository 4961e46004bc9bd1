package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/core/services"
	"github.com/SscSPs/bank_ledger/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const operationsHeader = `# HELP test_ledger_operations_total Ledger operations by operation and outcome.
# TYPE test_ledger_operations_total counter
`

type LedgerServiceTestSuite struct {
	ledgerFixture
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) TestDeposit_Success() {
	acc := s.openAccount("cust-1", domain.Checking)

	result, err := s.svc.Ledger.Deposit(s.ctx, acc.AccountID, dec("250.75"), "cash")

	s.Require().NoError(err)
	s.True(strings.HasPrefix(result.Reference, "DEP-20261018142501-"), result.Reference)
	s.True(result.Balance.Equal(dec("250.75")))
	s.Require().Len(result.Transactions, 1)
	s.Equal(domain.Deposit, result.Transactions[0].Type)
	s.Equal(fixedNow, result.Transactions[0].CreatedAt)
	s.True(s.balance(acc.AccountID).Equal(dec("250.75")))

	s.Require().Len(s.publisher.events, 1)
	s.Equal(domain.OpDeposit, s.publisher.events[0].Operation)
	s.Equal(result.Reference, s.publisher.events[0].Reference)
	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(operationsHeader+`test_ledger_operations_total{operation="deposit",outcome="success"} 1
`), "test_ledger_operations_total"))
}

func (s *LedgerServiceTestSuite) TestAmountValidation() {
	acc := s.openAccount("cust-1", domain.Checking)

	for _, amount := range []string{"0", "-5", "10.001"} {
		_, err := s.svc.Ledger.Deposit(s.ctx, acc.AccountID, dec(amount), "")
		s.ErrorIs(err, apperrors.ErrValidation, amount)
		_, err = s.svc.Ledger.Withdraw(s.ctx, acc.AccountID, dec(amount), "")
		s.ErrorIs(err, apperrors.ErrValidation, amount)
	}
	s.Empty(s.rows(acc.AccountID))
}

func (s *LedgerServiceTestSuite) TestWithdraw_InsufficientFundsLeavesNoRow() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "100")

	_, err := s.svc.Ledger.Withdraw(s.ctx, acc.AccountID, dec("100.01"), "atm")

	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.Len(s.rows(acc.AccountID), 1)
	s.True(s.balance(acc.AccountID).Equal(dec("100")))
}

func (s *LedgerServiceTestSuite) TestWithdraw_ExactBalance() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "100")

	result, err := s.svc.Ledger.Withdraw(s.ctx, acc.AccountID, dec("100"), "atm")

	s.Require().NoError(err)
	s.True(result.Balance.IsZero())
	s.True(strings.HasPrefix(result.Reference, "WDR-"))
}

func (s *LedgerServiceTestSuite) TestLockedAndInactiveAccountsRejected() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "100")

	_, err := s.svc.Account.LockAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.Deposit(s.ctx, acc.AccountID, dec("1"), "")
	s.ErrorIs(err, apperrors.ErrAccountLockedOrInactive)

	_, err = s.svc.Account.UnlockAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	_, err = s.svc.Account.DeactivateAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.Withdraw(s.ctx, acc.AccountID, dec("1"), "")
	s.ErrorIs(err, apperrors.ErrAccountLockedOrInactive)

	_, err = s.svc.Ledger.Deposit(s.ctx, "missing", dec("1"), "")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestTransfer_WithFee() {
	sender := s.openAccount("cust-1", domain.Checking)
	receiver := s.openAccount("cust-2", domain.Savings)
	s.fund(sender.AccountID, "1000")

	result, err := s.svc.Ledger.Transfer(s.ctx, sender.AccountID, receiver.AccountID, dec("200"), dec("15"), "rent")

	s.Require().NoError(err)
	s.True(result.SenderBalance.Equal(dec("785")))
	s.True(result.ReceiverBalance.Equal(dec("200")))
	s.Require().Len(result.Transactions, 3)
	for _, row := range result.Transactions {
		s.Equal(result.Reference, row.TransactionRef)
	}
	s.Equal(domain.TransferOut, result.Transactions[0].Type)
	s.Equal(domain.ServiceCharge, result.Transactions[1].Type)
	s.Equal(domain.TransferIn, result.Transactions[2].Type)
	s.Equal(receiver.AccountID, *result.Transactions[0].RelatedAccountID)
	s.Equal(sender.AccountID, *result.Transactions[2].RelatedAccountID)

	s.True(s.balance(sender.AccountID).Equal(dec("785")))
	s.True(s.balance(receiver.AccountID).Equal(dec("200")))

	fees, err := s.svc.Account.ListFees(s.ctx, sender.AccountID)
	s.Require().NoError(err)
	s.Require().Len(fees, 1)
	s.Equal(domain.FeeTransfer, fees[0].FeeType)
	s.True(fees[0].BalanceBefore.Equal(dec("800")))
	s.True(fees[0].BalanceAfter.Equal(dec("785")))

	byRef, err := s.svc.Account.GetTransactionsByRef(s.ctx, result.Reference)
	s.Require().NoError(err)
	s.Len(byRef, 3)

	assertHistoryConsistent(s.T(), s.rows(sender.AccountID))
	assertHistoryConsistent(s.T(), s.rows(receiver.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_FeeCountsTowardsFunds() {
	sender := s.openAccount("cust-1", domain.Checking)
	receiver := s.openAccount("cust-2", domain.Checking)
	s.fund(sender.AccountID, "210")

	_, err := s.svc.Ledger.Transfer(s.ctx, sender.AccountID, receiver.AccountID, dec("200"), dec("15"), "")

	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.True(s.balance(sender.AccountID).Equal(dec("210")))
	s.Empty(s.rows(receiver.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_Rejections() {
	sender := s.openAccount("cust-1", domain.Checking)
	receiver := s.openAccount("cust-2", domain.Checking)
	s.fund(sender.AccountID, "100")

	_, err := s.svc.Ledger.Transfer(s.ctx, sender.AccountID, sender.AccountID, dec("10"), decimal.Zero, "")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Ledger.Transfer(s.ctx, sender.AccountID, receiver.AccountID, dec("10"), dec("-1"), "")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Account.LockAccount(s.ctx, receiver.AccountID)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.Transfer(s.ctx, sender.AccountID, receiver.AccountID, dec("10"), decimal.Zero, "")
	s.ErrorIs(err, apperrors.ErrAccountLockedOrInactive)
	s.True(s.balance(sender.AccountID).Equal(dec("100")))
}

func (s *LedgerServiceTestSuite) TestTransfer_ZeroFeeWritesTwoRows() {
	sender := s.openAccount("cust-1", domain.Checking)
	receiver := s.openAccount("cust-2", domain.Checking)
	s.fund(sender.AccountID, "50")

	result, err := s.svc.Ledger.Transfer(s.ctx, sender.AccountID, receiver.AccountID, dec("50"), decimal.Zero, "")

	s.Require().NoError(err)
	s.Len(result.Transactions, 2)
	s.True(result.SenderBalance.IsZero())
}

func (s *LedgerServiceTestSuite) TestChargeFee() {
	acc := s.openAccount("cust-1", domain.Business)
	s.fund(acc.AccountID, "20")

	result, err := s.svc.Ledger.ChargeFee(s.ctx, acc.AccountID, dec("5"), domain.FeeMaintenance)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(result.Reference, "FEE-"))
	s.True(result.Balance.Equal(dec("15")))

	_, err = s.svc.Ledger.ChargeFee(s.ctx, acc.AccountID, dec("15.01"), domain.FeeOverdraft)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	_, err = s.svc.Ledger.ChargeFee(s.ctx, acc.AccountID, dec("1"), domain.FeeType("BOGUS"))
	s.ErrorIs(err, apperrors.ErrValidation)

	fees, err := s.svc.Account.ListFees(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.Require().Len(fees, 1)
	s.Equal(result.Reference, fees[0].TransactionRef)
}

func (s *LedgerServiceTestSuite) approvedLoan(customerID, principal string) domain.Loan {
	app, err := s.svc.Application.SubmitLoanApplication(s.ctx, customerID, dec(principal), 12)
	s.Require().NoError(err)
	app, err = s.svc.Application.ApproveApplication(s.ctx, app.ApplicationNumber)
	s.Require().NoError(err)
	loan, err := s.svc.Application.GetLoan(s.ctx, app.ResultID)
	s.Require().NoError(err)
	return *loan
}

func (s *LedgerServiceTestSuite) TestLoanLifecycle() {
	acc := s.openAccount("cust-1", domain.Checking)
	loan := s.approvedLoan("cust-1", "500")
	s.Equal(domain.LoanApproved, loan.Status)

	_, err := s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("10"))
	s.ErrorIs(err, apperrors.ErrLoanNotPayable)

	disbursed, err := s.svc.Ledger.DisburseLoan(s.ctx, loan.LoanID, acc.AccountID)
	s.Require().NoError(err)
	s.Equal(domain.LoanActive, disbursed.Loan.Status)
	s.True(disbursed.Balance.Equal(dec("500")))
	s.True(strings.HasPrefix(disbursed.Reference, "LDB-"))

	_, err = s.svc.Ledger.DisburseLoan(s.ctx, loan.LoanID, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("500.01"))
	s.ErrorIs(err, apperrors.ErrAmountExceedsBalance)

	paid, err := s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("200"))
	s.Require().NoError(err)
	s.True(paid.Loan.RemainingBalance.Equal(dec("300")))
	s.Equal(domain.LoanActive, paid.Loan.Status)
	s.True(paid.Balance.Equal(dec("300")))

	paid, err = s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("300"))
	s.Require().NoError(err)
	s.True(paid.Loan.RemainingBalance.IsZero())
	s.Equal(domain.LoanClosed, paid.Loan.Status)

	_, err = s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("1"))
	s.ErrorIs(err, apperrors.ErrLoanNotPayable)

	stored, err := s.svc.Application.GetLoan(s.ctx, loan.LoanID)
	s.Require().NoError(err)
	s.Equal(domain.LoanClosed, stored.Status)
	assertHistoryConsistent(s.T(), s.rows(acc.AccountID))
}

func (s *LedgerServiceTestSuite) TestPayLoan_InsufficientFunds() {
	acc := s.openAccount("cust-1", domain.Checking)
	other := s.openAccount("cust-1", domain.Checking)
	loan := s.approvedLoan("cust-1", "500")
	_, err := s.svc.Ledger.DisburseLoan(s.ctx, loan.LoanID, other.AccountID)
	s.Require().NoError(err)
	s.fund(acc.AccountID, "50")

	_, err = s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("60"))

	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	stored, err := s.svc.Application.GetLoan(s.ctx, loan.LoanID)
	s.Require().NoError(err)
	s.True(stored.RemainingBalance.Equal(dec("500")))
}

func (s *LedgerServiceTestSuite) TestLoanOfAnotherCustomerIsNotFound() {
	acc := s.openAccount("cust-2", domain.Checking)
	s.fund(acc.AccountID, "100")
	loan := s.approvedLoan("cust-1", "500")

	_, err := s.svc.Ledger.DisburseLoan(s.ctx, loan.LoanID, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrLoanNotFound)
	_, err = s.svc.Ledger.PayLoan(s.ctx, loan.LoanID, acc.AccountID, dec("10"))
	s.ErrorIs(err, apperrors.ErrLoanNotFound)
	_, err = s.svc.Ledger.PayLoan(s.ctx, "missing", acc.AccountID, dec("10"))
	s.ErrorIs(err, apperrors.ErrLoanNotFound)
}

func (s *LedgerServiceTestSuite) TestApplyMonthlyInterest() {
	acc := s.openAccount("cust-1", domain.Savings)
	s.fund(acc.AccountID, "10000")

	result, err := s.svc.Ledger.ApplyMonthlyInterest(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.True(result.Applied)
	s.Equal("2026-10", result.Period)
	s.True(result.Interest.Equal(dec("4.17")), result.Interest.String())
	s.True(result.Balance.Equal(dec("10004.17")))
	s.True(strings.HasPrefix(result.Reference, "INT-"))

	_, err = s.svc.Ledger.ApplyMonthlyInterest(s.ctx, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrInterestAlreadyApplied)
	s.Len(s.rows(acc.AccountID), 2)

	s.clock = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	result, err = s.svc.Ledger.ApplyMonthlyInterest(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.True(result.Applied)
	s.Equal("2026-11", result.Period)
}

func (s *LedgerServiceTestSuite) TestApplyMonthlyInterest_NothingToCredit() {
	acc := s.openAccount("cust-1", domain.Savings)

	result, err := s.svc.Ledger.ApplyMonthlyInterest(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(result.Applied)
	s.True(result.Interest.IsZero())
	s.Empty(s.rows(acc.AccountID))

	// The period was not consumed.
	s.fund(acc.AccountID, "1200")
	result, err = s.svc.Ledger.ApplyMonthlyInterest(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.True(result.Applied)
	s.True(result.Interest.Equal(dec("0.50")))
}

func (s *LedgerServiceTestSuite) TestApplyMonthlyInterest_NotInterestBearing() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "1000")

	_, err := s.svc.Ledger.ApplyMonthlyInterest(s.ctx, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrNotInterestBearing)
	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(operationsHeader+`test_ledger_operations_total{operation="apply_interest",outcome="rejected"} 1
test_ledger_operations_total{operation="deposit",outcome="success"} 1
`), "test_ledger_operations_total"))
}

func (s *LedgerServiceTestSuite) TestConcurrentWithdrawalsNeverOverdraw() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "1000")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, insufficient := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Ledger.Withdraw(context.Background(), acc.AccountID, dec("100"), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				insufficient++
			}
		}()
	}
	wg.Wait()

	s.Equal(10, succeeded)
	s.Equal(10, insufficient)
	s.True(s.balance(acc.AccountID).IsZero())
	assertHistoryConsistent(s.T(), s.rows(acc.AccountID))
}

func (s *LedgerServiceTestSuite) TestBalanceIsFoldOfHistory() {
	a := s.openAccount("cust-1", domain.Savings)
	b := s.openAccount("cust-2", domain.Checking)
	s.fund(a.AccountID, "500.10")

	_, err := s.svc.Ledger.Transfer(s.ctx, a.AccountID, b.AccountID, dec("120.05"), dec("1.25"), "")
	s.Require().NoError(err)
	_, err = s.svc.Ledger.Withdraw(s.ctx, b.AccountID, dec("20.05"), "")
	s.Require().NoError(err)
	_, err = s.svc.Ledger.ChargeFee(s.ctx, a.AccountID, dec("0.80"), domain.FeeCard)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.ApplyMonthlyInterest(s.ctx, a.AccountID)
	s.Require().NoError(err)

	for _, id := range []string{a.AccountID, b.AccountID} {
		rows := s.rows(id)
		assertHistoryConsistent(s.T(), rows)
		s.True(s.balance(id).Equal(rows[len(rows)-1].BalanceAfter))
	}
	s.True(s.balance(b.AccountID).Equal(dec("100")))
}

func TestLedger_AllocationExhaustedWritesNothing(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	clock := func() time.Time { return fixedNow }
	allocator := services.NewReferenceAllocator(3,
		services.WithAllocatorClock(clock),
		services.WithDigitSource(func(n int) (string, error) { return strings.Repeat("0", n), nil }))
	ledger := services.NewLedgerService(repos, allocator, services.WithLedgerClock(clock))

	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "acc-1", AccountNumber: "CHA-0001-2026", CustomerID: "c", AccountType: domain.Checking, IsActive: true}))

	first, err := ledger.Deposit(ctx, "acc-1", dec("10"), "")
	require.NoError(t, err)
	assert.Equal(t, "DEP-20261018142501-000000", first.Reference)

	_, err = ledger.Deposit(ctx, "acc-1", dec("10"), "")
	assert.ErrorIs(t, err, apperrors.ErrReferenceAllocationExhausted)

	balance, err := ledger.GetBalance(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10")))
}

func TestLedger_PublisherFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	publisher := new(MockEventPublisher)
	publisher.On("PublishLedgerEvent", mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.Operation == domain.OpDeposit && e.AccountID == "acc-1" && e.Amount.Equal(dec("10"))
	})).Return(errors.New("broker down")).Once()

	ledger := services.NewLedgerService(repos, services.NewReferenceAllocator(0), services.WithLedgerPublisher(publisher))
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "acc-1", AccountNumber: "CHA-0001-2026", CustomerID: "c", AccountType: domain.Checking, IsActive: true}))

	result, err := ledger.Deposit(ctx, "acc-1", dec("10"), "")
	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(dec("10")))
	publisher.AssertExpectations(t)
}

func TestLedger_RejectedOperationsAreNotPublished(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	publisher := new(MockEventPublisher)
	ledger := services.NewLedgerService(repos, services.NewReferenceAllocator(0), services.WithLedgerPublisher(publisher))
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "acc-1", AccountNumber: "CHA-0001-2026", CustomerID: "c", AccountType: domain.Checking, IsActive: true}))

	_, err := ledger.Withdraw(ctx, "acc-1", dec("10"), "")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	publisher.AssertNotCalled(t, "PublishLedgerEvent", mock.Anything, mock.Anything)
}
