package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/platform/metrics"
	"github.com/SscSPs/bank_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService implements the ledger operations.
// Every operation locks the rows of the accounts it touches before reading their balance,
// so concurrent debits against one account are applied one after another.
type ledgerService struct {
	BaseService
	uow          portsrepo.UnitOfWork
	accounts     portsrepo.AccountReader
	transactions portsrepo.TransactionReader
	allocator    *ReferenceAllocator
	publisher    portssvc.EventPublisher
	metrics      *metrics.Ledger
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerPublisher sets the publisher notified after each committed operation.
func WithLedgerPublisher(publisher portssvc.EventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.publisher = publisher
	}
}

// WithLedgerMetrics records operation outcomes and latency.
func WithLedgerMetrics(m *metrics.Ledger) LedgerServiceOption {
	return func(s *ledgerService) {
		s.metrics = m
	}
}

// WithLedgerClock sets the clock used for row timestamps and interest periods.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(repos *portsrepo.RepositoryProvider, allocator *ReferenceAllocator, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		uow:          repos.UnitOfWork,
		accounts:     repos.AccountRepo,
		transactions: repos.TransactionRepo,
		allocator:    allocator,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetBalance derives the balance of an existing account from its history.
func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := s.accounts.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return accounting.CalculateBalance(ctx, s.transactions, accountID)
}

// Deposit credits amount to the account.
func (s *ledgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.LedgerResult, error) {
	start := time.Now()
	result, err := s.singleEntry(ctx, accountID, domain.Deposit, domain.RefPrefixDeposit, amount, description)
	s.finish(ctx, domain.OpDeposit, start, err, resultRows(result))
	return result, err
}

// Withdraw debits amount from the account when the balance covers it.
func (s *ledgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.LedgerResult, error) {
	start := time.Now()
	result, err := s.singleEntry(ctx, accountID, domain.Withdrawal, domain.RefPrefixWithdrawal, amount, description)
	s.finish(ctx, domain.OpWithdraw, start, err, resultRows(result))
	return result, err
}

// singleEntry appends one row of txType, checking funds for debits.
func (s *ledgerService) singleEntry(ctx context.Context, accountID string, txType domain.TransactionType, refPrefix string, amount decimal.Decimal, description string) (*domain.LedgerResult, error) {
	if err := validatePositiveAmount("amount", amount); err != nil {
		return nil, err
	}

	var result *domain.LedgerResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := s.lockAccounts(ctx, tx, accountID); err != nil {
			return err
		}
		balance, err := accounting.CalculateBalance(ctx, tx.Transactions(), accountID)
		if err != nil {
			return err
		}
		if !txType.IsCredit() && balance.LessThan(amount) {
			return fmt.Errorf("%w: account %s has %s, needs %s", apperrors.ErrInsufficientFunds, accountID, balance.StringFixed(2), amount.StringFixed(2))
		}

		ref, err := s.allocator.Allocate(ctx, tx.References(), domain.TransactionRefPattern(refPrefix))
		if err != nil {
			return err
		}
		row, err := s.appendRow(ctx, tx, domain.Transaction{
			TransactionRef: ref,
			AccountID:      accountID,
			Type:           txType,
			Amount:         amount,
			BalanceAfter:   applySign(balance, txType, amount),
			Description:    description,
		})
		if err != nil {
			return err
		}
		result = &domain.LedgerResult{Reference: ref, AccountID: accountID, Balance: row.BalanceAfter, Transactions: []domain.Transaction{row}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer moves amount from sender to receiver and charges fee to the sender.
// All rows share one reference; either all of them persist or none.
func (s *ledgerService) Transfer(ctx context.Context, senderID, receiverID string, amount, fee decimal.Decimal, description string) (*domain.TransferResult, error) {
	start := time.Now()
	result, err := s.transfer(ctx, senderID, receiverID, amount, fee, description)
	var rows []domain.Transaction
	if result != nil {
		rows = result.Transactions
	}
	s.finish(ctx, domain.OpTransfer, start, err, rows)
	return result, err
}

func (s *ledgerService) transfer(ctx context.Context, senderID, receiverID string, amount, fee decimal.Decimal, description string) (*domain.TransferResult, error) {
	if err := validatePositiveAmount("amount", amount); err != nil {
		return nil, err
	}
	if err := validateNonNegativeAmount("fee", fee); err != nil {
		return nil, err
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: sender and receiver must be different accounts", apperrors.ErrValidation)
	}

	var result *domain.TransferResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := s.lockAccounts(ctx, tx, senderID, receiverID); err != nil {
			return err
		}
		senderBalance, err := accounting.CalculateBalance(ctx, tx.Transactions(), senderID)
		if err != nil {
			return err
		}
		receiverBalance, err := accounting.CalculateBalance(ctx, tx.Transactions(), receiverID)
		if err != nil {
			return err
		}
		total := amount.Add(fee)
		if senderBalance.LessThan(total) {
			return fmt.Errorf("%w: account %s has %s, needs %s", apperrors.ErrInsufficientFunds, senderID, senderBalance.StringFixed(2), total.StringFixed(2))
		}

		ref, err := s.allocator.Allocate(ctx, tx.References(), domain.TransactionRefPattern(domain.RefPrefixTransfer))
		if err != nil {
			return err
		}

		rows := make([]domain.Transaction, 0, 3)
		senderAfter := senderBalance.Sub(amount)
		out, err := s.appendRow(ctx, tx, domain.Transaction{
			TransactionRef:   ref,
			AccountID:        senderID,
			Type:             domain.TransferOut,
			Amount:           amount,
			RelatedAccountID: &receiverID,
			BalanceAfter:     senderAfter,
			Description:      description,
		})
		if err != nil {
			return err
		}
		rows = append(rows, out)

		if fee.IsPositive() {
			feeRow, err := s.chargeInTx(ctx, tx, senderID, ref, senderAfter, fee, domain.FeeTransfer, "Transfer fee")
			if err != nil {
				return err
			}
			senderAfter = feeRow.BalanceAfter
			rows = append(rows, feeRow)
		}

		in, err := s.appendRow(ctx, tx, domain.Transaction{
			TransactionRef:   ref,
			AccountID:        receiverID,
			Type:             domain.TransferIn,
			Amount:           amount,
			RelatedAccountID: &senderID,
			BalanceAfter:     receiverBalance.Add(amount),
			Description:      description,
		})
		if err != nil {
			return err
		}
		rows = append(rows, in)

		result = &domain.TransferResult{
			Reference:       ref,
			SenderBalance:   senderAfter,
			ReceiverBalance: in.BalanceAfter,
			Transactions:    rows,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChargeFee debits a service charge and records it in the fee history.
func (s *ledgerService) ChargeFee(ctx context.Context, accountID string, amount decimal.Decimal, feeType domain.FeeType) (*domain.LedgerResult, error) {
	start := time.Now()
	result, err := s.chargeFee(ctx, accountID, amount, feeType)
	s.finish(ctx, domain.OpChargeFee, start, err, resultRows(result))
	return result, err
}

func (s *ledgerService) chargeFee(ctx context.Context, accountID string, amount decimal.Decimal, feeType domain.FeeType) (*domain.LedgerResult, error) {
	if err := validatePositiveAmount("amount", amount); err != nil {
		return nil, err
	}
	if !feeType.Valid() {
		return nil, fmt.Errorf("%w: unknown fee type %q", apperrors.ErrValidation, feeType)
	}

	var result *domain.LedgerResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := s.lockAccounts(ctx, tx, accountID); err != nil {
			return err
		}
		balance, err := accounting.CalculateBalance(ctx, tx.Transactions(), accountID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return fmt.Errorf("%w: account %s has %s, fee is %s", apperrors.ErrInsufficientFunds, accountID, balance.StringFixed(2), amount.StringFixed(2))
		}
		ref, err := s.allocator.Allocate(ctx, tx.References(), domain.TransactionRefPattern(domain.RefPrefixFee))
		if err != nil {
			return err
		}
		row, err := s.chargeInTx(ctx, tx, accountID, ref, balance, amount, feeType, fmt.Sprintf("%s fee", feeType))
		if err != nil {
			return err
		}
		result = &domain.LedgerResult{Reference: ref, AccountID: accountID, Balance: row.BalanceAfter, Transactions: []domain.Transaction{row}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// chargeInTx appends a ServiceCharge row and its fee-history record.
func (s *ledgerService) chargeInTx(ctx context.Context, tx portsrepo.LedgerTx, accountID, ref string, balanceBefore, amount decimal.Decimal, feeType domain.FeeType, description string) (domain.Transaction, error) {
	row, err := s.appendRow(ctx, tx, domain.Transaction{
		TransactionRef: ref,
		AccountID:      accountID,
		Type:           domain.ServiceCharge,
		Amount:         amount,
		BalanceAfter:   balanceBefore.Sub(amount),
		Description:    description,
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	_, err = tx.Fees().SaveFeeRecord(ctx, domain.FeeRecord{
		AccountID:      accountID,
		FeeType:        feeType,
		Amount:         amount,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   row.BalanceAfter,
		TransactionRef: ref,
		ChargedAt:      row.CreatedAt,
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to record fee for account %s: %w", accountID, err)
	}
	return row, nil
}

// PayLoan debits the account and reduces the loan's remaining balance, closing it at zero.
func (s *ledgerService) PayLoan(ctx context.Context, loanID, accountID string, amount decimal.Decimal) (*domain.LoanLedgerResult, error) {
	start := time.Now()
	result, err := s.payLoan(ctx, loanID, accountID, amount)
	s.finish(ctx, domain.OpPayLoan, start, err, loanRows(result))
	return result, err
}

func (s *ledgerService) payLoan(ctx context.Context, loanID, accountID string, amount decimal.Decimal) (*domain.LoanLedgerResult, error) {
	if err := validatePositiveAmount("amount", amount); err != nil {
		return nil, err
	}

	var result *domain.LoanLedgerResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := s.lockAccounts(ctx, tx, accountID)
		if err != nil {
			return err
		}
		loan, err := s.lockCustomerLoan(ctx, tx, loanID, accounts[accountID].CustomerID)
		if err != nil {
			return err
		}
		if !loan.IsPayable() {
			return fmt.Errorf("%w: loan %s is %s", apperrors.ErrLoanNotPayable, loanID, loan.Status)
		}
		if amount.GreaterThan(loan.RemainingBalance) {
			return fmt.Errorf("%w: remaining %s, payment %s", apperrors.ErrAmountExceedsBalance, loan.RemainingBalance.StringFixed(2), amount.StringFixed(2))
		}
		balance, err := accounting.CalculateBalance(ctx, tx.Transactions(), accountID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return fmt.Errorf("%w: account %s has %s, needs %s", apperrors.ErrInsufficientFunds, accountID, balance.StringFixed(2), amount.StringFixed(2))
		}

		ref, err := s.allocator.Allocate(ctx, tx.References(), domain.TransactionRefPattern(domain.RefPrefixLoanPayment))
		if err != nil {
			return err
		}
		row, err := s.appendRow(ctx, tx, domain.Transaction{
			TransactionRef: ref,
			AccountID:      accountID,
			Type:           domain.LoanPayment,
			Amount:         amount,
			BalanceAfter:   balance.Sub(amount),
			Description:    fmt.Sprintf("Loan payment %s", loan.ApplicationNumber),
		})
		if err != nil {
			return err
		}

		loan.RemainingBalance = loan.RemainingBalance.Sub(amount)
		if loan.RemainingBalance.IsZero() {
			loan.Status = domain.LoanClosed
		}
		loan.LastUpdatedAt = row.CreatedAt
		if err := tx.Loans().UpdateLoan(ctx, *loan); err != nil {
			return fmt.Errorf("failed to update loan %s: %w", loanID, err)
		}

		result = &domain.LoanLedgerResult{
			LedgerResult: domain.LedgerResult{Reference: ref, AccountID: accountID, Balance: row.BalanceAfter, Transactions: []domain.Transaction{row}},
			Loan:         *loan,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DisburseLoan credits the principal of an approved loan and activates it.
func (s *ledgerService) DisburseLoan(ctx context.Context, loanID, accountID string) (*domain.LoanLedgerResult, error) {
	start := time.Now()
	result, err := s.disburseLoan(ctx, loanID, accountID)
	s.finish(ctx, domain.OpDisburseLoan, start, err, loanRows(result))
	return result, err
}

func (s *ledgerService) disburseLoan(ctx context.Context, loanID, accountID string) (*domain.LoanLedgerResult, error) {
	var result *domain.LoanLedgerResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := s.lockAccounts(ctx, tx, accountID)
		if err != nil {
			return err
		}
		loan, err := s.lockCustomerLoan(ctx, tx, loanID, accounts[accountID].CustomerID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanApproved {
			return fmt.Errorf("%w: loan %s is %s, only %s loans can be disbursed", apperrors.ErrValidation, loanID, loan.Status, domain.LoanApproved)
		}
		balance, err := accounting.CalculateBalance(ctx, tx.Transactions(), accountID)
		if err != nil {
			return err
		}

		ref, err := s.allocator.Allocate(ctx, tx.References(), domain.TransactionRefPattern(domain.RefPrefixDisbursement))
		if err != nil {
			return err
		}
		row, err := s.appendRow(ctx, tx, domain.Transaction{
			TransactionRef: ref,
			AccountID:      accountID,
			Type:           domain.LoanDisbursement,
			Amount:         loan.Principal,
			BalanceAfter:   balance.Add(loan.Principal),
			Description:    fmt.Sprintf("Loan disbursement %s", loan.ApplicationNumber),
		})
		if err != nil {
			return err
		}

		loan.Status = domain.LoanActive
		loan.DisbursedAccountID = &accountID
		loan.LastUpdatedAt = row.CreatedAt
		if err := tx.Loans().UpdateLoan(ctx, *loan); err != nil {
			return fmt.Errorf("failed to update loan %s: %w", loanID, err)
		}

		result = &domain.LoanLedgerResult{
			LedgerResult: domain.LedgerResult{Reference: ref, AccountID: accountID, Balance: row.BalanceAfter, Transactions: []domain.Transaction{row}},
			Loan:         *loan,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyMonthlyInterest credits one month of interest to an interest-bearing account.
// The period is checked and marked inside the same unit of work as the credit,
// so a period can be applied at most once.
func (s *ledgerService) ApplyMonthlyInterest(ctx context.Context, accountID string) (*domain.InterestResult, error) {
	start := time.Now()
	result, err := s.applyMonthlyInterest(ctx, accountID)
	var rows []domain.Transaction
	if result != nil {
		rows = result.Transactions
	}
	s.finish(ctx, domain.OpInterest, start, err, rows)
	return result, err
}

func (s *ledgerService) applyMonthlyInterest(ctx context.Context, accountID string) (*domain.InterestResult, error) {
	var result *domain.InterestResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := s.lockAccounts(ctx, tx, accountID)
		if err != nil {
			return err
		}
		account := accounts[accountID]
		if !account.AccountType.IsInterestBearing() || account.InterestRate == nil {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrNotInterestBearing, accountID, account.AccountType)
		}

		now := s.Now()
		period := now.Format("2006-01")
		if account.LastInterestPeriod == period {
			return fmt.Errorf("%w: account %s, period %s", apperrors.ErrInterestAlreadyApplied, accountID, period)
		}

		balance, err := accounting.CalculateBalance(ctx, tx.Transactions(), accountID)
		if err != nil {
			return err
		}
		interest := accounting.MonthlyInterest(balance, *account.InterestRate)
		result = &domain.InterestResult{
			LedgerResult: domain.LedgerResult{AccountID: accountID, Balance: balance},
			Interest:     interest,
			Period:       period,
		}
		if !interest.IsPositive() {
			return nil
		}

		marked, err := tx.Accounts().MarkInterestApplied(ctx, accountID, period, now)
		if err != nil {
			return fmt.Errorf("failed to mark interest period for account %s: %w", accountID, err)
		}
		if !marked {
			return fmt.Errorf("%w: account %s, period %s", apperrors.ErrInterestAlreadyApplied, accountID, period)
		}

		ref, err := s.allocator.Allocate(ctx, tx.References(), domain.TransactionRefPattern(domain.RefPrefixInterest))
		if err != nil {
			return err
		}
		row, err := s.appendRow(ctx, tx, domain.Transaction{
			TransactionRef: ref,
			AccountID:      accountID,
			Type:           domain.InterestPayment,
			Amount:         interest,
			BalanceAfter:   balance.Add(interest),
			Description:    fmt.Sprintf("Interest for %s at %s%%", period, account.InterestRate.String()),
		})
		if err != nil {
			return err
		}
		result.Reference = ref
		result.Balance = row.BalanceAfter
		result.Transactions = []domain.Transaction{row}
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockAccounts locks the given accounts in ascending id order and checks they can transact.
func (s *ledgerService) lockAccounts(ctx context.Context, tx portsrepo.LedgerTx, accountIDs ...string) (map[string]domain.Account, error) {
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.CanTransact() {
			return nil, fmt.Errorf("%w: account %s (active=%t, locked=%t)", apperrors.ErrAccountLockedOrInactive, id, account.IsActive, account.IsLocked)
		}
	}
	return accounts, nil
}

// lockCustomerLoan locks a loan owned by customerID. Loans of other customers are reported as missing.
func (s *ledgerService) lockCustomerLoan(ctx context.Context, tx portsrepo.LedgerTx, loanID, customerID string) (*domain.Loan, error) {
	loan, err := tx.Loans().FindLoanByIDForUpdate(ctx, loanID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrLoanNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}
	if loan.CustomerID != customerID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrLoanNotFound, loanID)
	}
	return loan, nil
}

// appendRow stamps and appends a row, returning it with its assigned id.
func (s *ledgerService) appendRow(ctx context.Context, tx portsrepo.LedgerTx, row domain.Transaction) (domain.Transaction, error) {
	row.CreatedAt = s.Now()
	id, err := tx.Transactions().Append(ctx, row)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to append %s row for account %s: %w", row.Type, row.AccountID, err)
	}
	row.TransactionID = id
	return row, nil
}

// finish records metrics, logs the outcome and publishes events for committed rows.
func (s *ledgerService) finish(ctx context.Context, op domain.LedgerOperation, start time.Time, err error, rows []domain.Transaction) {
	s.metrics.ObserveOperation(op, err, time.Since(start))
	if err != nil {
		if metrics.Outcome(err) == metrics.OutcomeRejected {
			s.LogWarn(ctx, "Ledger operation rejected", slog.String("operation", string(op)), slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Ledger operation failed", slog.String("operation", string(op)))
		}
		return
	}

	s.LogInfo(ctx, "Ledger operation committed", slog.String("operation", string(op)), slog.Int("rows", len(rows)))
	if s.publisher == nil {
		return
	}
	for _, row := range rows {
		event := domain.LedgerEvent{
			Operation:    op,
			Reference:    row.TransactionRef,
			AccountID:    row.AccountID,
			Amount:       row.SignedAmount(),
			BalanceAfter: row.BalanceAfter,
			OccurredAt:   row.CreatedAt,
		}
		if err := s.publisher.PublishLedgerEvent(ctx, event); err != nil {
			s.LogError(ctx, err, "Failed to publish ledger event", slog.String("reference", row.TransactionRef), slog.String("account_id", row.AccountID))
		}
	}
}

func applySign(balance decimal.Decimal, txType domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(amount.Mul(decimal.NewFromInt(txType.Sign())))
}

func resultRows(result *domain.LedgerResult) []domain.Transaction {
	if result == nil {
		return nil
	}
	return result.Transactions
}

func loanRows(result *domain.LoanLedgerResult) []domain.Transaction {
	if result == nil {
		return nil
	}
	return result.Transactions
}
