package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
)

// txView operates on a state the caller already holds the lock for.
type txView struct {
	st *state
}

var (
	_ portsrepo.LedgerTx                    = (*txView)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*txView)(nil)
	_ portsrepo.TransactionStore            = (*txView)(nil)
	_ portsrepo.LoanRepositoryFacade        = (*txView)(nil)
	_ portsrepo.ApplicationRepositoryFacade = (*txView)(nil)
	_ portsrepo.FeeRepositoryFacade         = (*txView)(nil)
	_ portsrepo.ReferenceRegistry           = (*txView)(nil)
)

func (v *txView) Accounts() portsrepo.AccountRepositoryFacade         { return v }
func (v *txView) Transactions() portsrepo.TransactionStore            { return v }
func (v *txView) Loans() portsrepo.LoanRepositoryFacade               { return v }
func (v *txView) Applications() portsrepo.ApplicationRepositoryFacade { return v }
func (v *txView) Fees() portsrepo.FeeRepositoryFacade                 { return v }
func (v *txView) References() portsrepo.ReferenceRegistry             { return v }

// --- accounts ---

func (v *txView) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	account, ok := v.st.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (v *txView) FindAccountByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	for _, account := range v.st.accounts {
		if account.AccountNumber == accountNumber {
			return &account, nil
		}
	}
	return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, accountNumber)
}

func (v *txView) SaveAccount(_ context.Context, account domain.Account) error {
	if _, exists := v.st.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, existing := range v.st.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
		}
	}
	v.st.accounts[account.AccountID] = account
	return nil
}

func (v *txView) UpdateAccountStatus(_ context.Context, accountID string, isActive, isLocked bool, now time.Time) error {
	account, ok := v.st.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	account.IsActive = isActive
	account.IsLocked = isLocked
	account.LastUpdatedAt = now
	v.st.accounts[accountID] = account
	return nil
}

// FindAccountsByIDsForUpdate needs no row locks: the unit of work already holds the store exclusively.
func (v *txView) FindAccountsByIDsForUpdate(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := v.st.accounts[id]; ok {
			found[id] = account
		}
	}
	return found, nil
}

func (v *txView) MarkInterestApplied(_ context.Context, accountID string, period string, now time.Time) (bool, error) {
	account, ok := v.st.accounts[accountID]
	if !ok {
		return false, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if account.LastInterestPeriod == period {
		return false, nil
	}
	account.LastInterestPeriod = period
	account.LastUpdatedAt = now
	v.st.accounts[accountID] = account
	return true, nil
}

// --- transactions ---

// ListByAccount returns the history oldest first: by creation time, ties broken by id.
func (v *txView) ListByAccount(_ context.Context, accountID string) ([]domain.Transaction, error) {
	rows := make([]domain.Transaction, 0)
	for _, row := range v.st.transactions {
		if row.AccountID == accountID {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b domain.Transaction) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.TransactionID, b.TransactionID)
	})
	return rows, nil
}

func (v *txView) ListByAccountPage(_ context.Context, accountID string, limit int, beforeID *int64) ([]domain.Transaction, error) {
	rows := make([]domain.Transaction, 0, limit)
	for i := len(v.st.transactions) - 1; i >= 0 && len(rows) < limit; i-- {
		row := v.st.transactions[i]
		if row.AccountID != accountID {
			continue
		}
		if beforeID != nil && row.TransactionID >= *beforeID {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (v *txView) FindByRef(_ context.Context, ref string) ([]domain.Transaction, error) {
	rows := make([]domain.Transaction, 0)
	for _, row := range v.st.transactions {
		if row.TransactionRef == ref {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (v *txView) ExistsByRef(_ context.Context, ref string) (bool, error) {
	return slices.ContainsFunc(v.st.transactions, func(row domain.Transaction) bool {
		return row.TransactionRef == ref
	}), nil
}

func (v *txView) Append(_ context.Context, txn domain.Transaction) (int64, error) {
	if _, ok := v.st.accounts[txn.AccountID]; !ok {
		return 0, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.AccountID)
	}
	v.st.nextTxID++
	txn.TransactionID = v.st.nextTxID
	v.st.transactions = append(v.st.transactions, txn)
	return txn.TransactionID, nil
}

// --- loans ---

func (v *txView) FindLoanByID(_ context.Context, loanID string) (*domain.Loan, error) {
	loan, ok := v.st.loans[loanID]
	if !ok {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	return &loan, nil
}

func (v *txView) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return v.FindLoanByID(ctx, loanID)
}

func (v *txView) SaveLoan(_ context.Context, loan domain.Loan) error {
	if _, exists := v.st.loans[loan.LoanID]; exists {
		return fmt.Errorf("%w: loan %s", apperrors.ErrDuplicate, loan.LoanID)
	}
	v.st.loans[loan.LoanID] = loan
	return nil
}

func (v *txView) UpdateLoan(_ context.Context, loan domain.Loan) error {
	if _, ok := v.st.loans[loan.LoanID]; !ok {
		return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loan.LoanID)
	}
	v.st.loans[loan.LoanID] = loan
	return nil
}

// --- applications ---

func (v *txView) FindApplicationByNumber(_ context.Context, applicationNumber string) (*domain.Application, error) {
	app, ok := v.st.applications[applicationNumber]
	if !ok {
		return nil, fmt.Errorf("%w: application %s", apperrors.ErrNotFound, applicationNumber)
	}
	return &app, nil
}

func (v *txView) FindApplicationByNumberForUpdate(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return v.FindApplicationByNumber(ctx, applicationNumber)
}

func (v *txView) SaveApplication(_ context.Context, app domain.Application) error {
	if _, exists := v.st.applications[app.ApplicationNumber]; exists {
		return fmt.Errorf("%w: application %s", apperrors.ErrDuplicate, app.ApplicationNumber)
	}
	v.st.applications[app.ApplicationNumber] = app
	return nil
}

func (v *txView) UpdateApplication(_ context.Context, app domain.Application) error {
	if _, ok := v.st.applications[app.ApplicationNumber]; !ok {
		return fmt.Errorf("%w: application %s", apperrors.ErrNotFound, app.ApplicationNumber)
	}
	v.st.applications[app.ApplicationNumber] = app
	return nil
}

// --- fees ---

func (v *txView) SaveFeeRecord(_ context.Context, record domain.FeeRecord) (int64, error) {
	v.st.nextFeeID++
	record.FeeID = v.st.nextFeeID
	v.st.fees = append(v.st.fees, record)
	return record.FeeID, nil
}

// ListFeesByAccount returns the fee history newest first.
func (v *txView) ListFeesByAccount(_ context.Context, accountID string) ([]domain.FeeRecord, error) {
	records := make([]domain.FeeRecord, 0)
	for _, record := range v.st.fees {
		if record.AccountID == accountID {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].FeeID > records[j].FeeID })
	return records, nil
}

// --- references ---

func (v *txView) ClaimReference(_ context.Context, kind domain.ReferenceKind, code string) (bool, error) {
	key := referenceKey{kind: kind, code: code}
	if _, taken := v.st.references[key]; taken {
		return false, nil
	}
	v.st.references[key] = struct{}{}
	return true, nil
}
