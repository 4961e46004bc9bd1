package memory

import (
	"context"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
)

// pooled serves calls made outside a unit of work. Each call is its own statement.
type pooled struct {
	store *Store
}

var (
	_ portsrepo.AccountRepositoryFacade     = pooled{}
	_ portsrepo.TransactionStore            = pooled{}
	_ portsrepo.LoanRepositoryFacade        = pooled{}
	_ portsrepo.ApplicationRepositoryFacade = pooled{}
	_ portsrepo.FeeRepositoryFacade         = pooled{}
)

func (p pooled) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return read(p.store, func(v *txView) (*domain.Account, error) { return v.FindAccountByID(ctx, accountID) })
}

func (p pooled) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return read(p.store, func(v *txView) (*domain.Account, error) { return v.FindAccountByNumber(ctx, accountNumber) })
}

func (p pooled) SaveAccount(ctx context.Context, account domain.Account) error {
	return write(p.store, func(v *txView) error { return v.SaveAccount(ctx, account) })
}

func (p pooled) UpdateAccountStatus(ctx context.Context, accountID string, isActive, isLocked bool, now time.Time) error {
	return write(p.store, func(v *txView) error { return v.UpdateAccountStatus(ctx, accountID, isActive, isLocked, now) })
}

func (p pooled) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return read(p.store, func(v *txView) (map[string]domain.Account, error) { return v.FindAccountsByIDsForUpdate(ctx, accountIDs) })
}

func (p pooled) MarkInterestApplied(ctx context.Context, accountID string, period string, now time.Time) (bool, error) {
	var marked bool
	err := write(p.store, func(v *txView) error {
		var err error
		marked, err = v.MarkInterestApplied(ctx, accountID, period, now)
		return err
	})
	return marked, err
}

func (p pooled) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	return read(p.store, func(v *txView) ([]domain.Transaction, error) { return v.ListByAccount(ctx, accountID) })
}

func (p pooled) ListByAccountPage(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.Transaction, error) {
	return read(p.store, func(v *txView) ([]domain.Transaction, error) {
		return v.ListByAccountPage(ctx, accountID, limit, beforeID)
	})
}

func (p pooled) FindByRef(ctx context.Context, ref string) ([]domain.Transaction, error) {
	return read(p.store, func(v *txView) ([]domain.Transaction, error) { return v.FindByRef(ctx, ref) })
}

func (p pooled) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	return read(p.store, func(v *txView) (bool, error) { return v.ExistsByRef(ctx, ref) })
}

func (p pooled) Append(ctx context.Context, txn domain.Transaction) (int64, error) {
	var id int64
	err := write(p.store, func(v *txView) error {
		var err error
		id, err = v.Append(ctx, txn)
		return err
	})
	return id, err
}

func (p pooled) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return read(p.store, func(v *txView) (*domain.Loan, error) { return v.FindLoanByID(ctx, loanID) })
}

func (p pooled) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return p.FindLoanByID(ctx, loanID)
}

func (p pooled) SaveLoan(ctx context.Context, loan domain.Loan) error {
	return write(p.store, func(v *txView) error { return v.SaveLoan(ctx, loan) })
}

func (p pooled) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	return write(p.store, func(v *txView) error { return v.UpdateLoan(ctx, loan) })
}

func (p pooled) FindApplicationByNumber(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return read(p.store, func(v *txView) (*domain.Application, error) { return v.FindApplicationByNumber(ctx, applicationNumber) })
}

func (p pooled) FindApplicationByNumberForUpdate(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return p.FindApplicationByNumber(ctx, applicationNumber)
}

func (p pooled) SaveApplication(ctx context.Context, app domain.Application) error {
	return write(p.store, func(v *txView) error { return v.SaveApplication(ctx, app) })
}

func (p pooled) UpdateApplication(ctx context.Context, app domain.Application) error {
	return write(p.store, func(v *txView) error { return v.UpdateApplication(ctx, app) })
}

func (p pooled) SaveFeeRecord(ctx context.Context, record domain.FeeRecord) (int64, error) {
	var id int64
	err := write(p.store, func(v *txView) error {
		var err error
		id, err = v.SaveFeeRecord(ctx, record)
		return err
	})
	return id, err
}

func (p pooled) ListFeesByAccount(ctx context.Context, accountID string) ([]domain.FeeRecord, error) {
	return read(p.store, func(v *txView) ([]domain.FeeRecord, error) { return v.ListFeesByAccount(ctx, accountID) })
}
