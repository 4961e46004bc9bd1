package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const loanColumns = `loan_id, application_number, customer_id, principal, remaining_balance, term_months, status, disbursed_account_id, created_at, last_updated_at`

type PgxLoanRepository struct {
	db DBTX
}

func newPgxLoanRepository(db DBTX) *PgxLoanRepository {
	return &PgxLoanRepository{db: db}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.ApplicationNumber,
		&m.CustomerID,
		&m.Principal,
		&m.RemainingBalance,
		&m.TermMonths,
		&m.Status,
		&m.DisbursedAccountID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxLoanRepository) findLoan(ctx context.Context, loanID string, forUpdate bool) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if err != nil {
		return nil, notFoundOr(err, "loan "+loanID)
	}
	d := mapping.ToDomainLoan(m)
	return &d, nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.findLoan(ctx, loanID, false)
}

// FindLoanByIDForUpdate locks the loan row. Must be called within a transaction.
func (r *PgxLoanRepository) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.findLoan(ctx, loanID, true)
}

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.LoanID,
		m.ApplicationNumber,
		m.CustomerID,
		m.Principal,
		m.RemainingBalance,
		m.TermMonths,
		m.Status,
		m.DisbursedAccountID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return storageError(fmt.Sprintf("failed to save loan %s", m.LoanID), err)
	}
	return nil
}

// UpdateLoan persists the mutable loan columns.
func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		UPDATE loans
		SET remaining_balance = $2, status = $3, disbursed_account_id = $4, last_updated_at = $5
		WHERE loan_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.LoanID, m.RemainingBalance, m.Status, m.DisbursedAccountID, m.LastUpdatedAt)
	if err != nil {
		return storageError(fmt.Sprintf("failed to update loan %s", m.LoanID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, m.LoanID)
	}
	return nil
}
