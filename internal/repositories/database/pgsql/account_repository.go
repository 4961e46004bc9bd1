package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, account_number, customer_id, account_type, is_active, is_locked, interest_rate, last_interest_period, created_at, last_updated_at`

type PgxAccountRepository struct {
	db DBTX
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DBTX) *PgxAccountRepository {
	return &PgxAccountRepository{db: db}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.AccountNumber,
		&m.CustomerID,
		&m.AccountType,
		&m.IsActive,
		&m.IsLocked,
		&m.InterestRate,
		&m.LastInterestPeriod,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.AccountNumber,
		m.CustomerID,
		m.AccountType,
		m.IsActive,
		m.IsLocked,
		m.InterestRate,
		m.LastInterestPeriod,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return storageError(fmt.Sprintf("failed to save account %s", m.AccountID), err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, "account "+accountID)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountByNumber retrieves an account by its customer-facing number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, accountNumber))
	if err != nil {
		return nil, notFoundOr(err, "account number "+accountNumber)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// UpdateAccountStatus sets the active and locked flags.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, isActive, isLocked bool, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = $2, is_locked = $3, last_updated_at = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, accountID, isActive, isLocked, now)
	if err != nil {
		return storageError(fmt.Sprintf("failed to update status of account %s", accountID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// FindAccountsByIDsForUpdate retrieves accounts and locks the rows for update.
// Rows are locked in account_id order so concurrent units of work cannot deadlock.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, storageError("failed to lock accounts", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, storageError("failed to scan locked account row", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating locked account rows", err)
	}

	// Missing ids are simply absent; the service decides what that means.
	return accountsMap, nil
}

// MarkInterestApplied records period unless it is already the last applied period.
func (r *PgxAccountRepository) MarkInterestApplied(ctx context.Context, accountID string, period string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET last_interest_period = $2, last_updated_at = $3
		WHERE account_id = $1 AND last_interest_period IS DISTINCT FROM $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, accountID, period, now)
	if err != nil {
		return false, storageError(fmt.Sprintf("failed to mark interest period for account %s", accountID), err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
