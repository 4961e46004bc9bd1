package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `transaction_id, transaction_ref, account_id, transaction_type, amount, related_account_id, balance_after, description, created_at`

// PgxTransactionRepository reads and appends ledger rows. It never updates or deletes them.
type PgxTransactionRepository struct {
	db DBTX
}

func newPgxTransactionRepository(db DBTX) *PgxTransactionRepository {
	return &PgxTransactionRepository{db: db}
}

var _ portsrepo.TransactionStore = (*PgxTransactionRepository)(nil)

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	result := make([]models.Transaction, 0)
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.TransactionRef,
			&m.AccountID,
			&m.TransactionType,
			&m.Amount,
			&m.RelatedAccountID,
			&m.BalanceAfter,
			&m.Description,
			&m.CreatedAt,
		); err != nil {
			return nil, storageError("failed to scan transaction row", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(result), nil
}

// Append inserts a row and returns its generated id.
func (r *PgxTransactionRepository) Append(ctx context.Context, txn domain.Transaction) (int64, error) {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_ref, account_id, transaction_type, amount, related_account_id, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING transaction_id;
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		m.TransactionRef,
		m.AccountID,
		m.TransactionType,
		m.Amount,
		m.RelatedAccountID,
		m.BalanceAfter,
		m.Description,
		m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, storageError(fmt.Sprintf("failed to append %s row for account %s", m.TransactionType, m.AccountID), err)
	}
	return id, nil
}

// ListByAccount returns the full history of an account, oldest first.
// Rows created in the same instant keep their id order.
func (r *PgxTransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at ASC, transaction_id ASC;
	`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to list transactions for account %s", accountID), err)
	}
	return scanTransactions(rows)
}

// ListByAccountPage returns up to limit rows newest first, below beforeID when given.
func (r *PgxTransactionRepository) ListByAccountPage(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		  AND ($3::BIGINT IS NULL OR transaction_id < $3)
		ORDER BY transaction_id DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, accountID, limit, beforeID)
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to page transactions for account %s", accountID), err)
	}
	return scanTransactions(rows)
}

// FindByRef returns every row of one ledger operation.
func (r *PgxTransactionRepository) FindByRef(ctx context.Context, ref string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_ref = $1
		ORDER BY transaction_id ASC;
	`
	rows, err := r.db.Query(ctx, query, ref)
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to find transactions for reference %s", ref), err)
	}
	return scanTransactions(rows)
}

func (r *PgxTransactionRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_ref = $1);`, ref).Scan(&exists)
	if err != nil {
		return false, storageError(fmt.Sprintf("failed to check reference %s", ref), err)
	}
	return exists, nil
}
