package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
)

type PgxFeeRepository struct {
	db DBTX
}

func newPgxFeeRepository(db DBTX) *PgxFeeRepository {
	return &PgxFeeRepository{db: db}
}

var _ portsrepo.FeeRepositoryFacade = (*PgxFeeRepository)(nil)

func (r *PgxFeeRepository) SaveFeeRecord(ctx context.Context, record domain.FeeRecord) (int64, error) {
	m := mapping.ToModelFeeRecord(record)
	query := `
		INSERT INTO fee_records (account_id, fee_type, amount, balance_before, balance_after, transaction_ref, charged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING fee_id;
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		m.AccountID,
		m.FeeType,
		m.Amount,
		m.BalanceBefore,
		m.BalanceAfter,
		m.TransactionRef,
		m.ChargedAt,
	).Scan(&id)
	if err != nil {
		return 0, storageError(fmt.Sprintf("failed to save fee record for account %s", m.AccountID), err)
	}
	return id, nil
}

// ListFeesByAccount returns the fee history newest first.
func (r *PgxFeeRepository) ListFeesByAccount(ctx context.Context, accountID string) ([]domain.FeeRecord, error) {
	query := `
		SELECT fee_id, account_id, fee_type, amount, balance_before, balance_after, transaction_ref, charged_at
		FROM fee_records
		WHERE account_id = $1
		ORDER BY fee_id DESC;
	`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to list fees for account %s", accountID), err)
	}
	defer rows.Close()

	records := make([]domain.FeeRecord, 0)
	for rows.Next() {
		var m models.FeeRecord
		if err := rows.Scan(&m.FeeID, &m.AccountID, &m.FeeType, &m.Amount, &m.BalanceBefore, &m.BalanceAfter, &m.TransactionRef, &m.ChargedAt); err != nil {
			return nil, storageError("failed to scan fee row", err)
		}
		records = append(records, mapping.ToDomainFeeRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating fee rows", err)
	}
	return records, nil
}
