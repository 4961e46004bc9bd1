package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the transaction_type column.
type TransactionType string

// Transaction is one append-only row of the transactions table.
type Transaction struct {
	TransactionID    int64           `db:"transaction_id"` // BIGSERIAL
	TransactionRef   string          `db:"transaction_ref"`
	AccountID        string          `db:"account_id"`
	TransactionType  TransactionType `db:"transaction_type"`
	Amount           decimal.Decimal `db:"amount"` // CHECK (amount >= 0)
	RelatedAccountID sql.NullString  `db:"related_account_id"`
	BalanceAfter     decimal.Decimal `db:"balance_after"`
	Description      string          `db:"description"`
	CreatedAt        time.Time       `db:"created_at"`
}
