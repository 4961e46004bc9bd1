package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeRecord is the row shape of the fee_records table.
type FeeRecord struct {
	FeeID          int64           `db:"fee_id"`
	AccountID      string          `db:"account_id"`
	FeeType        string          `db:"fee_type"`
	Amount         decimal.Decimal `db:"amount"`
	BalanceBefore  decimal.Decimal `db:"balance_before"`
	BalanceAfter   decimal.Decimal `db:"balance_after"`
	TransactionRef string          `db:"transaction_ref"`
	ChargedAt      time.Time       `db:"charged_at"`
}
