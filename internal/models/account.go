package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column.
type AccountType string

// Account is the row shape of the accounts table. It has no balance column.
type Account struct {
	AccountID          string              `db:"account_id"`
	AccountNumber      string              `db:"account_number"` // Unique
	CustomerID         string              `db:"customer_id"`
	AccountType        AccountType         `db:"account_type"`
	IsActive           bool                `db:"is_active"`
	IsLocked           bool                `db:"is_locked"`
	InterestRate       decimal.NullDecimal `db:"interest_rate"`        // Nullable
	LastInterestPeriod sql.NullString      `db:"last_interest_period"` // Nullable, YYYY-MM
	AuditFields
}
