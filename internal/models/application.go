package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Application is the row shape of the applications table.
// Account and loan applications share it; unused columns stay NULL.
type Application struct {
	ApplicationNumber string              `db:"application_number"`
	Kind              string              `db:"kind"`
	CustomerID        string              `db:"customer_id"`
	Status            string              `db:"status"`
	AccountType       sql.NullString      `db:"account_type"`
	InterestRate      decimal.NullDecimal `db:"interest_rate"`
	Principal         decimal.NullDecimal `db:"principal"`
	TermMonths        sql.NullInt32       `db:"term_months"`
	ResultID          sql.NullString      `db:"result_id"`
	RejectionReason   sql.NullString      `db:"rejection_reason"`
	DecidedAt         sql.NullTime        `db:"decided_at"`
	AuditFields
}
