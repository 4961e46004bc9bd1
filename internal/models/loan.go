package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Loan is the row shape of the loans table.
type Loan struct {
	LoanID             string          `db:"loan_id"`
	ApplicationNumber  string          `db:"application_number"`
	CustomerID         string          `db:"customer_id"`
	Principal          decimal.Decimal `db:"principal"`
	RemainingBalance   decimal.Decimal `db:"remaining_balance"`
	TermMonths         int             `db:"term_months"`
	Status             string          `db:"status"`
	DisbursedAccountID sql.NullString  `db:"disbursed_account_id"`
	AuditFields
}
