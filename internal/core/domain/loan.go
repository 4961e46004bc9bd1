package domain

import (
	"github.com/shopspring/decimal"
)

// LoanStatus tracks a loan from approval to repayment.
type LoanStatus string

const (
	LoanApproved LoanStatus = "APPROVED"
	LoanActive   LoanStatus = "ACTIVE"
	LoanClosed   LoanStatus = "CLOSED"
)

// Loan is created when a loan application is approved.
type Loan struct {
	LoanID             string          `json:"loanID"`
	ApplicationNumber  string          `json:"applicationNumber"`
	CustomerID         string          `json:"customerID"`
	Principal          decimal.Decimal `json:"principal"`
	RemainingBalance   decimal.Decimal `json:"remainingBalance"`
	TermMonths         int             `json:"termMonths"`
	Status             LoanStatus      `json:"status"`
	DisbursedAccountID *string         `json:"disbursedAccountID"`
	AuditFields
}

// IsPayable reports whether repayments are accepted.
func (l Loan) IsPayable() bool {
	return l.Status == LoanActive && l.RemainingBalance.IsPositive()
}
