package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationKind distinguishes account opening from loan requests.
type ApplicationKind string

const (
	AccountApplication ApplicationKind = "ACCOUNT"
	LoanApplication    ApplicationKind = "LOAN"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application is a customer request awaiting review.
// Account applications carry AccountType/InterestRate, loan applications Principal/TermMonths.
type Application struct {
	ApplicationNumber string            `json:"applicationNumber"` // APP-YYYYMMDD-NNNN
	Kind              ApplicationKind   `json:"kind"`
	CustomerID        string            `json:"customerID"`
	Status            ApplicationStatus `json:"status"`
	AccountType       AccountType       `json:"accountType,omitempty"`
	InterestRate      *decimal.Decimal  `json:"interestRate,omitempty"`
	Principal         *decimal.Decimal  `json:"principal,omitempty"`
	TermMonths        int               `json:"termMonths,omitempty"`
	ResultID          string            `json:"resultID,omitempty"` // Account or loan created on approval
	RejectionReason   string            `json:"rejectionReason,omitempty"`
	DecidedAt         *time.Time        `json:"decidedAt,omitempty"`
	AuditFields
}
