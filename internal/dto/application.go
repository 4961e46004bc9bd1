package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// SubmitAccountApplicationRequest asks for a new account to be opened.
type SubmitAccountApplicationRequest struct {
	CustomerID   string             `json:"customerID" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=SAVINGS CHECKING FIXED_DEPOSIT BUSINESS"`
	InterestRate *decimal.Decimal   `json:"interestRate"` // Optional, annual percent
}

// SubmitLoanApplicationRequest asks for a loan.
type SubmitLoanApplicationRequest struct {
	CustomerID string          `json:"customerID" binding:"required"`
	Principal  decimal.Decimal `json:"principal" binding:"money"`
	TermMonths int             `json:"termMonths" binding:"required,min=1,max=360"`
}

// RejectApplicationRequest carries the reviewer's reason.
type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ApplicationResponse struct {
	ApplicationNumber string                   `json:"applicationNumber"`
	Kind              domain.ApplicationKind   `json:"kind"`
	CustomerID        string                   `json:"customerID"`
	Status            domain.ApplicationStatus `json:"status"`
	AccountType       domain.AccountType       `json:"accountType,omitempty"`
	InterestRate      *string                  `json:"interestRate,omitempty"`
	Principal         *string                  `json:"principal,omitempty"`
	TermMonths        int                      `json:"termMonths,omitempty"`
	ResultID          string                   `json:"resultID,omitempty"`
	RejectionReason   string                   `json:"rejectionReason,omitempty"`
	DecidedAt         *time.Time               `json:"decidedAt,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
}

func ToApplicationResponse(app *domain.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ApplicationNumber: app.ApplicationNumber,
		Kind:              app.Kind,
		CustomerID:        app.CustomerID,
		Status:            app.Status,
		AccountType:       app.AccountType,
		TermMonths:        app.TermMonths,
		ResultID:          app.ResultID,
		RejectionReason:   app.RejectionReason,
		DecidedAt:         app.DecidedAt,
		CreatedAt:         app.CreatedAt,
	}
	if app.InterestRate != nil {
		rate := app.InterestRate.String()
		resp.InterestRate = &rate
	}
	if app.Principal != nil {
		principal := utils.FormatAmount(*app.Principal)
		resp.Principal = &principal
	}
	return resp
}
