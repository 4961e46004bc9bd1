package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
)

type LoanResponse struct {
	LoanID             string            `json:"loanID"`
	ApplicationNumber  string            `json:"applicationNumber"`
	CustomerID         string            `json:"customerID"`
	Principal          string            `json:"principal"`
	RemainingBalance   string            `json:"remainingBalance"`
	TermMonths         int               `json:"termMonths"`
	Status             domain.LoanStatus `json:"status"`
	DisbursedAccountID *string           `json:"disbursedAccountID,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	LastUpdatedAt      time.Time         `json:"lastUpdatedAt"`
}

func ToLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:             loan.LoanID,
		ApplicationNumber:  loan.ApplicationNumber,
		CustomerID:         loan.CustomerID,
		Principal:          utils.FormatAmount(loan.Principal),
		RemainingBalance:   utils.FormatAmount(loan.RemainingBalance),
		TermMonths:         loan.TermMonths,
		Status:             loan.Status,
		DisbursedAccountID: loan.DisbursedAccountID,
		CreatedAt:          loan.CreatedAt,
		LastUpdatedAt:      loan.LastUpdatedAt,
	}
}

// LoanLedgerResponse is returned by loan payments and disbursements.
type LoanLedgerResponse struct {
	LedgerResultResponse
	Loan LoanResponse `json:"loan"`
}

func ToLoanLedgerResponse(res *domain.LoanLedgerResult) LoanLedgerResponse {
	return LoanLedgerResponse{
		LedgerResultResponse: ToLedgerResultResponse(&res.LedgerResult),
		Loan:                 ToLoanResponse(&res.Loan),
	}
}
