package mapping

import (
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:             d.LoanID,
		ApplicationNumber:  d.ApplicationNumber,
		CustomerID:         d.CustomerID,
		Principal:          d.Principal,
		RemainingBalance:   d.RemainingBalance,
		TermMonths:         d.TermMonths,
		Status:             string(d.Status),
		DisbursedAccountID: toNullStringPtr(d.DisbursedAccountID),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:             m.LoanID,
		ApplicationNumber:  m.ApplicationNumber,
		CustomerID:         m.CustomerID,
		Principal:          m.Principal,
		RemainingBalance:   m.RemainingBalance,
		TermMonths:         m.TermMonths,
		Status:             domain.LoanStatus(m.Status),
		DisbursedAccountID: fromNullStringPtr(m.DisbursedAccountID),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
