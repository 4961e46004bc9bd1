package mapping

import (
	"database/sql"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/models"
)

// ToModelApplication converts a domain Application to a model Application
func ToModelApplication(d domain.Application) models.Application {
	m := models.Application{
		ApplicationNumber: d.ApplicationNumber,
		Kind:              string(d.Kind),
		CustomerID:        d.CustomerID,
		Status:            string(d.Status),
		AccountType:       toNullString(string(d.AccountType)),
		InterestRate:      toNullDecimal(d.InterestRate),
		Principal:         toNullDecimal(d.Principal),
		ResultID:          toNullString(d.ResultID),
		RejectionReason:   toNullString(d.RejectionReason),
		DecidedAt:         toNullTime(d.DecidedAt),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	if d.TermMonths > 0 {
		m.TermMonths = sql.NullInt32{Int32: int32(d.TermMonths), Valid: true}
	}
	return m
}

// ToDomainApplication converts a model Application to a domain Application
func ToDomainApplication(m models.Application) domain.Application {
	return domain.Application{
		ApplicationNumber: m.ApplicationNumber,
		Kind:              domain.ApplicationKind(m.Kind),
		CustomerID:        m.CustomerID,
		Status:            domain.ApplicationStatus(m.Status),
		AccountType:       domain.AccountType(m.AccountType.String),
		InterestRate:      fromNullDecimal(m.InterestRate),
		Principal:         fromNullDecimal(m.Principal),
		TermMonths:        int(m.TermMonths.Int32),
		ResultID:          m.ResultID.String,
		RejectionReason:   m.RejectionReason.String,
		DecidedAt:         fromNullTime(m.DecidedAt),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
