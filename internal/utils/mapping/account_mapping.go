package mapping

import (
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		AccountNumber:      d.AccountNumber,
		CustomerID:         d.CustomerID,
		AccountType:        models.AccountType(d.AccountType),
		IsActive:           d.IsActive,
		IsLocked:           d.IsLocked,
		InterestRate:       toNullDecimal(d.InterestRate),
		LastInterestPeriod: toNullString(d.LastInterestPeriod),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		AccountNumber:      m.AccountNumber,
		CustomerID:         m.CustomerID,
		AccountType:        domain.AccountType(m.AccountType),
		IsActive:           m.IsActive,
		IsLocked:           m.IsLocked,
		InterestRate:       fromNullDecimal(m.InterestRate),
		LastInterestPeriod: m.LastInterestPeriod.String,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
