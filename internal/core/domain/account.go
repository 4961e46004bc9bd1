package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the product type of a customer account.
type AccountType string

const (
	Savings      AccountType = "SAVINGS"
	Checking     AccountType = "CHECKING"
	FixedDeposit AccountType = "FIXED_DEPOSIT"
	Business     AccountType = "BUSINESS"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case Savings, Checking, FixedDeposit, Business:
		return true
	}
	return false
}

// IsInterestBearing reports whether accounts of this type accrue monthly interest.
func (t AccountType) IsInterestBearing() bool {
	return t == Savings || t == FixedDeposit
}

// NumberPrefix is the leading segment of account numbers issued for this type.
func (t AccountType) NumberPrefix() string {
	switch t {
	case Savings:
		return "SA"
	case Checking:
		return "CHA"
	default:
		return "GEN"
	}
}

// Account represents a customer account within the core domain.
// The balance is never stored here; it is derived from the transaction history.
type Account struct {
	AccountID          string           `json:"accountID"`          // Primary Key (UUID)
	AccountNumber      string           `json:"accountNumber"`      // PREFIX-NNNN-YYYY, unique and immutable
	CustomerID         string           `json:"customerID"`         // Owner in the customer directory
	AccountType        AccountType      `json:"accountType"`        // SAVINGS, CHECKING, ...
	IsActive           bool             `json:"isActive"`           // Soft delete flag
	IsLocked           bool             `json:"isLocked"`           // Blocks all ledger operations
	InterestRate       *decimal.Decimal `json:"interestRate"`       // Annual percent, interest-bearing types only
	LastInterestPeriod string           `json:"lastInterestPeriod"` // YYYY-MM of the last interest application
	AuditFields
}

// CanTransact reports whether ledger operations may touch the account.
func (a Account) CanTransact() bool {
	return a.IsActive && !a.IsLocked
}
