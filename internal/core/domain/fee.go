package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeType categorizes service charges.
type FeeType string

const (
	FeeMaintenance FeeType = "MAINTENANCE"
	FeeTransfer    FeeType = "TRANSFER"
	FeeOverdraft   FeeType = "OVERDRAFT"
	FeeCard        FeeType = "CARD"
	FeeOther       FeeType = "OTHER"
)

// Valid reports whether f is a known fee type.
func (f FeeType) Valid() bool {
	switch f {
	case FeeMaintenance, FeeTransfer, FeeOverdraft, FeeCard, FeeOther:
		return true
	}
	return false
}

// FeeRecord is the fee-history entry written next to every service charge.
type FeeRecord struct {
	FeeID          int64           `json:"feeID"`
	AccountID      string          `json:"accountID"`
	FeeType        FeeType         `json:"feeType"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceBefore  decimal.Decimal `json:"balanceBefore"`
	BalanceAfter   decimal.Decimal `json:"balanceAfter"`
	TransactionRef string          `json:"transactionRef"`
	ChargedAt      time.Time       `json:"chargedAt"`
}
