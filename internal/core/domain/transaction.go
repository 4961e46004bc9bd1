package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType names the business event a ledger row records.
// The direction of a row is implied by its type, never by the sign of the amount.
type TransactionType string

const (
	Deposit          TransactionType = "DEPOSIT"
	Withdrawal       TransactionType = "WITHDRAWAL"
	TransferIn       TransactionType = "TRANSFER_IN"
	TransferOut      TransactionType = "TRANSFER_OUT"
	ServiceCharge    TransactionType = "SERVICE_CHARGE"
	LoanPayment      TransactionType = "LOAN_PAYMENT"
	LoanDisbursement TransactionType = "LOAN_DISBURSEMENT"
	InterestPayment  TransactionType = "INTEREST_PAYMENT"
)

var signTable = map[TransactionType]int64{
	Deposit:          1,
	TransferIn:       1,
	InterestPayment:  1,
	LoanDisbursement: 1,
	Withdrawal:       -1,
	TransferOut:      -1,
	ServiceCharge:    -1,
	LoanPayment:      -1,
}

// Sign returns +1 for credits, -1 for debits and 0 for unrecognized types.
func (t TransactionType) Sign() int64 {
	return signTable[t]
}

// IsCredit reports whether the type increases the account balance.
func (t TransactionType) IsCredit() bool {
	return t.Sign() > 0
}

// Transaction is one immutable row of the ledger, affecting a single account.
type Transaction struct {
	TransactionID    int64           `json:"transactionID"`    // Monotonically increasing
	TransactionRef   string          `json:"transactionRef"`   // Shared by all rows of one ledger operation
	AccountID        string          `json:"accountID"`        // FK -> accounts.account_id
	Type             TransactionType `json:"type"`             // Determines direction
	Amount           decimal.Decimal `json:"amount"`           // Always non-negative
	RelatedAccountID *string         `json:"relatedAccountID"` // Counterparty for transfers
	BalanceAfter     decimal.Decimal `json:"balanceAfter"`     // Balance right after this row
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// SignedAmount is the amount combined with the direction implied by the type.
func (t Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(t.Type.Sign()))
}
