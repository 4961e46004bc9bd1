package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerOperation names a ledger operation for events and metrics.
type LedgerOperation string

const (
	OpDeposit      LedgerOperation = "deposit"
	OpWithdraw     LedgerOperation = "withdraw"
	OpTransfer     LedgerOperation = "transfer"
	OpChargeFee    LedgerOperation = "charge_fee"
	OpPayLoan      LedgerOperation = "pay_loan"
	OpDisburseLoan LedgerOperation = "disburse_loan"
	OpInterest     LedgerOperation = "apply_interest"
)

// LedgerEvent is published after a ledger operation commits, one per affected account.
type LedgerEvent struct {
	Operation    LedgerOperation `json:"operation"`
	Reference    string          `json:"reference"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
