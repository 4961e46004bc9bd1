package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement summarizes an account's activity over a period.
type Statement struct {
	AccountID      string          `json:"accountID"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	TotalCredits   decimal.Decimal `json:"totalCredits"`
	TotalDebits    decimal.Decimal `json:"totalDebits"`
	Entries        []Transaction   `json:"entries"`
}
