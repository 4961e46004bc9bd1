package domain

import "github.com/shopspring/decimal"

// LedgerResult is returned by single-account ledger operations.
type LedgerResult struct {
	Reference    string          `json:"reference"`
	AccountID    string          `json:"accountID"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
}

// TransferResult is returned by a transfer. Transactions holds every appended row.
type TransferResult struct {
	Reference       string          `json:"reference"`
	SenderBalance   decimal.Decimal `json:"senderBalance"`
	ReceiverBalance decimal.Decimal `json:"receiverBalance"`
	Transactions    []Transaction   `json:"transactions"`
}

// InterestResult is returned by a monthly interest application.
// Applied is false when the computed interest was not positive and nothing was written.
type InterestResult struct {
	LedgerResult
	Interest decimal.Decimal `json:"interest"`
	Period   string          `json:"period"`
	Applied  bool            `json:"applied"`
}

// LoanLedgerResult is returned by loan payments and disbursements.
type LoanLedgerResult struct {
	LedgerResult
	Loan Loan `json:"loan"`
}
