package dto

import (
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// AmountRequest is the body of deposits and withdrawals.
type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"money"`
	Description string          `json:"description" binding:"max=255"`
}

type ChargeFeeRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"money"`
	FeeType domain.FeeType  `json:"feeType" binding:"required,oneof=MAINTENANCE TRANSFER OVERDRAFT CARD OTHER"`
}

// TransferRequest moves money between two accounts. Fee is charged to the sender.
type TransferRequest struct {
	SenderAccountID   string           `json:"senderAccountID" binding:"required"`
	ReceiverAccountID string           `json:"receiverAccountID" binding:"required,nefield=SenderAccountID"`
	Amount            decimal.Decimal  `json:"amount" binding:"money"`
	Fee               *decimal.Decimal `json:"fee"`
	Description       string           `json:"description" binding:"max=255"`
}

type LoanPaymentRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"money"`
}

type DisburseLoanRequest struct {
	AccountID string `json:"accountID" binding:"required"`
}

// LedgerResultResponse is returned by single-account ledger operations.
type LedgerResultResponse struct {
	Reference    string                `json:"reference"`
	AccountID    string                `json:"accountID"`
	Balance      string                `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

func ToLedgerResultResponse(res *domain.LedgerResult) LedgerResultResponse {
	return LedgerResultResponse{
		Reference:    res.Reference,
		AccountID:    res.AccountID,
		Balance:      utils.FormatAmount(res.Balance),
		Transactions: ToTransactionResponses(res.Transactions),
	}
}

type TransferResponse struct {
	Reference       string                `json:"reference"`
	SenderBalance   string                `json:"senderBalance"`
	ReceiverBalance string                `json:"receiverBalance"`
	Transactions    []TransactionResponse `json:"transactions"`
}

func ToTransferResponse(res *domain.TransferResult) TransferResponse {
	return TransferResponse{
		Reference:       res.Reference,
		SenderBalance:   utils.FormatAmount(res.SenderBalance),
		ReceiverBalance: utils.FormatAmount(res.ReceiverBalance),
		Transactions:    ToTransactionResponses(res.Transactions),
	}
}

// InterestResponse reports a monthly interest run. Applied is false when nothing was written.
type InterestResponse struct {
	LedgerResultResponse
	Interest string `json:"interest"`
	Period   string `json:"period"`
	Applied  bool   `json:"applied"`
}

func ToInterestResponse(res *domain.InterestResult) InterestResponse {
	return InterestResponse{
		LedgerResultResponse: ToLedgerResultResponse(&res.LedgerResult),
		Interest:             utils.FormatAmount(res.Interest),
		Period:               res.Period,
		Applied:              res.Applied,
	}
}
