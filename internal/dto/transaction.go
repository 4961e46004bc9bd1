package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
)

// TransactionResponse is one ledger row. Amount is unsigned; Type implies direction.
type TransactionResponse struct {
	TransactionID    int64                  `json:"transactionID"`
	TransactionRef   string                 `json:"transactionRef"`
	AccountID        string                 `json:"accountID"`
	Type             domain.TransactionType `json:"type"`
	Amount           string                 `json:"amount"`
	RelatedAccountID *string                `json:"relatedAccountID,omitempty"`
	BalanceAfter     string                 `json:"balanceAfter"`
	Description      string                 `json:"description,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}

func ToTransactionResponse(txn domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    txn.TransactionID,
		TransactionRef:   txn.TransactionRef,
		AccountID:        txn.AccountID,
		Type:             txn.Type,
		Amount:           utils.FormatAmount(txn.Amount),
		RelatedAccountID: txn.RelatedAccountID,
		BalanceAfter:     utils.FormatAmount(txn.BalanceAfter),
		Description:      txn.Description,
		CreatedAt:        txn.CreatedAt,
	}
}

func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(txn)
	}
	return res
}

// ListTransactionsParams defines query parameters for paging through history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of history, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// TransactionsByRefResponse groups every row written by one ledger operation.
type TransactionsByRefResponse struct {
	Reference    string                `json:"reference"`
	Transactions []TransactionResponse `json:"transactions"`
}
